package handler

import (
	"errors"
	"strconv"

	"go-stockscan/internal/metrics"
	"go-stockscan/internal/model"
	"go-stockscan/internal/scanner"
	"go-stockscan/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// Scan applies one stock mutation. Errors carry a human-readable "detail"
// field that scan surfaces show verbatim in their toast.
func (h *InventoryHandler) Scan(c *fiber.Ctx) error {
	var req model.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"detail": "invalid JSON body"})
	}

	result, err := h.service.ApplyScan(&req)
	if err != nil {
		metrics.ScansTotal.WithLabelValues(string(req.Action), "rejected").Inc()
		return scanError(c, err)
	}

	metrics.ScansTotal.WithLabelValues(string(req.Action), "applied").Inc()
	if req.Reason == scanner.UndoReason {
		metrics.UndosTotal.Inc()
	}

	return c.JSON(result)
}

func scanError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(404).JSON(fiber.Map{"detail": err.Error()})
	case errors.Is(err, service.ErrInsufficientStock):
		return c.Status(409).JSON(fiber.Map{"detail": err.Error()})
	case errors.As(err, &ve):
		return c.Status(400).JSON(fiber.Map{"detail": ve.Detail})
	default:
		return c.Status(500).JSON(fiber.Map{"detail": "internal server error"})
	}
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

func (h *InventoryHandler) GetScanLogs(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	logs, err := h.service.GetScanLogs(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(logs)
}

func (h *InventoryHandler) GetScanLog(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid scan log ID"})
	}

	log, err := h.service.GetScanLogByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Scan log not found"})
	}
	return c.JSON(log)
}

// Helper untuk parse numeric ID dari path param
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
