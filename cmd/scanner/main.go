package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-stockscan/internal/model"
	"go-stockscan/internal/scanner"
	"go-stockscan/pkg/logger"
)

// The scanner binary is the scan surface front end. Two modes share one
// engine:
//
//	manual — desktop surface, codes typed or emitted by a hardware scanner,
//	         one per line; ":"-prefixed lines are commands.
//	feed   — mobile-style surface, a detector sampled on a fixed interval
//	         (a file or FIFO stands in for the camera decode loop).
func main() {
	mode := flag.String("mode", "manual", "input mode: manual or feed")
	feedPath := flag.String("feed", "", "feed file or FIFO for feed mode")
	interval := flag.Duration("interval", scanner.DefaultSampleInterval, "detector sample interval in feed mode")
	flag.Parse()

	_ = godotenv.Load()

	appEnv := envOr("APP_ENV", "development")
	log, err := logger.New(envOr("LOG_LEVEL", "info"), appEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	apiURL := envOr("SCAN_API_URL", "http://localhost:3000")
	client := scanner.NewClient(apiURL, log)

	device := scanner.DeviceDesktop
	if *mode == "feed" {
		device = scanner.DeviceMobile
	}

	proc := scanner.NewProcessor(scanner.ProcessorConfig{
		Client:   client,
		Notifier: scanner.ConsoleNotifier{W: os.Stdout},
		Device:   device,
		Logger:   log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "manual":
		runManual(ctx, proc)
	case "feed":
		if *feedPath == "" {
			fmt.Fprintln(os.Stderr, "feed mode requires -feed <path>")
			os.Exit(1)
		}
		runFeed(ctx, proc, *feedPath, *interval, log)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(1)
	}
}

// runManual drives the desktop surface: every non-command line is one scan
// event against the currently selected action.
func runManual(ctx context.Context, proc *scanner.Processor) {
	src := scanner.NewManualSource(os.Stdin)
	defer src.Close()

	action := model.ActionScanIn
	fmt.Println("scan mode: stock-in  (:out / :in to switch, :undo [n], :history, :clear, :quit)")

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-src.Codes():
			if !ok {
				return
			}
			if strings.HasPrefix(line, ":") {
				if quit := command(ctx, proc, line, &action); quit {
					return
				}
				continue
			}
			// Dropped errors already produced their one notification.
			_, _ = proc.Process(ctx, line, action)
		}
	}
}

func command(ctx context.Context, proc *scanner.Processor, line string, action *model.ScanAction) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":in":
		*action = model.ActionScanIn
		fmt.Println("scan mode: stock-in")
	case ":out":
		*action = model.ActionScanOut
		fmt.Println("scan mode: stock-out")
	case ":undo":
		index := 0
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				index = n
			}
		}
		entry := proc.History().At(index)
		if entry == nil {
			fmt.Println("nothing to undo at position", index)
			return false
		}
		_ = proc.Undo(ctx, entry)
	case ":history":
		printHistory(proc)
	case ":clear":
		proc.History().Clear()
		proc.ClearLastScan()
		fmt.Println("history cleared")
	case ":quit":
		return true
	default:
		fmt.Println("unknown command:", fields[0])
	}
	return false
}

func printHistory(proc *scanner.Processor) {
	entries := proc.History().Entries()
	if len(entries) == 0 {
		fmt.Println("history is empty")
		return
	}
	for i, e := range entries {
		r := e.Result
		fmt.Printf("%3d  %-20s %+d  (%d -> %d)\n", i, r.ProductName, r.Change, r.PreviousQuantity, r.NewQuantity)
	}
}

// runFeed drives the mobile-style surface: stock-in scans from a sampled
// detector. Codes decoded while a mutation is in flight are dropped by the
// source, duplicates are eaten by the debounce guard.
func runFeed(ctx context.Context, proc *scanner.Processor, path string, interval time.Duration, log *zap.Logger) {
	det, err := scanner.NewFileDetector(path)
	if err != nil {
		log.Fatal("cannot open feed", zap.String("path", path), zap.Error(err))
	}

	src := scanner.NewIntervalSource(det, interval, log)
	defer src.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case code, ok := <-src.Codes():
			if !ok {
				return
			}
			_, _ = proc.Process(ctx, code, model.ActionScanIn)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
