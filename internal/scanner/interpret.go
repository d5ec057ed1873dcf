package scanner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ProductCodePrefix marks internally generated product codes: the literal
// prefix followed immediately by the decimal product ID (SPC000000042).
const ProductCodePrefix = "SPC"

// ErrMalformedCode is returned for codes that carry the product prefix but a
// non-numeric remainder. These are rejected locally instead of wasting a
// round trip on a code the service can never resolve.
var ErrMalformedCode = errors.New("malformed product code")

type RefKind int

const (
	RefProduct RefKind = iota
	RefUnknown
)

// Reference is the typed interpretation of a decoded scan code.
type Reference struct {
	Kind      RefKind
	ProductID uint   // set when Kind == RefProduct
	Raw       string // set when Kind == RefUnknown, forwarded verbatim
}

// Interpret parses a decoded code string into a Reference. Pure function:
// no network, no storage. Codes without the product prefix pass through as
// RefUnknown so the service can still resolve them via its barcode index.
func Interpret(code string) (Reference, error) {
	if !strings.HasPrefix(code, ProductCodePrefix) {
		return Reference{Kind: RefUnknown, Raw: code}, nil
	}

	suffix := strings.TrimPrefix(code, ProductCodePrefix)
	id, err := strconv.ParseUint(suffix, 10, 32)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: %q", ErrMalformedCode, code)
	}

	return Reference{Kind: RefProduct, ProductID: uint(id)}, nil
}
