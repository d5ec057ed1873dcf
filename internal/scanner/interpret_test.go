package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpret_ProductCodes(t *testing.T) {
	testCases := []struct {
		name      string
		code      string
		productID uint
	}{
		{name: "short id", code: "SPC42", productID: 42},
		{name: "zero padded id", code: "SPC000000042", productID: 42},
		{name: "canonical format", code: "SPC000000001", productID: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := Interpret(tc.code)
			require.NoError(t, err)
			assert.Equal(t, RefProduct, ref.Kind)
			assert.Equal(t, tc.productID, ref.ProductID)
		})
	}
}

func TestInterpret_UnknownCodesPassThroughVerbatim(t *testing.T) {
	for _, code := range []string{"XYZ123", "8991234567890", "spc42", "S P C"} {
		ref, err := Interpret(code)
		require.NoError(t, err)
		assert.Equal(t, RefUnknown, ref.Kind)
		assert.Equal(t, code, ref.Raw)
	}
}

func TestInterpret_MalformedProductCodeRejectedLocally(t *testing.T) {
	for _, code := range []string{"SPC", "SPCabc", "SPC12x", "SPC-1", "SPC 42"} {
		_, err := Interpret(code)
		assert.ErrorIs(t, err, ErrMalformedCode, "code %q", code)
	}
}
