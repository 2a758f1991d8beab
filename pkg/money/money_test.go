package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToNaira(t *testing.T) {
	assert.Equal(t, "12345.67", ToNaira(1234567).StringFixed(2))
	assert.Equal(t, "0.05", ToNaira(5).StringFixed(2))
}

func TestFormat(t *testing.T) {
	cases := map[int64]string{
		0:         "₦0.00",
		150000:    "₦1,500.00",
		1234567:   "₦12,345.67",
		-250:      "-₦2.50",
		100000000: "₦1,000,000.00",
	}
	for kobo, want := range cases {
		assert.Equal(t, want, Format(kobo), "kobo=%d", kobo)
	}
}

func TestDecimalToNaira(t *testing.T) {
	sum := decimal.NewFromInt(990000)
	assert.Equal(t, "9900.00", DecimalToNaira(sum).StringFixed(2))
}
