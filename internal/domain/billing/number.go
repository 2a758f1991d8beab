package billing

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// InvoiceNumberPrefix prefijo fijo del consecutivo.
const InvoiceNumberPrefix = "INV"

// FormatInvoiceNumber arma INV-YYYY-NNN con relleno a 3 dígitos; por encima de 999 crece sin límite.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%03d", InvoiceNumberPrefix, year, seq)
}

// ParseInvoiceNumber extrae año y consecutivo de un número INV-YYYY-NNN.
func ParseInvoiceNumber(number string) (year int, seq int64, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != InvoiceNumberPrefix {
		return 0, 0, fmt.Errorf("invalid invoice number %q", number)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return 0, 0, fmt.Errorf("invalid invoice number year %q", number)
	}
	seq, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq < 1 {
		return 0, 0, fmt.Errorf("invalid invoice number sequence %q", number)
	}
	return year, seq, nil
}

// CompareInvoiceNumbers compara por (año, consecutivo) numéricos; devuelve -1, 0 o 1.
// Un número que no parsea se ordena antes que cualquier número válido.
func CompareInvoiceNumbers(a, b string) int {
	ya, sa, errA := ParseInvoiceNumber(a)
	yb, sb, errB := ParseInvoiceNumber(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	case ya != yb:
		return cmp.Compare(ya, yb)
	default:
		return cmp.Compare(sa, sb)
	}
}
