// Package billing contiene reglas puras de facturación: numeración de facturas por día.
package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultBillPrefix prefijo de los números de factura.
const DefaultBillPrefix = "BILL"

// BillDay devuelve la medianoche local del día de t. El consecutivo se reinicia en cada día calendario.
func BillDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatBillNumber arma el número PREFIJO-YYYYMMDD-NNNN, NNNN con ceros a la izquierda.
func FormatBillNumber(prefix string, t time.Time, seq int) string {
	if prefix == "" {
		prefix = DefaultBillPrefix
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, t.Format("20060102"), seq)
}

// ParseBillNumber separa un número de factura en día y consecutivo.
func ParseBillNumber(number string) (day time.Time, seq int, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return time.Time{}, 0, fmt.Errorf("billing: número de factura mal formado %q", number)
	}
	day, err = time.ParseInLocation("20060102", parts[1], time.Local)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("billing: fecha inválida en %q: %w", number, err)
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil || seq <= 0 {
		return time.Time{}, 0, fmt.Errorf("billing: consecutivo inválido en %q", number)
	}
	return day, seq, nil
}
