package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout used by FormatDate.
const DateLayout = "Jan 2, 2006 15:04"

// FormatDate renders an order timestamp in local time. The zero time renders
// as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateLayout)
}

// Status colors.
const (
	ColorYellow = "yellow"
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorTeal   = "teal"
	ColorRed    = "red"
	ColorGray   = "gray"
)

// StatusLabel returns the display label and badge color of s.
func StatusLabel(s Status) (label, color string) {
	switch s {
	case StatusPending:
		return "Pending", ColorYellow
	case StatusProcessing:
		return "Processing", ColorBlue
	case StatusConfirmed:
		return "Confirmed", ColorGreen
	case StatusCompleted:
		return "Completed", ColorTeal
	case StatusCancelled:
		return "Cancelled", ColorRed
	}
	if s == "" {
		return "Unknown", ColorGray
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:]), ColorGray
}

// LineTotal returns price × quantity.
func LineTotal(l Line) decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PaymentProofURL resolves a stored proof path against the uploads base URL.
// Absolute URLs are returned unchanged.
func PaymentProofURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
