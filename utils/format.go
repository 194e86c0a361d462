package utils

import (
	"strconv"
	"time"
)

// FormatMoney renders a monetary amount with two decimal places for display.
func FormatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatOrderDate renders an order timestamp the way the profile view shows it.
func FormatOrderDate(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}
