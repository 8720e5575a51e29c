package session

import (
	"fmt"
	"strconv"
	"time"
)

// FormatCoins renders an amount compactly: 999, 1.2k, 3.4m.
func FormatCoins(amount int64) string {
	switch {
	case amount >= 1_000_000:
		return fmt.Sprintf("%.1fm", float64(amount)/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("%.1fk", float64(amount)/1_000)
	default:
		return strconv.FormatInt(amount, 10)
	}
}

// FormatInterval renders a tier interval in milliseconds, e.g. "15s".
func FormatInterval(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}
