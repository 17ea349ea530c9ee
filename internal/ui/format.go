package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/rivo/tview"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders money with thousand separators and two decimals.
// USD gets a dollar sign, other units are appended.
func FormatAmount(amount float64, unit string) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	s := printer.Sprintf("%d", cents/100) + fmt.Sprintf(".%02d", cents%100)
	if amount < 0 && cents != 0 {
		s = "-" + s
	}
	if unit == "" || unit == "USD" {
		return "$" + s
	}
	return s + " " + unit
}

// FormatPercent renders a share with one decimal
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a size in binary units, with one decimal under 10
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	if value < 10 {
		return fmt.Sprintf("%.1f %s", value, byteUnits[unit])
	}
	return fmt.Sprintf("%.0f %s", value, byteUnits[unit])
}

// StateColor is the color tag of an instance state
func StateColor(state string) string {
	switch state {
	case "running":
		return ColorGreen
	case "stopped", "terminated", "shutting-down":
		return ColorRed
	case "pending", "stopping":
		return ColorYellow
	}
	return ColorMuted
}

// StatusColor is the color tag of a status check pair such as "ok/ok"
func StatusColor(status string) string {
	switch {
	case strings.Contains(status, "failed"):
		return ColorRed
	case strings.Contains(status, "impaired"), strings.Contains(status, "insufficient-data"):
		return ColorYellow
	case status == "ok/ok":
		return ColorGreen
	}
	return ColorMuted
}

// Colorize wraps text in a color tag
func Colorize(color, text string) string {
	return "[" + color + "]" + tview.Escape(text) + "[-]"
}
