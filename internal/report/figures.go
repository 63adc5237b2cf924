package report

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
)

const (
	// ZeroMarker is how a difference of exactly zero is shown.
	ZeroMarker = " 0"
	// UnavailableMarker marks a figure the secondary source did not report.
	UnavailableMarker = "UNAVBL"
)

// FormatFigure renders a reconciliation figure. Differences carry an explicit
// sign except zero, which renders as ZeroMarker.
func FormatFigure(f domain.Figure, mode domain.Mode) string {
	v, ok := f.Value()
	if !ok {
		return UnavailableMarker
	}
	if mode == domain.ModeAbsolute {
		return strconv.Itoa(v)
	}
	if v == 0 {
		return ZeroMarker
	}
	return fmt.Sprintf("%+d", v)
}

// FormatCount renders a plain count.
func FormatCount(n int) string {
	return strconv.Itoa(n)
}
