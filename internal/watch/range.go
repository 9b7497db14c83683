// Package watch implements the price-watch pipeline: parsing user-entered
// watch ranges, classifying prices against them, and evaluating each new
// price snapshot into notification events.
package watch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

// ParseRange parses a "<low>-<high>" watch range. Both halves are trimmed and
// parsed as decimal numbers. A missing separator or a non-numeric half yields
// domain.ErrInvalidRange. Low is not required to be below High: a reversed
// range is accepted as entered and classification over it follows the literal
// comparison rules, which can make Within unreachable.
func ParseRange(text string) (domain.RangeBounds, error) {
	parts := strings.Split(text, "-")
	if len(parts) < 2 {
		return domain.RangeBounds{}, fmt.Errorf("parse range %q: %w", text, domain.ErrInvalidRange)
	}

	low, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.RangeBounds{}, fmt.Errorf("parse range %q: %w", text, domain.ErrInvalidRange)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.RangeBounds{}, fmt.Errorf("parse range %q: %w", text, domain.ErrInvalidRange)
	}

	return domain.RangeBounds{Low: low, High: high}, nil
}

// Classify returns the position of price relative to the range bounds:
// above High, below Low, or within.
func Classify(price float64, b domain.RangeBounds) domain.RangeStatus {
	switch {
	case price > b.High:
		return domain.RangeAbove
	case price < b.Low:
		return domain.RangeBelow
	default:
		return domain.RangeWithin
	}
}
