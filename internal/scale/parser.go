package scale

import (
	"strconv"
	"strings"

	"github.com/ironaxle/weighstation/internal/domain"
)

// ParseFrame extracts the weight in kilograms from one indicator output line.
//
// Indicators vary in framing but share a shape: optional comma-separated
// status fields, then a signed decimal value, then an optional unit. Examples
// seen in the field:
//
//	ST,GS,+  1234.5kg
//	US,GS,-     0.0kg
//	12480
//
// The parser is lenient about whitespace and status prefixes but strict about
// the numeric payload. Frames reporting in grams or tonnes are converted.
func ParseFrame(line string) (float64, error) {
	const op = "scale.ParseFrame"

	raw := strings.TrimSpace(line)
	if raw == "" {
		return 0, domain.InvalidData(op, "empty frame")
	}

	// Keep the last comma-separated field; status flags precede the value.
	if idx := strings.LastIndex(raw, ","); idx >= 0 {
		raw = raw[idx+1:]
	}
	raw = strings.TrimSpace(raw)

	unit := "kg"
	lower := strings.ToLower(raw)
	switch {
	case strings.HasSuffix(lower, "kg"):
		raw = raw[:len(raw)-2]
	case strings.HasSuffix(lower, "lb"):
		unit = "lb"
		raw = raw[:len(raw)-2]
	case strings.HasSuffix(lower, "t"):
		unit = "t"
		raw = raw[:len(raw)-1]
	case strings.HasSuffix(lower, "g"):
		unit = "g"
		raw = raw[:len(raw)-1]
	}

	// Indicators pad the sign away from the digits: "+  1234.5".
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "")

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.InvalidData(op, "unparseable weight frame: "+strings.TrimSpace(line))
	}

	switch unit {
	case "g":
		value /= 1000
	case "t":
		value *= 1000
	case "lb":
		value *= 0.45359237
	}

	return value, nil
}
