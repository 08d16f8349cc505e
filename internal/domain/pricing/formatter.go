// internal/domain/pricing/formatter.go
package pricing

import (
	"fmt"
	"strconv"
)

// Formatter renders a minor-unit amount as a display string.
// It is an injected collaborator; the core never formats on its own beyond
// the deterministic default below.
type Formatter interface {
	Format(minor int64) string
}

// SEKFormatter renders öre as "1 234,50 kr" (two decimals, fixed unit).
// Rounding never happens here: amounts are already integer öre.
type SEKFormatter struct{}

func (SEKFormatter) Format(minor int64) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	units := minor / 100
	cents := minor % 100

	s := groupThousands(strconv.FormatInt(units, 10))
	out := fmt.Sprintf("%s,%02d kr", s, cents)
	if neg {
		out = "-" + out
	}
	return out
}

// DefaultFormatter is used when no formatter is injected.
var DefaultFormatter Formatter = SEKFormatter{}

// groupThousands inserts narrow spaces per Swedish convention ("1 234 567").
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var out []byte
	lead := n % 3
	if lead > 0 {
		out = append(out, digits[:lead]...)
	}
	for i := lead; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[i:i+3]...)
	}
	return string(out)
}

// percentText renders the signed percent label shown next to the price.
func percentText(pct int) string {
	return strconv.Itoa(pct) + "%"
}

// RoundToMinor converts a major-unit float (e.g. a decoded JSON price) to
// integer minor units with half-up rounding, the only rounding rule in the
// pricing core.
func RoundToMinor(major float64) int64 {
	if major >= 0 {
		return int64(major*100 + 0.5)
	}
	return -int64(-major*100 + 0.5)
}
