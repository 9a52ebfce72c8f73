package normalize

import (
	"math"
	"strconv"
	"strings"
)

// ParseCoord parses a coordinate written with either '.' or ',' as the
// decimal separator ("48.58", "48,58"). ok is false for anything that is not
// a finite number.
func ParseCoord(s string) (v float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
