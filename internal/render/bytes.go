package render

import (
	"math"
	"strconv"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count as "<value> <unit>", dividing by 1024 while
// the value is at least 1024 and rounding to two decimals. Zero, negative and
// non-finite input renders as "0 B".
func FormatBytes(b float64) string {
	if b <= 0 || math.IsNaN(b) || math.IsInf(b, 0) {
		return "0 B"
	}
	unit := UnitIndex(b)
	v := b / math.Pow(1024, float64(unit))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + byteUnits[unit]
}

// UnitIndex returns the index into B..TB chosen for b.
func UnitIndex(b float64) int {
	i := 0
	for b >= 1024 && i < len(byteUnits)-1 {
		b /= 1024
		i++
	}
	return i
}
