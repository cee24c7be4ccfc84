package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix     string
	multiplier float64
}{
	{"tb", 1e12},
	{"t", 1e12},
	{"gb", 1e9},
	{"g", 1e9},
	{"mb", 1e6},
	{"m", 1e6},
	{"kb", 1e3},
	{"k", 1e3},
	{"b", 1},
}

// ParseSize accepts plain byte counts or decimal suffixes such as "10k" or "1.5mb".
func ParseSize(input string) (uint64, error) {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return 0, nil
	}
	value := trimmed
	multiplier := 1.0
	for _, unit := range sizeUnits {
		if strings.HasSuffix(trimmed, unit.suffix) {
			value = strings.TrimSuffix(trimmed, unit.suffix)
			multiplier = unit.multiplier
			break
		}
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", input, err)
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("invalid size %q: not a finite number", input)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", input)
	}
	bytes := parsed * multiplier
	if bytes >= math.MaxUint64 {
		return 0, fmt.Errorf("invalid size %q: too large", input)
	}
	return uint64(bytes), nil
}

func FormatSize(size uint64) string {
	const unit = 1000
	if size < unit {
		return fmt.Sprintf("%dB", size)
	}
	div, exp := uint64(unit), 0
	for n := size / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}
	value := float64(size) / float64(div)
	units := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	return fmt.Sprintf("%.1f%s", value, units[exp])
}
