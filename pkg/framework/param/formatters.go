package param

import (
	"fmt"
	"strconv"
	"strings"
)

// DecibelFloor is displayed as minus infinity.
const DecibelFloor = -60.0

// unit is a display suffix and the factor that converts it to the plain
// value.
type unit struct {
	suffix string
	scale  float64
}

// Longest suffixes first, so "ms" is not read as "s".
var (
	timeUnits    = []unit{{"µs", 0.001}, {"us", 0.001}, {"ms", 1}, {"s", 1000}}
	decibelUnits = []unit{{"dB", 1}, {"db", 1}}
	percentUnits = []unit{{"%", 1}}
)

// parseUnits parses a number with an optional unit suffix.
func parseUnits(str string, units []unit) (float64, error) {
	str = strings.TrimSpace(str)
	scale := 1.0
	for _, u := range units {
		if strings.HasSuffix(str, u.suffix) {
			str = strings.TrimSpace(strings.TrimSuffix(str, u.suffix))
			scale = u.scale
			break
		}
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	return v * scale, nil
}

// DecibelFormatter formats dB values; DecibelFloor and below show as -∞.
func DecibelFormatter(db float64) string {
	if db <= DecibelFloor {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// DecibelParser parses "-6 dB", "-6" or "-inf".
func DecibelParser(str string) (float64, error) {
	if strings.Contains(str, "∞") || strings.Contains(strings.ToLower(str), "inf") {
		return -96, nil
	}
	return parseUnits(str, decibelUnits)
}

// PercentFormatter formats a 0-100 value as a whole percentage.
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value)
}

// PercentParser parses "45%" or "45".
func PercentParser(str string) (float64, error) {
	return parseUnits(str, percentUnits)
}

// TimeFormatter formats milliseconds in µs, ms or s as the size suits.
func TimeFormatter(ms float64) string {
	switch {
	case ms < 1:
		return fmt.Sprintf("%.2f µs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.1f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000)
}

// TimeParser parses a time in µs, ms or s into milliseconds. A bare number
// is taken as milliseconds.
func TimeParser(str string) (float64, error) {
	return parseUnits(str, timeUnits)
}

// OnOffFormatter formats a toggle.
func OnOffFormatter(value float64) string {
	if value > 0.5 {
		return "On"
	}
	return "Off"
}

// OnOffParser accepts on/off, yes/no, true/false and 1/0.
func OnOffParser(str string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "on", "yes", "true", "1":
		return 1, nil
	case "off", "no", "false", "0":
		return 0, nil
	}
	return 0, fmt.Errorf("expected on or off, got %q", str)
}
