package matchreport

import "strings"

// RegulationMinutes is the fixed length of a match before overtime.
const RegulationMinutes = 60.0

// ParseClock converts a "MM:SS" match clock into fractional minutes. Each
// part is read up to its first non-digit ("45:30.5" is 45.5). A part with no
// leading digits makes the whole clock read as zero.
func ParseClock(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	minutesPart, secondsPart, hasSeconds := strings.Cut(s, ":")
	minutes, ok := leadingInt(minutesPart)
	if !ok {
		return 0
	}
	if !hasSeconds {
		return float64(minutes)
	}

	seconds, ok := leadingInt(secondsPart)
	if !ok {
		return 0
	}
	return float64(minutes) + float64(seconds)/60
}

// DetectOvertimeEnd returns the effective end of the game. Any goal after
// regulation moves the end to the latest such goal and flags overtime.
func DetectOvertimeEnd(goalClocks []float64) (float64, bool) {
	end := RegulationMinutes
	overtime := false
	for _, ts := range goalClocks {
		if ts > RegulationMinutes && ts > end {
			end = ts
			overtime = true
		}
	}
	return end, overtime
}
