package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var minutesRegex = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m?)?$`)

// ParseMinutes parses a session length such as "45", "45m", "2h" or "1h30m"
// into whole minutes. The result must be positive.
func ParseMinutes(input string) (int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("duration is empty")
	}

	matches := minutesRegex.FindStringSubmatch(input)
	if matches == nil || (matches[1] == "" && matches[2] == "") {
		return 0, fmt.Errorf("invalid duration format. Use: 45m, 2h or 1h30m")
	}

	total := 0
	if matches[1] != "" {
		hours, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, fmt.Errorf("invalid hours")
		}
		total += hours * 60
	}
	if matches[2] != "" {
		minutes, err := strconv.Atoi(matches[2])
		if err != nil {
			return 0, fmt.Errorf("invalid minutes")
		}
		total += minutes
	}

	if total <= 0 {
		return 0, fmt.Errorf("duration must be greater than zero")
	}
	if total > 24*60 {
		return 0, fmt.Errorf("duration must be at most 24h")
	}
	return total, nil
}

// FormatMinutes renders minutes as "1h 30m", "45m" or "2h"
func FormatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
