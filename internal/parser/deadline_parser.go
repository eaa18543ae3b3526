package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dmyRegex      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDateRegex  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(day|days|d|week|weeks|w|month|months|mo)$`)
)

// ParseDeadline parses various deadline formats relative to now
// Supported formats:
// - dd/mm/yyyy (e.g., "15/12/2026")
// - yyyy-mm-dd (e.g., "2026-12-15")
// - X days (e.g., "3 days", "10d")
// - X weeks (e.g., "2 weeks", "6w")
// - X months (e.g., "3 months", "1mo")
// Deadlines land at the end of the day.
func ParseDeadline(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("deadline is empty")
	}

	if m := dmyRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[3], m[2], m[1], now.Location())
	}
	if m := isoDateRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[1], m[2], m[3], now.Location())
	}
	if m := relativeRegex.FindStringSubmatch(input); m != nil {
		return parseRelative(m[1], m[2], now)
	}

	return time.Time{}, fmt.Errorf("invalid deadline format. Use: dd/mm/yyyy, yyyy-mm-dd, X days, X weeks or X months")
}

// buildDate validates the components and returns the end of that day
func buildDate(yearStr, monthStr, dayStr string, loc *time.Location) (time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31")
	}
	if year < 2000 || year > 2100 {
		return time.Time{}, fmt.Errorf("year must be between 2000 and 2100")
	}

	deadline := time.Date(year, time.Month(month), day, 23, 59, 59, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if deadline.Day() != day || deadline.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return deadline, nil
}

// parseRelative handles "X days", "X weeks" and "X months"
func parseRelative(amountStr, unit string, now time.Time) (time.Time, error) {
	amount, err := strconv.Atoi(amountStr)
	if err != nil || amount < 1 {
		return time.Time{}, fmt.Errorf("amount must be a positive number")
	}

	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	switch unit {
	case "day", "days", "d":
		if amount > 3650 {
			return time.Time{}, fmt.Errorf("days must be between 1 and 3650")
		}
		return endOfToday.AddDate(0, 0, amount), nil
	case "week", "weeks", "w":
		if amount > 520 {
			return time.Time{}, fmt.Errorf("weeks must be between 1 and 520")
		}
		return endOfToday.AddDate(0, 0, amount*7), nil
	default:
		if amount > 120 {
			return time.Time{}, fmt.Errorf("months must be between 1 and 120")
		}
		return endOfToday.AddDate(0, amount, 0), nil
	}
}

// EndOfMonth returns the last second of now's month, the natural deadline of a recurring goal
func EndOfMonth(now time.Time) time.Time {
	firstOfNext := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	return firstOfNext.Add(-time.Second)
}

// FormatDeadline formats a deadline for display
func FormatDeadline(deadline, now time.Time) string {
	if deadline.IsZero() {
		return "none"
	}

	// Calculate calendar days difference
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, now.Location())
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	dateStr := deadline.Format("02/01/2006")

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("📅 Due %s", dateStr)
	}
}
