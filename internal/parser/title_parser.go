package parser

import (
	"regexp"
	"strings"

	"github.com/balkashynov/grind/internal/models"
)

// ParsedTask represents a task parsed from natural language
type ParsedTask struct {
	Title          string
	Goal           string
	Tags           []string
	Category       models.Category
	PlannedMinutes int
	Errors         []string
}

var (
	tagRegex      = regexp.MustCompile(`#([a-zA-Z0-9_,-]+)`)
	goalRegex     = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
	categoryRegex = regexp.MustCompile(`!([a-zA-Z]+)`)
	durationRegex = regexp.MustCompile(`~([0-9hm]+)`)
)

// ParseTitle extracts metadata from a task title using natural syntax
// Syntax: "Task title #tag1,tag2 @goal !category ~1h30m"
func ParseTitle(input string) ParsedTask {
	result := ParsedTask{
		Title:  input,
		Tags:   []string{},
		Errors: []string{},
	}

	// Extract tags (#tag1,tag2 or #tag1 #tag2)
	for _, match := range tagRegex.FindAllStringSubmatch(input, -1) {
		for _, tag := range strings.Split(match[1], ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				result.Tags = append(result.Tags, tag)
			}
		}
	}
	input = tagRegex.ReplaceAllString(input, "")

	// Extract goal reference (@goal-id-prefix)
	if m := goalRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Goal = m[1]
		input = goalRegex.ReplaceAllString(input, "")
	}

	// Extract category (!research, !learning, ...)
	if m := categoryRegex.FindStringSubmatch(input); len(m) > 1 {
		category, err := models.ParseCategory(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid category '"+m[1]+"'. Use: research, creation, learning, activity, leisure, other")
		} else {
			result.Category = category
		}
		input = categoryRegex.ReplaceAllString(input, "")
	}

	// Extract planned duration (~45m, ~2h, ~1h30m)
	if m := durationRegex.FindStringSubmatch(input); len(m) > 1 {
		minutes, err := ParseMinutes(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid duration '"+m[1]+"': "+err.Error())
		} else {
			result.PlannedMinutes = minutes
		}
		input = durationRegex.ReplaceAllString(input, "")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}
