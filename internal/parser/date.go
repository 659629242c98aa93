// Package parser parses the date arguments accepted on the command line.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/model"
)

// isoDateRegex matches the canonical YYYY-MM-DD form.
var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// periodRegex matches period expressions like "this week", "last month".
var periodRegex = regexp.MustCompile(`(?i)^(this|current|last|previous)\s+(week|month|quarter|year)$`)

// DateExamples lists accepted date forms for error messages.
var DateExamples = []string{
	"2020-12-01",
	"today",
	"yesterday",
	"9 days ago",
	"last monday",
}

// ParseDate parses a calendar date relative to the current time.
func ParseDate(field, input string) (model.Date, error) {
	return ParseDateAt(field, input, time.Now())
}

// ParseDateAt parses a calendar date. YYYY-MM-DD is taken literally; anything
// else goes through natural-language parsing relative to now, and the date
// is taken in now's location.
func ParseDateAt(field, input string, now time.Time) (model.Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return model.Date{}, invalidDate(field, input, "date is empty")
	}

	if isoDateRegex.MatchString(input) {
		d, err := model.ParseDate(input)
		if err != nil {
			return model.Date{}, invalidDate(field, input, "no such calendar date")
		}
		return d, nil
	}

	switch strings.ToLower(input) {
	case "today", "now":
		return model.DateOf(now), nil
	case "yesterday":
		return model.DateOf(now).AddDays(-1), nil
	}

	if match := periodRegex.FindStringSubmatch(input); match != nil {
		p := periodOf(match[1], match[2], now)
		return p.Begin, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return model.Date{}, invalidDate(field, input, "unrecognized date")
	}
	return model.DateOf(result.Time.In(now.Location())), nil
}

// ParseRange parses --from and --to and checks that from is not after to.
// It runs before any network I/O so a bad range never reaches the APIs.
func ParseRange(from, to string, now time.Time) (model.Period, error) {
	begin, err := ParseDateAt("from", from, now)
	if err != nil {
		return model.Period{}, err
	}
	end, err := ParseDateAt("to", to, now)
	if err != nil {
		return model.Period{}, err
	}

	period, err := model.NewPeriod(begin, end)
	if err != nil {
		return model.Period{}, (&errors.UserError{
			Message:    "--from must not be after --to",
			Suggestion: "Swap the dates or widen the range. Both ends are inclusive.",
			Field:      "from",
			Value:      begin.String() + " > " + end.String(),
		}).WithCause(err)
	}
	return period, nil
}

// ParsePeriod resolves a named period such as "last week" or "this month"
// into its first and last day.
func ParsePeriod(input string, now time.Time) (model.Period, error) {
	trimmed := strings.TrimSpace(input)
	switch strings.ToLower(trimmed) {
	case "today":
		d := model.DateOf(now)
		return model.Period{Begin: d, End: d}, nil
	case "yesterday":
		d := model.DateOf(now).AddDays(-1)
		return model.Period{Begin: d, End: d}, nil
	}

	match := periodRegex.FindStringSubmatch(trimmed)
	if match == nil {
		return model.Period{}, errors.NewUserErrorWithField("period", input, "unknown period",
			"Use 'today', 'yesterday', or this/last followed by week, month, quarter or year.").
			WithCause(errors.ErrInvalidDate)
	}
	return periodOf(match[1], match[2], now), nil
}

// periodOf returns the calendar period named by modifier and unit. Weeks
// start on Monday.
func periodOf(modifier, unit string, now time.Time) model.Period {
	today := model.DateOf(now)
	previous := strings.EqualFold(modifier, "last") || strings.EqualFold(modifier, "previous")

	var begin, end model.Date
	switch strings.ToLower(unit) {
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		begin = today.AddDays(1 - weekday)
		if previous {
			begin = begin.AddDays(-7)
		}
		end = begin.AddDays(6)

	case "month":
		begin = model.NewDate(today.Year, today.Month, 1)
		if previous {
			begin = model.NewDate(today.Year, today.Month-1, 1)
		}
		end = model.NewDate(begin.Year, begin.Month+1, 1).AddDays(-1)

	case "quarter":
		first := time.Month((int(today.Month)-1)/3*3 + 1)
		begin = model.NewDate(today.Year, first, 1)
		if previous {
			begin = model.NewDate(today.Year, first-3, 1)
		}
		end = model.NewDate(begin.Year, begin.Month+3, 1).AddDays(-1)

	default: // year
		year := today.Year
		if previous {
			year--
		}
		begin = model.NewDate(year, time.January, 1)
		end = model.NewDate(year, time.December, 31)
	}
	return model.Period{Begin: begin, End: end}
}

func invalidDate(field, input, reason string) error {
	return (&errors.UserError{
		Message:    "invalid --" + field + " date (" + reason + ")",
		Suggestion: "Try formats like " + strings.Join(DateExamples, ", ") + ".",
		Field:      field,
		Value:      input,
	}).WithCause(errors.ErrInvalidDate)
}
