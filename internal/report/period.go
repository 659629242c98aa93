package report

import "github.com/manav03panchal/toggl2slack/internal/model"

// ExpandPeriod returns every day from begin to end inclusive, ascending. It
// fails with model.ErrInvalidRange when begin is after end.
func ExpandPeriod(begin, end model.Date) ([]model.Date, error) {
	period, err := model.NewPeriod(begin, end)
	if err != nil {
		return nil, err
	}

	days := make([]model.Date, 0, period.Days())
	for d := period.Begin; !d.After(period.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days, nil
}
