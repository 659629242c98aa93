package report

import (
	"strconv"

	"github.com/manav03panchal/toggl2slack/internal/model"
)

// halfHourThreshold is the minute remainder from which half an hour is shown.
const halfHourThreshold = 30

// FormatHours renders d in hours with half-hour resolution. Whole minutes are
// split into hours and a remainder; a remainder of 30 minutes or more adds
// ".5", anything less is dropped. 1,799,999ms is "0", 1,800,000ms is "0.5"
// and 3,600,000ms is "1".
func FormatHours(d model.Duration) string {
	minutes := d.Minutes()
	hours := strconv.FormatUint(minutes/60, 10)
	if minutes%60 >= halfHourThreshold {
		return hours + ".5"
	}
	return hours
}
