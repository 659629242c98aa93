package toggl

import (
	"time"

	"github.com/manav03panchal/toggl2slack/internal/model"
)

// summaryResponse is the body of GET /summary grouped by users and
// subgrouped by projects.
type summaryResponse struct {
	TotalGrand uint64        `json:"total_grand"`
	Data       []summaryUser `json:"data"`
}

type summaryUser struct {
	ID    uint64 `json:"id"`
	Title struct {
		User string `json:"user"`
	} `json:"title"`
	Time  uint64        `json:"time"`
	Items []summaryItem `json:"items"`
}

type summaryItem struct {
	Title struct {
		Project model.Project `json:"project"`
	} `json:"title"`
	Time uint64 `json:"time"`
}

// detailsResponse is one page of GET /details.
type detailsResponse struct {
	TotalCount uint64         `json:"total_count"`
	PerPage    uint64         `json:"per_page"`
	Data       []detailsEntry `json:"data"`
}

type detailsEntry struct {
	ID          uint64        `json:"id"`
	Description string        `json:"description"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Dur         uint64        `json:"dur"`
	User        string        `json:"user"`
	Project     model.Project `json:"project"`
}

// record converts a time entry into a raw observation dated by the calendar
// day of its start in the entry's own UTC offset.
func (e detailsEntry) record() model.Record {
	return model.Record{
		Key: model.RecordKey{
			User:    model.User(e.User),
			Project: e.Project,
			Date:    model.DateOf(e.Start),
		},
		Duration: model.Milliseconds(e.Dur),
	}
}

// pageCount returns how many pages hold total entries at perPage per page.
func pageCount(total, perPage uint64) uint64 {
	if perPage == 0 {
		return 1
	}
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		return 1
	}
	return pages
}
