package report

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/toggl2slack/internal/model"
)

// SummaryTitle heads every summary message.
const SummaryTitle = "*Toggl summary report*"

// RenderSummary renders the per-user summary message for Slack.
//
//	*Toggl summary report* [2020/12/01-2020/12/31]
//
//	*Alice*
//
//	```ProjectA: 1h
//	ProjectB: 2h
//	```
//
// Users are listed in ascending order. Projects keep the order they were
// received in, and durations are shown as given: the summary endpoint already
// returns one total per (user, project).
func RenderSummary(records model.ProjectRecords, begin, end model.Date) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s-%s]\n",
		SummaryTitle,
		begin.Format(model.DisplayLayout),
		end.Format(model.DisplayLayout))

	for _, user := range records.Users() {
		sb.WriteString("\n*")
		sb.WriteString(user.String())
		sb.WriteString("*\n\n```")
		for _, entry := range records[user] {
			fmt.Fprintf(&sb, "%s: %sh\n", entry.Project, FormatHours(entry.Duration))
		}
		sb.WriteString("```")
	}
	return sb.String()
}
