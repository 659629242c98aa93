package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/manav03panchal/toggl2slack/internal/model"
)

// Fixed leading columns of the detailed table.
const (
	ColumnProject = "Project"
	ColumnUser    = "User"
)

// RenderTable renders t as CSV with one column per day from begin to end and
// one row per (project, user) pair. Rows are ordered by project, then user;
// days without tracked time show the formatted zero duration.
func RenderTable(t Table, begin, end model.Date) (string, error) {
	var sb strings.Builder
	if err := WriteTable(&sb, t, begin, end); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteTable writes the table produced by RenderTable to w.
func WriteTable(w io.Writer, t Table, begin, end model.Date) error {
	days, err := ExpandPeriod(begin, end)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, len(days)+2)
	header = append(header, ColumnProject, ColumnUser)
	for _, d := range days {
		header = append(header, d.String())
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}

	// Every project is paired with every user, so the table stays
	// rectangular even for pairs that never logged time together.
	users := t.Users()
	for _, project := range t.Projects() {
		for _, user := range users {
			row := make([]string, 0, len(header))
			row = append(row, project.String(), user.String())
			for _, d := range days {
				key := model.RecordKey{User: user, Project: project, Date: d}
				row = append(row, FormatHours(t.Get(key)))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write table row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
