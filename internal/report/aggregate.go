// Package report turns fetched time entries into the two artifacts posted to
// Slack: the per-user summary message and the per-day CSV table.
//
// Everything in this package is pure: no I/O, no shared state, and the output
// depends only on the input values, never on map iteration order.
package report

import (
	"slices"

	"github.com/manav03panchal/toggl2slack/internal/model"
)

// Table maps each (user, project, day) key to the total time tracked under it.
type Table map[model.RecordKey]model.Duration

// Aggregate sums the durations of records sharing a key. Keys that never
// occur are absent from the result; zero filling is left to the renderer.
func Aggregate(records []model.Record) Table {
	table := make(Table, len(records))
	for _, r := range records {
		table[r.Key] = table[r.Key].Add(r.Duration)
	}
	return table
}

// Get returns the duration for key, or zero if the key is absent.
func (t Table) Get(key model.RecordKey) model.Duration {
	return t[key]
}

// Users returns the distinct users present in t, ascending.
func (t Table) Users() []model.User {
	seen := make(map[model.User]struct{})
	users := make([]model.User, 0)
	for k := range t {
		if _, ok := seen[k.User]; ok {
			continue
		}
		seen[k.User] = struct{}{}
		users = append(users, k.User)
	}
	slices.SortFunc(users, model.User.Compare)
	return users
}

// Projects returns the distinct projects present in t, ascending, with
// NoProject first when present.
func (t Table) Projects() []model.Project {
	seen := make(map[model.Project]struct{})
	projects := make([]model.Project, 0)
	for k := range t {
		if _, ok := seen[k.Project]; ok {
			continue
		}
		seen[k.Project] = struct{}{}
		projects = append(projects, k.Project)
	}
	slices.SortFunc(projects, model.Project.Compare)
	return projects
}

// Keys returns every key in t in table row order.
func (t Table) Keys() []model.RecordKey {
	keys := make([]model.RecordKey, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, model.RecordKey.Compare)
	return keys
}

// Total returns the sum of all durations in t.
func (t Table) Total() model.Duration {
	var total model.Duration
	for _, d := range t {
		total = total.Add(d)
	}
	return total
}
