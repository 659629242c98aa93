package model

import "slices"

// RecordKey groups observations by user, project and calendar day.
type RecordKey struct {
	User    User
	Project Project
	Date    Date
}

// Compare orders keys by project, then user, then date, the row order of the
// detailed table.
func (k RecordKey) Compare(other RecordKey) int {
	if c := k.Project.Compare(other.Project); c != 0 {
		return c
	}
	if c := k.User.Compare(other.User); c != 0 {
		return c
	}
	return k.Date.Compare(other.Date)
}

// Record is a single time entry reduced to its key and duration.
type Record struct {
	Key      RecordKey
	Duration Duration
}

// ProjectEntry is the time one user spent on one project.
type ProjectEntry struct {
	Project  Project
	Duration Duration
}

// ProjectRecords holds the summary view: for each user, the projects they
// logged time against in the order the reports API returned them.
type ProjectRecords map[User][]ProjectEntry

// Users returns the users in ascending order.
func (r ProjectRecords) Users() []User {
	users := make([]User, 0, len(r))
	for u := range r {
		users = append(users, u)
	}
	slices.SortFunc(users, User.Compare)
	return users
}

// Total returns the time tracked by user across all projects.
func (r ProjectRecords) Total(user User) Duration {
	var total Duration
	for _, e := range r[user] {
		total = total.Add(e.Duration)
	}
	return total
}
