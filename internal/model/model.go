// Package model defines the value types shared by the Toggl fetcher, the
// report engine and the Slack sender.
//
// All values are immutable once constructed and carry a total order so that
// every rendered report is deterministic regardless of map iteration order.
package model

import "strings"

// User identifies the person a time entry belongs to.
type User string

// String returns the user's display name.
func (u User) String() string {
	return string(u)
}

// Compare orders users lexicographically.
func (u User) Compare(other User) int {
	return strings.Compare(string(u), string(other))
}
