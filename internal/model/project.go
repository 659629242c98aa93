package model

import (
	"encoding/json"
	"strings"
)

// EmptyProjectLabel is displayed for entries without a project.
const EmptyProjectLabel = "EmptyProject"

// Project identifies the project a time entry was booked against. The zero
// value is NoProject, which is distinct from every named project including
// one named "".
type Project struct {
	name string
	set  bool
}

// NoProject marks entries that have no project assigned.
var NoProject = Project{}

// NewProject returns a named project.
func NewProject(name string) Project {
	return Project{name: name, set: true}
}

// ProjectFromPtr converts a nullable project name.
func ProjectFromPtr(name *string) Project {
	if name == nil {
		return NoProject
	}
	return NewProject(*name)
}

// Name returns the project name and whether one is set.
func (p Project) Name() (string, bool) {
	return p.name, p.set
}

// IsEmpty reports whether p is NoProject.
func (p Project) IsEmpty() bool {
	return !p.set
}

// String returns the display name, substituting EmptyProjectLabel for NoProject.
func (p Project) String() string {
	if !p.set {
		return EmptyProjectLabel
	}
	return p.name
}

// Compare orders NoProject before all named projects and named projects
// lexicographically.
func (p Project) Compare(other Project) int {
	switch {
	case !p.set && !other.set:
		return 0
	case !p.set:
		return -1
	case !other.set:
		return 1
	}
	return strings.Compare(p.name, other.name)
}

// MarshalJSON encodes NoProject as null.
func (p Project) MarshalJSON() ([]byte, error) {
	if !p.set {
		return []byte("null"), nil
	}
	return json.Marshal(p.name)
}

// UnmarshalJSON decodes a string or null.
func (p *Project) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoProject
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*p = NewProject(name)
	return nil
}
