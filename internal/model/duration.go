package model

import "time"

// Duration is a non-negative amount of tracked time in milliseconds, the unit
// used by the Toggl reports API.
type Duration uint64

// Milliseconds returns a Duration of ms milliseconds.
func Milliseconds(ms uint64) Duration {
	return Duration(ms)
}

// Add returns d + other.
func (d Duration) Add(other Duration) Duration {
	return d + other
}

// Milliseconds returns the raw magnitude.
func (d Duration) Milliseconds() uint64 {
	return uint64(d)
}

// Minutes returns the number of whole minutes, truncating.
func (d Duration) Minutes() uint64 {
	return uint64(d) / uint64(time.Minute/time.Millisecond)
}

// Std converts d to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d) * time.Millisecond
}
