package services

import "fmt"

// MalformedDateError reports a retained record whose release date could not be
// parsed. It aborts the whole cleaning pass: a corrupt date would silently
// skew every year-based view downstream.
type MalformedDateError struct {
	Artist string
	Value  string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed release date %q for artist %q", e.Value, e.Artist)
}

// OutOfRangeError reports a track popularity outside [0,100]. The category
// bins are only defined over that range, so this means corrupt upstream data.
type OutOfRangeError struct {
	Artist     string
	Popularity int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("track popularity %d for artist %q outside [0,100]", e.Popularity, e.Artist)
}

// InsufficientDataError reports an aggregate that is undefined on its input,
// e.g. a correlation over zero samples. Callers may skip the view and move on.
type InsufficientDataError struct {
	View string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough data to compute %s", e.View)
}
