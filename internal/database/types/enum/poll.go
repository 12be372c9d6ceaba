package enum

// PollType distinguishes single-choice from multiple-choice polls.
type PollType string

const (
	PollTypeSingle   PollType = "single"
	PollTypeMultiple PollType = "multiple"
)

// Valid reports whether the value is a known poll type.
func (t PollType) Valid() bool {
	return t == PollTypeSingle || t == PollTypeMultiple
}
