package ui

import (
	"context"
	"strings"
)

// Answers is a Prompter whose replies were collected up front, as happens when
// a request carries the confirmation flag and form values with it. A missing
// or blank value counts as a cancelled prompt.
type Answers struct {
	Confirmed bool
	Values    map[string]string
}

// Confirm returns the pre-collected decision.
func (a Answers) Confirm(context.Context, string) (bool, error) {
	return a.Confirmed, nil
}

// Ask returns the value collected for label.
func (a Answers) Ask(_ context.Context, label string) (string, bool, error) {
	v := strings.TrimSpace(a.Values[label])
	return v, v != "", nil
}
