// Package ui defines the collaborators through which the storefront
// controller talks to whatever renders it: a notification area, a router and
// blocking prompts.
package ui

import "context"

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notifier shows fire-and-forget messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string, level Level)
}

// Navigator performs route transitions.
type Navigator interface {
	GoTo(ctx context.Context, path string)
}

// Prompter asks the user for a decision or a value. A false ok from Ask means
// the user cancelled.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
	Ask(ctx context.Context, label string) (value string, ok bool, err error)
}

// Route paths the controller navigates to.
const (
	PathLogin   = "/login"
	PathCatalog = "/"
)
