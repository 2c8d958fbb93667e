// Package todo is the sample API served by the webhost command. It keeps
// todos in whatever repository the host injects and routes every write
// through the injected mediator.
package todo

import (
	"strings"
	"time"

	"github.com/agentstation/webhost/pkg/errors"
)

// MaxTitleLength bounds a todo title in runes.
const MaxTitleLength = 200

// Todo is the stored entity.
type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Info describes the running service; the host injects it as settings.
type Info struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// Input is the request body for creating and updating todos. Nil fields
// are left unchanged on update.
type Input struct {
	Title *string `json:"title,omitempty"`
	Done  *bool   `json:"done,omitempty"`
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return "", errors.NewValidationError("title", title, "must not be empty")
	case len([]rune(title)) > MaxTitleLength:
		return "", errors.NewValidationError("title", title, "must be at most 200 characters")
	}
	return title, nil
}

func errNotConfigured(what string) error {
	return errors.NewConfigError("todo", what+" is not registered with the host", nil)
}
