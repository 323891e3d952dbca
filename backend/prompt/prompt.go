package prompt

import (
	"context"
	"time"
)

// Prompt represents a stored prompt in the system
type Prompt struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Prompt     string    `json:"prompt"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateCommand carries the fields collected by the add prompt form.
type CreateCommand struct {
	Title      string `json:"title" validate:"required"`
	Prompt     string `json:"prompt" validate:"required"`
	IsFavorite bool   `json:"is_favorite"`
}

// Database is implemented by the prompt store. Writes are committed
// immediately; SetFavorite and DeletePrompt on a missing id do nothing.
type Database interface {
	CreatePrompt(ctx context.Context, cmd CreateCommand) (*Prompt, error)
	ListPrompts(ctx context.Context, opts ListOptions) ([]Prompt, error)
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	DeletePrompt(ctx context.Context, id int64) error
}
