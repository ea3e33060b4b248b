package mcmodel

import (
	"fmt"
	"time"
)

type Comment struct {
	ID        int       `json:"id"`
	UUID      string    `json:"uuid"`
	PostID    int       `json:"post_id"`
	UserID    int       `json:"user_id"`
	User      *User     `json:"user,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Comment) Href() string {
	return fmt.Sprintf("/comments/%d", c.ID)
}

func (c Comment) ToAttrs() map[string]any {
	attrs := map[string]any{
		"id":   c.ID,
		"href": c.Href(),
		"uuid": c.UUID,
		"body": c.Body,
	}

	if c.User != nil {
		attrs["user"] = c.User.ToAttrs()
	}

	return attrs
}
