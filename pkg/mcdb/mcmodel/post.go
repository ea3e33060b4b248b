package mcmodel

import (
	"fmt"
	"time"
)

type Post struct {
	ID        int       `json:"id"`
	UUID      string    `json:"uuid"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  int       `json:"author_id"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Comments  []Comment `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Post) Href() string {
	return fmt.Sprintf("/posts/%d", p.ID)
}

func (p Post) CommentsHref() string {
	return p.Href() + "/comments"
}

// ToAttrs renders the post with its comments embedded and its author as a
// reference, so a client loads the author separately when it wants it.
func (p Post) ToAttrs() map[string]any {
	attrs := map[string]any{
		"id":    p.ID,
		"href":  p.Href(),
		"uuid":  p.UUID,
		"slug":  p.Slug,
		"title": p.Title,
		"body":  p.Body,
	}

	if p.AuthorID != 0 {
		attrs["author"] = map[string]any{"href": User{ID: p.AuthorID}.Href()}
	}

	comments := make([]any, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, c.ToAttrs())
	}
	attrs["comments"] = comments

	return attrs
}
