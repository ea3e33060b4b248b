// Package kinds declares the post/comment/user model kinds served by mcreld
// and used by the mcrel CLI.
package kinds

import "github.com/materials-commons/mcrel/pkg/model"

const (
	Post    = "post"
	Comment = "comment"
	User    = "user"
)

// Register defines the post, comment and user kinds on r.
//
//	post.comments -> []comment (back reference "post")
//	post.author   -> user
//	comment.user  -> user
func Register(r *model.Registry) error {
	defs := []model.KindDef{
		{
			Name:    Post,
			URLRoot: "/posts",
			Relationships: map[string]model.Relationship{
				"comments": {Kind: Comment, Many: true, Reverse: "post"},
				"author":   {Kind: User},
			},
		},
		{
			Name:    Comment,
			URLRoot: "/comments",
			Relationships: map[string]model.Relationship{
				"user": {Kind: User},
			},
		},
		{
			Name:            User,
			URLRoot:         "/users",
			DisplayNameAttr: "username",
		},
	}

	for _, def := range defs {
		if _, err := r.Define(def); err != nil {
			return err
		}
	}

	return nil
}

// NewRegistry returns a registry holding the kinds from Register.
func NewRegistry() *model.Registry {
	r := model.NewRegistry()
	if err := Register(r); err != nil {
		// Register only fails on duplicate names, which a fresh registry cannot have.
		panic(err)
	}
	return r
}
