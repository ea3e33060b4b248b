package cmd

import (
	"github.com/materials-commons/mcrel/pkg/clog"
	"github.com/materials-commons/mcrel/pkg/mcdb/mcmodel"
	"github.com/materials-commons/mcrel/pkg/mcdb/stor"
)

func seed(stors *stor.Stors) error {
	author, err := stors.UserStor.CreateUser(&mcmodel.User{Username: "author", Email: "author@example.com"})
	if err != nil {
		return err
	}

	reader, err := stors.UserStor.CreateUser(&mcmodel.User{Username: "reader", Email: "reader@example.com"})
	if err != nil {
		return err
	}

	post, err := stors.PostStor.CreatePost(&mcmodel.Post{
		Title:    "Hello World",
		Body:     "The first post.",
		AuthorID: author.ID,
	})
	if err != nil {
		return err
	}

	for _, c := range []mcmodel.Comment{
		{Body: "Nice post!", UserID: reader.ID},
		{Body: "Thanks for reading.", UserID: author.ID},
	} {
		comment := c
		if _, err := stors.PostStor.AddCommentToPost(post.ID, &comment); err != nil {
			return err
		}
	}

	clog.Global().Infof("Seeded post %d (%s)", post.ID, post.Slug)
	return nil
}
