package stor

import (
	"testing"

	"github.com/materials-commons/mcrel/pkg/mcdb/mcmodel"
	"github.com/materials-commons/mcrel/pkg/tutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreatePostMakesUniqueSlugs(t *testing.T) {
	stors := NewGormStors(tutil.NewTestDB(t), 3)

	p1, err := stors.PostStor.CreatePost(&mcmodel.Post{Title: "Hello World", Body: "first"})
	require.NoError(t, err)
	require.Equal(t, "hello-world", p1.Slug)
	require.NotEmpty(t, p1.UUID)

	p2, err := stors.PostStor.CreatePost(&mcmodel.Post{Title: "Hello World", Body: "second"})
	require.NoError(t, err)
	require.Equal(t, "hello-world-1", p2.Slug)

	found, err := stors.PostStor.GetPostBySlug("hello-world-1")
	require.NoError(t, err)
	require.Equal(t, p2.ID, found.ID)
}

func TestGetPostLoadsCommentsWithUsers(t *testing.T) {
	stors := NewGormStors(tutil.NewTestDB(t), 3)

	user, err := stors.UserStor.CreateUser(&mcmodel.User{Username: "User One"})
	require.NoError(t, err)
	require.Equal(t, "user-one", user.Slug)

	post, err := stors.PostStor.CreatePost(&mcmodel.Post{Title: "t", Body: "my body", AuthorID: user.ID})
	require.NoError(t, err)

	_, err = stors.PostStor.AddCommentToPost(post.ID, &mcmodel.Comment{Body: "c1", UserID: user.ID})
	require.NoError(t, err)
	_, err = stors.PostStor.AddCommentToPost(post.ID, &mcmodel.Comment{Body: "c2", UserID: user.ID})
	require.NoError(t, err)

	got, err := stors.PostStor.GetPostByID(post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	require.Equal(t, "c1", got.Comments[0].Body)
	require.NotNil(t, got.Comments[0].User)
	require.Equal(t, "User One", got.Comments[0].User.Username)

	comments, err := stors.PostStor.GetCommentsForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
}

func TestUpdatePostContent(t *testing.T) {
	stors := NewGormStors(tutil.NewTestDB(t), 3)

	post, err := stors.PostStor.CreatePost(&mcmodel.Post{Title: "t", Body: "old body"})
	require.NoError(t, err)

	updated, err := stors.PostStor.UpdatePostContent(post.ID, "new title", "new body")
	require.NoError(t, err)
	require.Equal(t, "new title", updated.Title)
	require.Equal(t, "new body", updated.Body)

	_, err = stors.PostStor.UpdatePostContent(post.ID+100, "x", "y")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetMissingUser(t *testing.T) {
	stors := NewGormStors(tutil.NewTestDB(t), 3)
	_, err := stors.UserStor.GetUserByID(42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
