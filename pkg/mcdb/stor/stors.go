package stor

import (
	"github.com/materials-commons/mcrel/pkg/mcdb/mcmodel"
	"gorm.io/gorm"
)

type PostStor interface {
	CreatePost(post *mcmodel.Post) (*mcmodel.Post, error)
	GetPostByID(postID int) (*mcmodel.Post, error)
	GetPostBySlug(slug string) (*mcmodel.Post, error)
	UpdatePostContent(postID int, title, body string) (*mcmodel.Post, error)
	GetCommentsForPost(postID int) ([]mcmodel.Comment, error)
	AddCommentToPost(postID int, comment *mcmodel.Comment) (*mcmodel.Comment, error)
}

type UserStor interface {
	CreateUser(user *mcmodel.User) (*mcmodel.User, error)
	GetUserByID(userID int) (*mcmodel.User, error)
	GetUserBySlug(slug string) (*mcmodel.User, error)
}

type Stors struct {
	PostStor PostStor
	UserStor UserStor
}

func NewGormStors(db *gorm.DB, txRetry int) *Stors {
	return &Stors{
		PostStor: NewGormPostStor(db, txRetry),
		UserStor: NewGormUserStor(db, txRetry),
	}
}
