package stor

import (
	"fmt"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/materials-commons/mcrel/pkg/mcdb/mcmodel"
	"gorm.io/gorm"
)

type GormPostStor struct {
	db      *gorm.DB
	txRetry int
}

func NewGormPostStor(db *gorm.DB, txRetry int) *GormPostStor {
	return &GormPostStor{db: db, txRetry: txRetry}
}

// CreatePost creates a post with a slug made from its title. When the slug is
// taken an incrementing integer is appended until it is unique.
func (s *GormPostStor) CreatePost(post *mcmodel.Post) (*mcmodel.Post, error) {
	var err error

	if post.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	slugOfTitle := slug.Make(post.Title)
	if slugOfTitle == "" {
		slugOfTitle = post.UUID
	}

	err = WithTxRetry(s.db, s.txRetry, func(tx *gorm.DB) error {
		post.Slug = slugOfTitle
		for slugNext := 1; ; slugNext++ {
			var count int64
			if err := tx.Model(&mcmodel.Post{}).Where("slug = ?", post.Slug).Count(&count).Error; err != nil {
				return err
			}

			if count == 0 {
				break
			}

			post.Slug = fmt.Sprintf("%s-%d", slugOfTitle, slugNext)
		}

		return tx.Create(post).Error
	})

	if err != nil {
		return nil, err
	}

	return post, nil
}

// GetPostByID returns the post with its comments and their users.
func (s *GormPostStor) GetPostByID(postID int) (*mcmodel.Post, error) {
	var post mcmodel.Post
	err := s.db.Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Comments.User").
		First(&post, postID).Error
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (s *GormPostStor) GetPostBySlug(slug string) (*mcmodel.Post, error) {
	var post mcmodel.Post
	if err := s.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}

	return s.GetPostByID(post.ID)
}

// UpdatePostContent replaces the title and body of an existing post.
func (s *GormPostStor) UpdatePostContent(postID int, title, body string) (*mcmodel.Post, error) {
	err := WithTxRetry(s.db, s.txRetry, func(tx *gorm.DB) error {
		var post mcmodel.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}

		return tx.Model(&post).Updates(map[string]any{"title": title, "body": body}).Error
	})

	if err != nil {
		return nil, err
	}

	return s.GetPostByID(postID)
}

func (s *GormPostStor) GetCommentsForPost(postID int) ([]mcmodel.Comment, error) {
	var comments []mcmodel.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("id").
		Find(&comments).Error
	return comments, err
}

func (s *GormPostStor) AddCommentToPost(postID int, comment *mcmodel.Comment) (*mcmodel.Comment, error) {
	var err error

	if comment.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	comment.PostID = postID

	err = WithTxRetry(s.db, s.txRetry, func(tx *gorm.DB) error {
		return tx.Create(comment).Error
	})

	if err != nil {
		return nil, err
	}

	return comment, nil
}
