package stor

import (
	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/materials-commons/mcrel/pkg/mcdb/mcmodel"
	"gorm.io/gorm"
)

type GormUserStor struct {
	db      *gorm.DB
	txRetry int
}

func NewGormUserStor(db *gorm.DB, txRetry int) *GormUserStor {
	return &GormUserStor{db: db, txRetry: txRetry}
}

// CreateUser creates a new user. The slug is made from the username.
func (s *GormUserStor) CreateUser(user *mcmodel.User) (*mcmodel.User, error) {
	var err error

	if user.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	user.Slug = slug.Make(user.Username)

	err = WithTxRetry(s.db, s.txRetry, func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *GormUserStor) GetUserByID(userID int) (*mcmodel.User, error) {
	var user mcmodel.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStor) GetUserBySlug(slug string) (*mcmodel.User, error) {
	var user mcmodel.User
	if err := s.db.Where("slug = ?", slug).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
