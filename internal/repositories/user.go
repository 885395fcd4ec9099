package repositories

import "minipay/internal/models"

// UserRepository handles the identity side of the users table: registration,
// lookup, and profile updates. Balance mutation goes through
// AccountRepository only.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByLogin(login string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(limit, offset int) ([]models.User, int64, error)
	IncrementTokenVersion(userID uint) error
}
