package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User is an account holder. The balance lives directly on the user row;
// every registered user owns exactly one balance, keyed by the login.
type User struct {
	gorm.Model
	Login        string          `gorm:"uniqueIndex;not null" json:"login"`
	Email        string          `gorm:"uniqueIndex;not null" json:"email"`
	Password     string          `gorm:"not null" json:"-"`
	Name         string          `gorm:"not null" json:"name"`
	Role         string          `gorm:"default:'user'" json:"role"`
	AvatarPath   string          `gorm:"default:''" json:"avatar_path,omitempty"`
	Balance      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
	TokenVersion int             `gorm:"default:1" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	// New accounts always start empty
	u.Balance = decimal.Zero
	return nil
}

// CreateUserInput carries the fields accepted at registration.
type CreateUserInput struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// PublicProfile is the cacheable view of a user. It deliberately omits the
// balance: balances are only ever read inside a storage transaction.
type PublicProfile struct {
	ID         uint   `json:"id"`
	Login      string `json:"login"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	AvatarPath string `json:"avatar_path,omitempty"`
}

// Profile returns the cacheable view of the user.
func (u *User) Profile() *PublicProfile {
	return &PublicProfile{
		ID:         u.ID,
		Login:      u.Login,
		Email:      u.Email,
		Name:       u.Name,
		AvatarPath: u.AvatarPath,
	}
}
