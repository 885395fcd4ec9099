package user

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	domainerr "minipay/internal/errors"
	"minipay/internal/models"
	"minipay/internal/repositories"
	"minipay/internal/repositories/cache"
	"minipay/internal/storage"
	"minipay/internal/utils/pagination"
	"minipay/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, input *models.CreateUserInput) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	GetProfile(ctx context.Context, login string) (*models.PublicProfile, error)
	List(p pagination.Pagination) ([]models.PublicProfile, int64, error)
	UpdateAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (*models.User, error)
}

type service struct {
	repo    repositories.UserRepository
	cache   *cache.CacheService
	avatars *storage.AvatarStore
}

func NewService(repo repositories.UserRepository, cacheSvc *cache.CacheService, avatars *storage.AvatarStore) Service {
	if repo == nil {
		panic("user repository is required")
	}
	return &service{
		repo:    repo,
		cache:   cacheSvc,
		avatars: avatars,
	}
}

// Register creates a user with a zero balance.
func (s *service) Register(ctx context.Context, input *models.CreateUserInput) (*models.User, error) {
	if err := validation.ValidateRegistration(input); err != nil {
		return nil, err
	}

	// Precheck duplicates for a friendly error; the unique indexes are the
	// real guard against races.
	if existing, _ := s.repo.GetByLogin(input.Login); existing != nil {
		return nil, domainerr.ErrUserExists
	}
	if existing, _ := s.repo.GetByEmail(input.Email); existing != nil {
		return nil, domainerr.ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Login:    input.Login,
		Email:    input.Email,
		Name:     input.Name,
		Password: string(hashedPassword),
		Role:     "user",
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.CacheProfile(ctx, user.Profile())
	}
	return user, nil
}

func (s *service) GetByID(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, domainerr.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetProfile returns the balance-free public profile, served from cache when
// possible.
func (s *service) GetProfile(ctx context.Context, login string) (*models.PublicProfile, error) {
	if s.cache != nil {
		key := s.cache.GenerateKey("user", "login", login)
		if profile, err := s.cache.GetProfile(ctx, key); err == nil {
			return profile, nil
		}
	}

	user, err := s.repo.GetByLogin(login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, domainerr.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.CacheProfile(ctx, user.Profile())
	}
	return user.Profile(), nil
}

func (s *service) List(p pagination.Pagination) ([]models.PublicProfile, int64, error) {
	users, total, err := s.repo.List(p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	profiles := make([]models.PublicProfile, len(users))
	for i := range users {
		profiles[i] = *users[i].Profile()
	}
	return profiles, total, nil
}

// UpdateAvatar stores the uploaded file and swaps the user's avatar path,
// deleting the previous file.
func (s *service) UpdateAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (*models.User, error) {
	if s.avatars == nil {
		return nil, errors.New("avatar storage not configured")
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	name, err := s.avatars.Save(file)
	if err != nil {
		return nil, err
	}

	old := user.AvatarPath
	user.AvatarPath = name
	if err := s.repo.Update(user); err != nil {
		_ = s.avatars.Remove(name)
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	_ = s.avatars.Remove(old)
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, user.ID, user.Login)
	}
	return user, nil
}
