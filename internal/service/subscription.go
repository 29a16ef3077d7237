package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram-project/backend/internal/models"
)

// UserService handles the user read side and author subscriptions
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers lists users with pagination
func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 6
	}
	if page <= 0 {
		page = 1
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("username").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// IsSubscribed reports whether userID follows authorID.
// Anonymous callers (nil userID) are never subscribed.
func (s *UserService) IsSubscribed(ctx context.Context, userID *uuid.UUID, authorID uuid.UUID) (bool, error) {
	if userID == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", *userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Follow subscribes the user to the author. Self-subscription is
// rejected here and by a check constraint in the store; the duplicate
// guard is the same atomic constrained insert the recipe relations use.
func (s *UserService) Follow(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		return ErrSelfFollow
	}

	if _, err := s.GetUser(ctx, authorID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Create(&models.Follow{UserID: userID, AuthorID: authorID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// Unfollow removes the subscription, ErrNotFound when absent
func (s *UserService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.GetUser(ctx, authorID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Subscription is one followed author with a bounded recipe preview
type Subscription struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// Subscriptions lists the authors the user follows. recipesLimit bounds
// the per-author recipe preview; zero or negative means no preview cap.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit, page, limit int) ([]Subscription, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 6
	}
	if page <= 0 {
		page = 1
	}

	var follows []models.Follow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}

	subscriptions := make([]Subscription, 0, len(follows))
	for _, follow := range follows {
		var author models.User
		if err := s.db.WithContext(ctx).First(&author, "id = ?", follow.AuthorID).Error; err != nil {
			return nil, 0, err
		}

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("author_id = ?", follow.AuthorID).Count(&count).Error; err != nil {
			return nil, 0, err
		}

		query := s.db.WithContext(ctx).
			Where("author_id = ?", follow.AuthorID).
			Order("created_at DESC")
		if recipesLimit > 0 {
			query = query.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, 0, err
		}

		subscriptions = append(subscriptions, Subscription{
			Author:       author,
			Recipes:      recipes,
			RecipesCount: count,
		})
	}

	return subscriptions, total, nil
}
