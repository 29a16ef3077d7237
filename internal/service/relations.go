package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/foodgram-project/backend/internal/models"
)

// The favorite and shopping-cart relations share the same contract: a
// guarded insert that must stay atomic under concurrent double-submits,
// and a delete that reports absence. Both are backed by a composite
// unique index; the insert uses ON CONFLICT DO NOTHING and inspects
// RowsAffected instead of probing for existence first, so two identical
// concurrent requests can never both succeed.

func (s *RecipeService) addRelation(ctx context.Context, recipeID uuid.UUID, row interface{}) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *RecipeService) removeRelation(ctx context.Context, model interface{}, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFavorite marks the recipe as favorited by the user.
// Returns ErrAlreadyExists when the pair is already present and
// ErrNotFound when the recipe does not exist.
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.addRelation(ctx, recipeID, &models.Favorite{UserID: userID, RecipeID: recipeID})
}

// RemoveFavorite deletes the favorite row, ErrNotFound when absent
func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeRelation(ctx, &models.Favorite{}, userID, recipeID)
}

// AddToCart puts the recipe into the user's shopping cart, same contract as AddFavorite
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.addRelation(ctx, recipeID, &models.ShoppingCart{UserID: userID, RecipeID: recipeID})
}

// RemoveFromCart deletes the cart row, ErrNotFound when absent
func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeRelation(ctx, &models.ShoppingCart{}, userID, recipeID)
}
