package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/models"
)

// ShoppingListService aggregates ingredient quantities across every recipe
// in a user's shopping cart and renders a plain-text list.
type ShoppingListService struct {
	db *gorm.DB
}

// NewShoppingListService creates a new ShoppingListService instance
func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// shoppingListRow is one aggregated group: all lines for the same
// (ingredient name, measurement unit) pair, summed across recipes.
type shoppingListRow struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// BuildShoppingList renders the shopping list for the user.
// Returns ErrEmptyCart when the cart has no entries.
func (s *ShoppingListService) BuildShoppingList(ctx context.Context, userID uuid.UUID) (string, error) {
	var entries int64
	if err := s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
		Where("user_id = ?", userID).Count(&entries).Error; err != nil {
		return "", err
	}
	if entries == 0 {
		return "", ErrEmptyCart
	}

	var rows []shoppingListRow
	err := s.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&rows).Error
	if err != nil {
		return "", err
	}

	return renderShoppingList(rows, time.Now()), nil
}

func renderShoppingList(rows []shoppingListRow, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for: %s\n\n", now.Format("02-01-2006"))
	for _, row := range rows {
		fmt.Fprintf(&b, "%s - %d %s\n", row.Name, row.Total, row.MeasurementUnit)
	}
	b.WriteString("\nFoodgram\n")
	return b.String()
}
