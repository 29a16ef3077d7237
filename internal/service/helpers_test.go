package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/models"
)

func addIngredientLine(t *testing.T, db *gorm.DB, recipeID, ingredientID uuid.UUID, amount int) {
	line := models.RecipeIngredient{
		RecipeID:     recipeID,
		IngredientID: ingredientID,
		Amount:       amount,
	}
	require.NoError(t, db.Create(&line).Error)
}
