package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/internal/models"
	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

func TestAddFavorite(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "alice")
	author := testhelpers.CreateTestUser(t, db, "bob")
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID, "Pancakes")

	require.NoError(t, svc.AddFavorite(ctx, user.ID, recipe.ID))

	// The duplicate resolves at the store, not by a pre-check.
	err := svc.AddFavorite(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddFavoriteUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)

	user := testhelpers.CreateTestUser(t, db, "alice")

	err := svc.AddFavorite(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRemoveFavoriteAbsent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)

	user := testhelpers.CreateTestUser(t, db, "alice")
	author := testhelpers.CreateTestUser(t, db, "bob")
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID, "Pancakes")

	err := svc.RemoveFavorite(context.Background(), user.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestShoppingCartLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "alice")
	author := testhelpers.CreateTestUser(t, db, "bob")
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID, "Pancakes")

	require.NoError(t, svc.AddToCart(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, svc.AddToCart(ctx, user.ID, recipe.ID), service.ErrAlreadyExists)

	require.NoError(t, svc.RemoveFromCart(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, user.ID, recipe.ID), service.ErrNotFound)
}

func TestFavoriteAndCartAreIndependent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "alice")
	author := testhelpers.CreateTestUser(t, db, "bob")
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID, "Pancakes")

	require.NoError(t, svc.AddFavorite(ctx, user.ID, recipe.ID))
	require.NoError(t, svc.AddToCart(ctx, user.ID, recipe.ID))

	require.NoError(t, svc.RemoveFavorite(ctx, user.ID, recipe.ID))

	flags, err := svc.GetRecipeFlags(ctx, &user.ID, []uuid.UUID{recipe.ID})
	require.NoError(t, err)
	assert.False(t, flags[recipe.ID].IsFavorited)
	assert.True(t, flags[recipe.ID].IsInShoppingCart)
}

func TestGetRecipeFlagsAnonymous(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)

	author := testhelpers.CreateTestUser(t, db, "bob")
	recipe := testhelpers.CreateTestRecipe(t, db, author.ID, "Pancakes")

	flags, err := svc.GetRecipeFlags(context.Background(), nil, []uuid.UUID{recipe.ID})
	require.NoError(t, err)
	assert.False(t, flags[recipe.ID].IsFavorited)
	assert.False(t, flags[recipe.ID].IsInShoppingCart)
}
