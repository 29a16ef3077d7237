package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

func TestBuildShoppingListAggregates(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	recipes := service.NewRecipeService(db)
	lists := service.NewShoppingListService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "alice")
	author := testhelpers.CreateTestUser(t, db, "bob")

	flour := testhelpers.CreateTestIngredient(t, db, "wheat flour", "g")
	milk := testhelpers.CreateTestIngredient(t, db, "milk", "ml")

	pancakes := testhelpers.CreateTestRecipe(t, db, author.ID, "Pancakes")
	addIngredientLine(t, db, pancakes.ID, flour.ID, 200)
	addIngredientLine(t, db, pancakes.ID, milk.ID, 300)

	bread := testhelpers.CreateTestRecipe(t, db, author.ID, "Bread")
	addIngredientLine(t, db, bread.ID, flour.ID, 300)

	require.NoError(t, recipes.AddToCart(ctx, user.ID, pancakes.ID))
	require.NoError(t, recipes.AddToCart(ctx, user.ID, bread.ID))

	list, err := lists.BuildShoppingList(ctx, user.ID)
	require.NoError(t, err)

	// Same (name, unit) pairs collapse into one summed line.
	assert.Contains(t, list, "wheat flour - 500 g\n")
	assert.Contains(t, list, "milk - 300 ml\n")
	header := fmt.Sprintf("Shopping list for: %s\n\n", time.Now().Format("02-01-2006"))
	assert.True(t, len(list) > len(header) && list[:len(header)] == header,
		"list should start with the dated header")
	assert.Contains(t, list, "\nFoodgram\n")
}

func TestBuildShoppingListExcludesOtherCarts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	recipes := service.NewRecipeService(db)
	lists := service.NewShoppingListService(db)
	ctx := context.Background()

	alice := testhelpers.CreateTestUser(t, db, "alice")
	bob := testhelpers.CreateTestUser(t, db, "bob")

	sugar := testhelpers.CreateTestIngredient(t, db, "sugar", "g")
	salt := testhelpers.CreateTestIngredient(t, db, "salt", "g")

	cake := testhelpers.CreateTestRecipe(t, db, bob.ID, "Cake")
	addIngredientLine(t, db, cake.ID, sugar.ID, 100)
	soup := testhelpers.CreateTestRecipe(t, db, bob.ID, "Soup")
	addIngredientLine(t, db, soup.ID, salt.ID, 5)

	require.NoError(t, recipes.AddToCart(ctx, alice.ID, cake.ID))
	require.NoError(t, recipes.AddToCart(ctx, bob.ID, soup.ID))

	list, err := lists.BuildShoppingList(ctx, alice.ID)
	require.NoError(t, err)
	assert.Contains(t, list, "sugar - 100 g\n")
	assert.NotContains(t, list, "salt")
}

func TestBuildShoppingListEmptyCart(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	lists := service.NewShoppingListService(db)

	user := testhelpers.CreateTestUser(t, db, "alice")

	_, err := lists.BuildShoppingList(context.Background(), user.ID)
	assert.ErrorIs(t, err, service.ErrEmptyCart)
}

func TestBuildShoppingListSortedByName(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	recipes := service.NewRecipeService(db)
	lists := service.NewShoppingListService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "alice")
	author := testhelpers.CreateTestUser(t, db, "bob")

	// Inserted out of order on purpose.
	zucchini := testhelpers.CreateTestIngredient(t, db, "zucchini", "g")
	apple := testhelpers.CreateTestIngredient(t, db, "apple", "pc")

	recipe := testhelpers.CreateTestRecipe(t, db, author.ID, "Salad")
	addIngredientLine(t, db, recipe.ID, zucchini.ID, 150)
	addIngredientLine(t, db, recipe.ID, apple.ID, 2)

	require.NoError(t, recipes.AddToCart(ctx, user.ID, recipe.ID))

	list, err := lists.BuildShoppingList(ctx, user.ID)
	require.NoError(t, err)

	appleAt := strings.Index(list, "apple - 2 pc")
	zucchiniAt := strings.Index(list, "zucchini - 150 g")
	require.GreaterOrEqual(t, appleAt, 0)
	require.GreaterOrEqual(t, zucchiniAt, 0)
	assert.Less(t, appleAt, zucchiniAt)
}
