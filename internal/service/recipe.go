package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram-project/backend/internal/models"
	"github.com/foodgram-project/backend/internal/types"
)

// RecipeService handles recipe CRUD and the favorite/cart relations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CanModifyRecipe reports whether the actor may update or delete the recipe.
// Only the author or an admin may.
func CanModifyRecipe(actor *models.User, recipe *models.Recipe) bool {
	return actor.ID == recipe.AuthorID || actor.IsAdmin()
}

// validateRecipeInput enforces the write-side rules shared by create and
// update: non-empty ingredient and tag lists without duplicates, positive
// amounts, bounded cooking time.
func (s *RecipeService) validateRecipeInput(ctx context.Context, ingredients []types.IngredientAmount, tags []uuid.UUID, cookingTime int) error {
	if cookingTime < models.MinCookingTime || cookingTime > models.MaxCookingTime {
		return newValidationError("cooking_time",
			fmt.Sprintf("cooking time must be between %d and %d minutes", models.MinCookingTime, models.MaxCookingTime))
	}

	if len(ingredients) == 0 {
		return newValidationError("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]bool, len(ingredients))
	for _, item := range ingredients {
		if seen[item.ID] {
			return newValidationError("ingredients", "ingredients must not repeat")
		}
		seen[item.ID] = true
		if item.Amount < models.MinIngredientAmount {
			return newValidationError("amount",
				fmt.Sprintf("amount must be at least %d", models.MinIngredientAmount))
		}
	}
	var count int64
	ids := make([]uuid.UUID, 0, len(ingredients))
	for _, item := range ingredients {
		ids = append(ids, item.ID)
	}
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return ErrNotFound
	}

	if len(tags) == 0 {
		return newValidationError("tags", "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]bool, len(tags))
	for _, id := range tags {
		if seenTags[id] {
			return newValidationError("tags", "tags must not repeat")
		}
		seenTags[id] = true
	}
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", tags).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(tags) {
		return ErrNotFound
	}

	return nil
}

// setIngredientLines writes the ingredient lines of a recipe inside tx.
// A line that already exists for the (recipe, ingredient) pair has its
// amount updated rather than duplicated.
func setIngredientLines(tx *gorm.DB, recipeID uuid.UUID, ingredients []types.IngredientAmount) error {
	for _, item := range ingredients {
		line := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "ingredient_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount"}),
		}).Create(&line).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateRecipe creates a recipe with its ingredient lines and tags in one transaction
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest, imageURL string) (*models.Recipe, error) {
	if err := s.validateRecipeInput(ctx, req.Ingredients, req.Tags, req.CookingTime); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
		AuthorID:    authorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := setIngredientLines(tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		return replaceTags(tx, &recipe, req.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe rewrites a recipe, its ingredient lines and tags in one transaction
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, req *types.UpdateRecipeRequest, imageURL string) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	actor, err := s.getUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !CanModifyRecipe(actor, recipe) {
		return nil, ErrForbidden
	}

	if err := s.validateRecipeInput(ctx, req.Ingredients, req.Tags, req.CookingTime); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         req.Name,
			"text":         req.Text,
			"cooking_time": req.CookingTime,
		}
		if imageURL != "" {
			updates["image_url"] = imageURL
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := setIngredientLines(tx, recipeID, req.Ingredients); err != nil {
			return err
		}
		return replaceTags(tx, recipe, req.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipeID)
}

func replaceTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []uuid.UUID) error {
	var tags []models.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return err
	}
	return tx.Model(recipe).Association("Tags").Replace(tags)
}

// GetRecipe retrieves a recipe with its author, tags and ingredient lines
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe removes a recipe and everything that references it.
// The store cascades on its own in PostgreSQL; the explicit deletes keep
// the behavior identical on stores without FK enforcement.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}

	actor, err := s.getUser(ctx, actorID)
	if err != nil {
		return err
	}
	if !CanModifyRecipe(actor, recipe) {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
}

// ListRecipesParams are the supported recipe list filters
type ListRecipesParams struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	Name        string
	IsFavorited bool
	IsInCart    bool
	RequesterID *uuid.UUID
	Page        int
	Limit       int
}

// ListRecipes lists recipes newest first with filters and pagination applied
func (s *RecipeService) ListRecipes(ctx context.Context, params ListRecipesParams) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")

	if params.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *params.AuthorID)
	}
	if params.Name != "" {
		query = query.Where("LOWER(recipes.name) LIKE ?", "%"+strings.ToLower(params.Name)+"%")
	}
	if len(params.TagSlugs) > 0 {
		// Subquery keeps the result set free of join duplicates when a
		// recipe carries several of the requested tags.
		tagged := s.db.Model(&models.Tag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
			Where("tags.slug IN ?", params.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if params.IsFavorited && params.RequesterID != nil {
		query = query.
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", *params.RequesterID)
	}
	if params.IsInCart && params.RequesterID != nil {
		query = query.
			Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
			Where("shopping_carts.user_id = ?", *params.RequesterID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 6
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}

	var recipes []models.Recipe
	err := query.
		Order("recipes.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// RecipeFlags carries the per-user read-side flags of a recipe
type RecipeFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
}

// GetRecipeFlags computes is_favorited / is_in_shopping_cart for the given
// recipes. A nil userID (anonymous caller) yields all-false flags.
func (s *RecipeService) GetRecipeFlags(ctx context.Context, userID *uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]RecipeFlags, error) {
	flags := make(map[uuid.UUID]RecipeFlags, len(recipeIDs))
	for _, id := range recipeIDs {
		flags[id] = RecipeFlags{}
	}
	if userID == nil || len(recipeIDs) == 0 {
		return flags, nil
	}

	var favoriteIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", *userID, recipeIDs).
		Pluck("recipe_id", &favoriteIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range favoriteIDs {
		f := flags[id]
		f.IsFavorited = true
		flags[id] = f
	}

	var cartIDs []uuid.UUID
	err = s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id IN ?", *userID, recipeIDs).
		Pluck("recipe_id", &cartIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range cartIDs {
		f := flags[id]
		f.IsInShoppingCart = true
		flags[id] = f
	}

	return flags, nil
}

func (s *RecipeService) getUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
