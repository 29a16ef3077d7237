package types

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetPasswordRequest represents the request body for a password change
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// IngredientAmount is one entry of the ingredients list on recipe writes
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Image is either a base64 data URI or an already-hosted URL.
type CreateRecipeRequest struct {
	Name        string             `json:"name" binding:"required,max=150"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"required"`
	Image       string             `json:"image" binding:"required"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required"`
	Tags        []uuid.UUID        `json:"tags" binding:"required"`
}

// UpdateRecipeRequest represents the request body for updating a recipe
type UpdateRecipeRequest struct {
	Name        string             `json:"name" binding:"required,max=150"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time" binding:"required"`
	Image       string             `json:"image"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required"`
	Tags        []uuid.UUID        `json:"tags" binding:"required"`
}
