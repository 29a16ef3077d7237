package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram-project/backend/internal/middleware"
	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/types"
)

// RecipeHandler serves recipe CRUD, favorites, the shopping cart and the
// shopping-list download
type RecipeHandler struct {
	recipes  *service.RecipeService
	shopping *service.ShoppingListService
	users    *service.UserService
	auth     *service.AuthService
	images   service.ImageStorage
	limiter  *middleware.RateLimiter
}

// NewRecipeHandler creates a new RecipeHandler instance. images and
// limiter may be nil (no image uploads / no rate limiting).
func NewRecipeHandler(
	recipes *service.RecipeService,
	shopping *service.ShoppingListService,
	users *service.UserService,
	auth *service.AuthService,
	images service.ImageStorage,
	limiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:  recipes,
		shopping: shopping,
		users:    users,
		auth:     auth,
		images:   images,
		limiter:  limiter,
	}
}

// RegisterRoutes mounts the recipe endpoints
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.auth)
	write := []gin.HandlerFunc{authRequired}
	if h.limiter != nil {
		write = append(write, h.limiter.RateLimitMiddleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.auth), h.ListRecipes)
		recipes.GET("/download_shopping_cart", authRequired, h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.GetRecipe)
		recipes.POST("", append(write, h.CreateRecipe)...)
		recipes.PUT("/:id", append(write, h.UpdateRecipe)...)
		recipes.DELETE("/:id", append(write, h.DeleteRecipe)...)
		recipes.POST("/:id/favorite", authRequired, h.Favorite)
		recipes.DELETE("/:id/favorite", authRequired, h.Unfavorite)
		recipes.POST("/:id/shopping_cart", authRequired, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", authRequired, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params := service.ListRecipesParams{
		Name:        c.Query("name"),
		TagSlugs:    c.QueryArray("tags"),
		IsFavorited: c.Query("is_favorited") == "1",
		IsInCart:    c.Query("is_in_shopping_cart") == "1",
		RequesterID: currentUserID(c),
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "6"))
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		params.AuthorID = &id
	}

	recipes, total, err := h.recipes.ListRecipes(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		ids = append(ids, recipes[i].ID)
	}
	flags, err := h.recipes.GetRecipeFlags(c.Request.Context(), params.RequesterID, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		subscribed, err := h.users.IsSubscribed(c.Request.Context(), params.RequesterID, recipes[i].AuthorID)
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, newRecipeResponse(&recipes[i], flags[recipes[i].ID], subscribed))
	}

	c.JSON(http.StatusOK, PaginatedResponse{Count: total, Results: results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	requester := currentUserID(c)
	flags, err := h.recipes.GetRecipeFlags(c.Request.Context(), requester, []uuid.UUID{id})
	if err != nil {
		respondError(c, err)
		return
	}
	subscribed, err := h.users.IsSubscribed(c.Request.Context(), requester, recipe.AuthorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecipeResponse(recipe, flags[id], subscribed))
}

// resolveImage turns a base64 data URI into a hosted URL; plain URLs pass through
func (h *RecipeHandler) resolveImage(c *gin.Context, image string) (string, bool) {
	if !strings.HasPrefix(image, "data:") {
		return image, true
	}
	if h.images == nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": "image uploads are not configured"})
		return "", false
	}
	url, err := h.images.UploadBase64Image(c.Request.Context(), image)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return url, true
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	imageURL, ok := h.resolveImage(c, req.Image)
	if !ok {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), *userID, &req, imageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	flags := service.RecipeFlags{}
	c.JSON(http.StatusCreated, newRecipeResponse(recipe, flags, false))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	imageURL := ""
	if req.Image != "" {
		var ok bool
		imageURL, ok = h.resolveImage(c, req.Image)
		if !ok {
			return
		}
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), *userID, id, &req, imageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	flags, err := h.recipes.GetRecipeFlags(c.Request.Context(), userID, []uuid.UUID{id})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecipeResponse(recipe, flags[id], false))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), *userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// relationAction runs an add/remove favorite or cart operation and, for
// additions, responds with the short recipe payload the frontend expects
func (h *RecipeHandler) relationAction(c *gin.Context, action func(userID, recipeID uuid.UUID) error, created bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := action(*userID, id); err != nil {
		respondError(c, err)
		return
	}

	if !created {
		c.Status(http.StatusNoContent)
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newShortRecipeResponse(recipe))
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.relationAction(c, func(userID, recipeID uuid.UUID) error {
		return h.recipes.AddFavorite(c.Request.Context(), userID, recipeID)
	}, true)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.relationAction(c, func(userID, recipeID uuid.UUID) error {
		return h.recipes.RemoveFavorite(c.Request.Context(), userID, recipeID)
	}, false)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.relationAction(c, func(userID, recipeID uuid.UUID) error {
		return h.recipes.AddToCart(c.Request.Context(), userID, recipeID)
	}, true)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.relationAction(c, func(userID, recipeID uuid.UUID) error {
		return h.recipes.RemoveFromCart(c.Request.Context(), userID, recipeID)
	}, false)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	list, err := h.shopping.BuildShoppingList(c.Request.Context(), *userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=shopping_list.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list))
}
