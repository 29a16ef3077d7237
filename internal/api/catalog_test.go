package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/internal/models"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

func TestListTagsEndpoint(t *testing.T) {
	engine, db := setupTestServer(t)
	testhelpers.CreateTestTag(t, db, "dinner")
	testhelpers.CreateTestTag(t, db, "breakfast")

	w := doJSON(t, engine, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []models.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)
	assert.Equal(t, "dinner", tags[1].Slug)
}

func TestGetTagEndpoint(t *testing.T) {
	engine, db := setupTestServer(t)
	tag := testhelpers.CreateTestTag(t, db, "breakfast")

	w := doJSON(t, engine, http.MethodGet, "/api/v1/tags/"+tag.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/tags/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/tags/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListIngredientsEndpoint(t *testing.T) {
	engine, db := setupTestServer(t)
	testhelpers.CreateTestIngredient(t, db, "sugar", "g")
	testhelpers.CreateTestIngredient(t, db, "sunflower oil", "tbsp")
	testhelpers.CreateTestIngredient(t, db, "salt", "g")

	w := doJSON(t, engine, http.MethodGet, "/api/v1/ingredients?name=su", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ingredients []models.Ingredient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 2)
	assert.Equal(t, "sugar", ingredients[0].Name)
	assert.Equal(t, "sunflower oil", ingredients[1].Name)
}

func TestGetIngredientEndpoint(t *testing.T) {
	engine, db := setupTestServer(t)
	ingredient := testhelpers.CreateTestIngredient(t, db, "sugar", "g")

	w := doJSON(t, engine, http.MethodGet, "/api/v1/ingredients/"+ingredient.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Ingredient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "sugar", got.Name)
	assert.Equal(t, "g", got.MeasurementUnit)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/ingredients/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
