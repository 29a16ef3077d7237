package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/api"
	"github.com/foodgram-project/backend/internal/router"
	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
	"github.com/foodgram-project/backend/internal/types"
)

// setupTestServer wires the full route table against an in-memory store.
// Image uploads and rate limiting stay off.
func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)

	authSvc := service.NewAuthService(db, "test-secret")
	userSvc := service.NewUserService(db)
	recipeSvc := service.NewRecipeService(db)
	shoppingSvc := service.NewShoppingListService(db)

	engine := router.SetupRouter(
		api.NewAuthHandler(authSvc),
		api.NewUserHandler(userSvc, authSvc),
		api.NewRecipeHandler(recipeSvc, shoppingSvc, userSvc, authSvc, nil, nil),
		api.NewCatalogHandler(db),
	)
	return engine, db
}

// registerUser registers a user through the API and returns the bearer token.
func registerUser(t *testing.T, engine *gin.Engine, username string) string {
	body := testhelpers.JSONMarshal(t, types.RegisterRequest{
		Email:     fmt.Sprintf("%s@example.com", username),
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "testpassword123",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp api.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(testhelpers.JSONMarshal(t, body))
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	engine.ServeHTTP(w, req)
	return w
}
