package testhelpers

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram-project/backend/internal/database"
	"github.com/foodgram-project/backend/internal/models"
	"github.com/foodgram-project/backend/internal/types"
)

// SetupTestDB creates an in-memory SQLite database with the full schema.
// Each call gets its own named memory database so parallel tests do not
// share state.
func SetupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access connection pool: %v", err)
	}
	// A shared-cache memory database disappears once every connection
	// closes, so keep exactly one open.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestUser creates a user with a bcrypt hash of "testpassword123".
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleUser,
		PasswordHash: string(hashed),
	}
	err = db.Create(user).Error
	assert.NoError(t, err)
	return user
}

var tagColorSeq atomic.Int64

// CreateTestTag creates a tag whose name and slug derive from slug. Colors
// are sequential to satisfy the unique color constraint.
func CreateTestTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	tag := &models.Tag{
		Name:  slug,
		Color: fmt.Sprintf("#%06X", tagColorSeq.Add(1)),
		Slug:  slug,
	}
	err := db.Create(tag).Error
	assert.NoError(t, err)
	return tag
}

// CreateTestIngredient creates an ingredient reference row.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	err := db.Create(ingredient).Error
	assert.NoError(t, err)
	return ingredient
}

// CreateTestRecipe creates a minimal recipe owned by authorID.
func CreateTestRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string) *models.Recipe {
	recipe := &models.Recipe{
		Name:        name,
		Text:        "Test recipe text",
		CookingTime: 30,
		AuthorID:    authorID,
	}
	err := db.Create(recipe).Error
	assert.NoError(t, err)
	return recipe
}

// MockTokenValidator is a token validator stub for handler tests.
type MockTokenValidator struct {
	Claims *types.TokenClaims
	Error  error
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Claims, nil
}

// JSONMarshal marshals v or fails the test.
func JSONMarshal(t *testing.T, v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return data
}
