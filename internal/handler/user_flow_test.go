package handler_test

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mkrishnan-neu/user-directory/internal/api"
	"github.com/mkrishnan-neu/user-directory/internal/config"
	"github.com/mkrishnan-neu/user-directory/internal/database/models"
	"github.com/mkrishnan-neu/user-directory/internal/database/repository"
	"github.com/mkrishnan-neu/user-directory/internal/database/service"
	"github.com/mkrishnan-neu/user-directory/internal/handler"
	"github.com/mkrishnan-neu/user-directory/internal/middleware"
)

// setupStack wires the real repository, service and router over an
// in-memory SQLite store.
func setupStack(t *testing.T) (*gin.Engine, repository.UserRepository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	logger := testLogger()
	repo := repository.NewUserRepository(db)
	svc := service.NewUserService(repo, &config.Config{BcryptCost: int64(bcrypt.MinCost)}, logger)
	userHandler := handler.NewUserHandler(svc, logger)

	gin.SetMode(gin.TestMode)
	return api.SetupRouter(userHandler, middleware.NewNoOpRateLimiter(logger), logger), repo
}

func TestUserLifecycle_EndToEnd(t *testing.T) {
	router, repo := setupStack(t)

	// Create
	w := doJSON(router, "POST", "/user/create", map[string]string{
		"name":     "Ramesh Kumar",
		"email":    "kumar.r@northeastern.edu",
		"password": "secret123",
	})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "User created", w.Body.String())

	// The stored password is a hash, not the plaintext
	stored, err := repo.FindByEmail("kumar.r@northeastern.edu")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
	originalHash := stored.Password

	// Edit the name only
	w = doJSON(router, "PUT", "/user/edit", map[string]string{
		"email": "kumar.r@northeastern.edu",
		"name":  "Ramesh K Kumar",
	})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "User updated", w.Body.String())

	stored, err = repo.FindByEmail("kumar.r@northeastern.edu")
	require.NoError(t, err)
	assert.Equal(t, "Ramesh K Kumar", stored.Name)
	assert.Equal(t, "kumar.r@northeastern.edu", stored.Email)
	assert.Equal(t, originalHash, stored.Password)

	// Delete, then delete again
	w = doJSON(router, "DELETE", "/user/delete", map[string]string{"email": "kumar.r@northeastern.edu"})
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "User deleted", w.Body.String())

	w = doJSON(router, "DELETE", "/user/delete", map[string]string{"email": "kumar.r@northeastern.edu"})
	assert.Equal(t, 404, w.Code)
}

func TestCreateUser_ShortPasswordNotPersisted(t *testing.T) {
	router, repo := setupStack(t)

	w := doJSON(router, "POST", "/user/create", map[string]string{
		"name":     "Ramesh Kumar",
		"email":    "kumar.r@northeastern.edu",
		"password": "short",
	})

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Password must be at least 6 characters long")

	users, err := repo.ListProjected()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCreateUser_DuplicateEmailEndToEnd(t *testing.T) {
	router, _ := setupStack(t)

	body := map[string]string{
		"name":     "Ramesh Kumar",
		"email":    "kumar.r@northeastern.edu",
		"password": "secret123",
	}

	w := doJSON(router, "POST", "/user/create", body)
	require.Equal(t, 200, w.Code)

	w = doJSON(router, "POST", "/user/create", body)
	assert.Equal(t, 500, w.Code)
	assert.Contains(t, w.Body.String(), "user already exists")
}

func TestEditUser_EmailChangeNotPersisted(t *testing.T) {
	router, repo := setupStack(t)

	w := doJSON(router, "POST", "/user/create", map[string]string{
		"name":     "Ramesh Kumar",
		"email":    "kumar.r@northeastern.edu",
		"password": "secret123",
	})
	require.Equal(t, 200, w.Code)

	stored, err := repo.FindByEmail("kumar.r@northeastern.edu")
	require.NoError(t, err)
	originalHash := stored.Password

	// Matched by name, but the supplied email differs from the stored one
	w = doJSON(router, "PUT", "/user/edit", map[string]string{
		"email":    "changed.e@northeastern.edu",
		"name":     "Ramesh Kumar",
		"password": "newsecret",
	})
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "User email address cannot be updated")

	stored, err = repo.FindByEmail("kumar.r@northeastern.edu")
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Kumar", stored.Name)
	assert.Equal(t, originalHash, stored.Password)
}

func TestGetAllUsers_EndToEnd(t *testing.T) {
	router, _ := setupStack(t)

	for _, body := range []map[string]string{
		{"name": "Ramesh Kumar", "email": "kumar.r@northeastern.edu", "password": "secret123"},
		{"name": "Priya Sharma", "email": "sharma.p@northeastern.edu", "password": "secret456"},
	} {
		w := doJSON(router, "POST", "/user/create", body)
		require.Equal(t, 200, w.Code)
	}

	w := doJSON(router, "GET", "/user/getAll", nil)
	require.Equal(t, 200, w.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)

	emails := []string{users[0]["email"].(string), users[1]["email"].(string)}
	assert.ElementsMatch(t, []string{"kumar.r@northeastern.edu", "sharma.p@northeastern.edu"}, emails)
	for _, user := range users {
		assert.NotContains(t, user, "id")
	}
}
