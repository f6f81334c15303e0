package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-api/internal/auth"
	"github.com/yukikurage/task-api/internal/models"
	"github.com/yukikurage/task-api/internal/repository"
	"github.com/yukikurage/task-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	taskService *services.TaskService
	tokens      *auth.TokenManager
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	tokens := auth.NewTokenManager("test-secret", "task-api", time.Hour)
	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		tokens,
		nil,
	)
	taskService := services.NewTaskService(repository.NewTaskRepository(db), nil)

	router := NewRouter(RouterDeps{
		APIPrefix:    "/api/v1",
		AllowOrigins: []string{"*"},
		DB:           db,
		Tokens:       tokens,
		AuthService:  authService,
		TaskService:  taskService,
	})

	return &testEnv{
		db:          db,
		router:      router,
		authService: authService,
		taskService: taskService,
		tokens:      tokens,
	}
}

// do sends a request through the router. body is JSON-encoded unless nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// createUser registers a user with roles and returns a token for them.
func (e *testEnv) createUser(t *testing.T, email string, roles ...models.Role) (*models.User, string) {
	t.Helper()

	user, err := e.authService.Register(context.Background(), services.RegisterInput{Name: email, Email: email, Password: "password"})
	require.NoError(t, err)

	if len(roles) > 0 {
		user.Roles = roles
		require.NoError(t, e.db.Save(user).Error)
	}

	token, err := e.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
