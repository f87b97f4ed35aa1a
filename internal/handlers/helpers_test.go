package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tasktracker/task-tracker-api/internal/auth"
	"github.com/tasktracker/task-tracker-api/internal/database"
	apierrors "github.com/tasktracker/task-tracker-api/internal/errors"
	"github.com/tasktracker/task-tracker-api/internal/repository"
	"github.com/tasktracker/task-tracker-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	tokens      *auth.TokenManager
	authService *services.AuthService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	tokens, err := auth.NewTokenManager([]byte("handler-test-secret"), time.Hour)
	require.NoError(t, err)

	authService, err := services.NewAuthService(
		repository.NewUserRepository(db),
		tokens,
		services.WithBcryptCost(bcrypt.MinCost),
	)
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, Dependencies{
		AuthService: authService,
		TaskService: services.NewTaskService(repository.NewTaskRepository(db), nil),
		Tokens:      tokens,
	})

	return testEnv{
		db:          db,
		router:      r,
		tokens:      tokens,
		authService: authService,
	}
}

// do sends a request with an optional JSON body and bearer token.
func (e testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
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

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var body apierrors.APIError
	decode(t, w, &body)
	return body
}

// registerAndLogin creates an account through the API and returns its token.
func (e testEnv) registerAndLogin(t *testing.T, firstName, email string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/auth/register", map[string]string{
		"firstName":       firstName,
		"lastName":        "Doe",
		"email":           email,
		"password":        "password1",
		"confirmPassword": "password1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": "password1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
