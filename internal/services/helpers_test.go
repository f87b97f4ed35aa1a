package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasktracker/task-tracker-api/internal/auth"
	"github.com/tasktracker/task-tracker-api/internal/database"
	"github.com/tasktracker/task-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	return db
}

func newTestTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tokens, err := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return tokens
}

func newTestAuthService(t *testing.T, db *gorm.DB, tokens TokenManager) *AuthService {
	t.Helper()
	svc, err := NewAuthService(repository.NewUserRepository(db), tokens, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	return svc
}
