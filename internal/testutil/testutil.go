// Package testutil spins up the in-memory backends used by package tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/cache"
	"github.com/oggyb/ideaji/internal/config"
	"github.com/oggyb/ideaji/internal/db"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps the shared-cache database alive and serialises writers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := db.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

// NewCache starts a miniredis and returns a cache bound to it.
func NewCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

// NewAppContext wires a fresh DB, miniredis and a discarding logger.
func NewAppContext(t *testing.T) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()
	rc, mr := NewCache(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return app.New(NewDB(t), rc, logger), mr
}

// CreateUser inserts a USER-role account with the given points.
// The password is always "password123".
func CreateUser(t *testing.T, gdb *gorm.DB, name string, points int64) *db.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &db.User{
		Name:         name,
		Email:        name + "@test.com",
		PasswordHash: string(hash),
		Role:         db.RoleUser,
		Points:       points,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

// CreateIdea inserts a published idea owned by ownerID.
func CreateIdea(t *testing.T, gdb *gorm.DB, ownerID, title string, anonymous bool) *db.Idea {
	t.Helper()
	idea := &db.Idea{
		UserID:      ownerID,
		Title:       title,
		Description: "A description long enough",
		Problem:     "A problem worth solving",
		Solution:    "A solution that works",
		MediaType:   db.MediaText,
		Status:      db.StatusPublished,
		IsAnonymous: anonymous,
	}
	require.NoError(t, gdb.Omit("User", "Tags", "Feedbacks", "AISummary").Create(idea).Error)
	return idea
}
