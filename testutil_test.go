package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"userapi/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

// setupTestDB swaps the package database for a fresh in-memory one and pins
// the token configuration.
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrateDB(gdb))
	db = gdb
	secretKey = []byte("test-secret")
	securitySalt = "test-salt"
	maxPerPage = 25
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	setupTestDB(t)
	r := gin.New()
	setupRoutes(r)
	return r
}

func mustCreateUser(t *testing.T, username, email, password string, super bool) *models.User {
	t.Helper()
	u := &models.User{Username: &username, Email: email, Force: super}
	require.NoError(t, u.SetPassword(password))
	require.NoError(t, db.Create(u).Error)
	return u
}

func mustToken(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := generateAuthToken(u)
	require.NoError(t, err)
	return token
}

// performRequest runs one request through the router with an optional bearer
// token.
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// performBasic runs one request authenticated with username/password.
func performBasic(r http.Handler, method, path, username, password string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	req.SetBasicAuth(username, password)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
