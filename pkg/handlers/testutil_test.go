package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arnavshah/volunteer-hub-go/pkg/auth"
	"github.com/arnavshah/volunteer-hub-go/pkg/database"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		auth.Configure("test-secret", 24)
		auth.ConfigureInvites("test-invite-secret")
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	router := gin.New()
	Register(router, New(db))

	return &testEnv{router: router, db: db}
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) (models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.CreateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
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
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func dataObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected data object, got %v", body)
	return data
}

func dataList(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()
	body := decodeBody(t, rec)
	if body["data"] == nil {
		return nil
	}
	data, ok := body["data"].([]any)
	require.True(t, ok, "expected data array, got %v", body)
	return data
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "response body: %s", rec.Body.String())
}

func assertErrorMessage(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, want, body["error"])
}
