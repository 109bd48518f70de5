package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ocarreno01/aira-back/internal/auth"
	"github.com/Ocarreno01/aira-back/internal/config"
	"github.com/Ocarreno01/aira-back/internal/database"
	"github.com/Ocarreno01/aira-back/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB initializes an in-memory SQLite database with the full schema
// and seeded reference data.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	// A pooled second connection would see a different :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")
	require.NoError(t, database.Seed(db), "failed to seed test database")
	return db
}

// setupRouter wires the real router against the test database.
func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	authHandler := NewAuthHandler(db, jwtService, logger)
	projectHandler := NewProjectHandler(db, logger)
	negotiationHandler := NewNegotiationHandler(db, logger)

	return SetupRouter(authHandler, projectHandler, negotiationHandler, corsForTests())
}

func corsForTests() config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "response should be a JSON object: %s", w.Body.String())
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "response should be a JSON array: %s", w.Body.String())
	return body
}

// registerAndLogin creates a user through the API and returns its id and a
// valid token.
func registerAndLogin(t *testing.T, router *gin.Engine, name, email, password string) (uuid.UUID, string) {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())
	registered := decodeBody(t, w)
	user, ok := registered["user"].(map[string]interface{})
	require.True(t, ok, "register response should carry a user object")
	userID, err := uuid.Parse(user["id"].(string))
	require.NoError(t, err)

	w = doRequest(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	loggedIn := decodeBody(t, w)
	require.Equal(t, true, loggedIn["status"], "login should succeed: %s", w.Body.String())
	token, ok := loggedIn["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	return userID, token
}

// createClient inserts a client referencing the first seeded document type.
func createClient(t *testing.T, db *gorm.DB, name string) models.Client {
	t.Helper()

	var docType models.DocumentType
	require.NoError(t, db.Where("code = ?", "NIT").First(&docType).Error)

	client := models.Client{
		ID:             uuid.New(),
		Name:           name,
		DocumentTypeID: docType.ID,
		DocumentNumber: "900123456-7",
	}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func createBusinessType(t *testing.T, db *gorm.DB, name string) models.BusinessType {
	t.Helper()

	businessType := models.BusinessType{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(&businessType).Error)
	return businessType
}

func statusByName(t *testing.T, db *gorm.DB, name string) models.ProjectStatus {
	t.Helper()

	var status models.ProjectStatus
	require.NoError(t, db.Where("name = ?", name).First(&status).Error)
	return status
}
