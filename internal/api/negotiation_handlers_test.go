package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/Ocarreno01/aira-back/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// negotiationFixture creates a user, client, business type and project and
// returns everything needed to open a negotiation.
type negotiationFixture struct {
	db        *gorm.DB
	router    *gin.Engine
	token     string
	userID    uuid.UUID
	client    models.Client
	projectID string
}

func setupNegotiationFixture(t *testing.T) negotiationFixture {
	t.Helper()

	db := setupTestDB(t)
	router := setupRouter(t, db)
	userID, token := registerAndLogin(t, router, "Ana", "ana@example.com", "secret123")

	client := createClient(t, db, "Acme S.A.S.")
	businessType := createBusinessType(t, db, "Consultoría")

	w := doRequest(t, router, http.MethodPost, "/projects", token, gin.H{
		"name":           "Portal web",
		"clientId":       client.ID,
		"typeId":         businessType.ID,
		"estimatedValue": "1000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return negotiationFixture{
		db:        db,
		router:    router,
		token:     token,
		userID:    userID,
		client:    client,
		projectID: decodeBody(t, w)["id"].(string),
	}
}

func (f negotiationFixture) createNegotiation(t *testing.T, description string) string {
	t.Helper()

	w := doRequest(t, f.router, http.MethodPost, "/negotiations", f.token, gin.H{
		"projectId":   f.projectID,
		"clientId":    f.client.ID,
		"sellerId":    f.userID,
		"description": description,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)["id"].(string)
}

func TestCreateNegotiationWritesFirstLog(t *testing.T) {
	f := setupNegotiationFixture(t)
	negotiationID := f.createNegotiation(t, "first contact")

	var logs []models.NegotiationLog
	require.NoError(t, f.db.Where("negotiation_id = ?", negotiationID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "first contact", logs[0].Description)
	assert.Equal(t, f.userID, logs[0].SellerID)
	assert.False(t, logs[0].Date.IsZero())
}

func TestCreateNegotiationValidation(t *testing.T) {
	f := setupNegotiationFixture(t)

	// All four fields are required; whitespace does not count.
	w := doRequest(t, f.router, http.MethodPost, "/negotiations", f.token, gin.H{
		"projectId":   f.projectID,
		"clientId":    f.client.ID,
		"sellerId":    f.userID,
		"description": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, w)["error"])

	w = doRequest(t, f.router, http.MethodPost, "/negotiations", f.token, gin.H{
		"projectId":   uuid.New(),
		"clientId":    f.client.ID,
		"sellerId":    f.userID,
		"description": "x",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, f.router, http.MethodPost, "/negotiations", f.token, gin.H{
		"projectId":   f.projectID,
		"clientId":    f.client.ID,
		"sellerId":    uuid.New(),
		"description": "x",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateNegotiationClientMismatch(t *testing.T) {
	f := setupNegotiationFixture(t)
	other := createClient(t, f.db, "Otra Empresa")

	w := doRequest(t, f.router, http.MethodPost, "/negotiations", f.token, gin.H{
		"projectId":   f.projectID,
		"clientId":    other.ID,
		"sellerId":    f.userID,
		"description": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, w)["error"])
}

func TestCreateNegotiationConflict(t *testing.T) {
	f := setupNegotiationFixture(t)
	f.createNegotiation(t, "first contact")

	w := doRequest(t, f.router, http.MethodPost, "/negotiations", f.token, gin.H{
		"projectId":   f.projectID,
		"clientId":    f.client.ID,
		"sellerId":    f.userID,
		"description": "second attempt",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, w)["error"])

	var count int64
	require.NoError(t, f.db.Model(&models.Negotiation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// A failure writing the first log must roll back the negotiation row too.
func TestCreateNegotiationIsAtomic(t *testing.T) {
	f := setupNegotiationFixture(t)
	require.NoError(t, f.db.Migrator().DropTable(&models.NegotiationLog{}))

	w := doRequest(t, f.router, http.MethodPost, "/negotiations", f.token, gin.H{
		"projectId":   f.projectID,
		"clientId":    f.client.ID,
		"sellerId":    f.userID,
		"description": "doomed",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var count int64
	require.NoError(t, f.db.Model(&models.Negotiation{}).Count(&count).Error)
	assert.Zero(t, count, "negotiation must not persist without its first log")
}

func TestAddLogDefaultsSellerToCaller(t *testing.T) {
	f := setupNegotiationFixture(t)
	negotiationID := f.createNegotiation(t, "first contact")

	w := doRequest(t, f.router, http.MethodPost, "/negotiations/"+negotiationID+"/logs", f.token, gin.H{
		"description": "follow up",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["date"])

	var log models.NegotiationLog
	require.NoError(t, f.db.First(&log, "id = ?", body["id"]).Error)
	assert.Equal(t, f.userID, log.SellerID)
}

func TestAddLogValidation(t *testing.T) {
	f := setupNegotiationFixture(t)
	negotiationID := f.createNegotiation(t, "first contact")

	w := doRequest(t, f.router, http.MethodPost, "/negotiations/"+negotiationID+"/logs", f.token, gin.H{
		"description": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, f.router, http.MethodPost, "/negotiations/"+uuid.New().String()+"/logs", f.token, gin.H{
		"description": "orphan",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, f.router, http.MethodPost, "/negotiations/not-a-uuid/logs", f.token, gin.H{
		"description": "bad id",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNegotiationListShape(t *testing.T) {
	f := setupNegotiationFixture(t)
	negotiationID := f.createNegotiation(t, "first contact")

	w := doRequest(t, f.router, http.MethodGet, "/negotiations", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 1)

	n := list[0]
	assert.Equal(t, negotiationID, n["id"])
	assert.Equal(t, negotiationID, n["negotiationId"])
	assert.Equal(t, "Portal web", n["projectName"])
	assert.Equal(t, "Acme S.A.S.", n["clientName"])
	assert.Equal(t, "NIT", n["documentTypeName"])
	assert.Equal(t, "900123456-7", n["documentNumber"])
	assert.Equal(t, float64(1), n["logsCount"])
}

func TestNegotiationLogsNewestFirst(t *testing.T) {
	f := setupNegotiationFixture(t)
	negotiationID := f.createNegotiation(t, "first contact")

	// Push the first entry into the past so ordering is deterministic.
	require.NoError(t, f.db.Model(&models.NegotiationLog{}).
		Where("negotiation_id = ?", negotiationID).
		Update("date", time.Now().Add(-time.Hour)).Error)

	w := doRequest(t, f.router, http.MethodPost, "/negotiations/"+negotiationID+"/logs", f.token, gin.H{
		"description": "follow up",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, f.router, http.MethodGet, "/negotiations/"+negotiationID, f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody(t, w)
	assert.Equal(t, float64(2), detail["logsCount"])

	logs, ok := detail["logs"].([]interface{})
	require.True(t, ok)
	require.Len(t, logs, 2)
	first := logs[0].(map[string]interface{})
	second := logs[1].(map[string]interface{})
	assert.Equal(t, "follow up", first["description"])
	assert.Equal(t, "first contact", second["description"])
}

func TestNegotiationDetail(t *testing.T) {
	f := setupNegotiationFixture(t)
	negotiationID := f.createNegotiation(t, "first contact")

	w := doRequest(t, f.router, http.MethodGet, "/negotiations/"+negotiationID, f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody(t, w)

	assert.Equal(t, negotiationID, detail["id"])
	assert.Equal(t, "Acme S.A.S.", detail["clientName"])

	project, ok := detail["project"].(map[string]interface{})
	require.True(t, ok, "detail should embed the project")
	assert.Equal(t, "Portal web", project["name"])
	assert.Equal(t, negotiationID, project["negotiationId"])

	w = doRequest(t, f.router, http.MethodGet, "/negotiations/"+uuid.New().String(), f.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, f.router, http.MethodGet, "/negotiations/not-a-uuid", f.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Full pipeline walk-through: register, log in, create a project, open its
// negotiation and append a second bitácora entry.
func TestPipelineEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(t, db)
	userID, token := registerAndLogin(t, router, "Carla", "carla@example.com", "secret123")

	client := createClient(t, db, "Cliente Final")
	businessType := createBusinessType(t, db, "Licencias")

	w := doRequest(t, router, http.MethodPost, "/projects", token, gin.H{
		"name":           "Migración ERP",
		"clientId":       client.ID,
		"typeId":         businessType.ID,
		"estimatedValue": 50000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	projectID := decodeBody(t, w)["id"].(string)

	w = doRequest(t, router, http.MethodPost, "/negotiations", token, gin.H{
		"projectId":   projectID,
		"clientId":    client.ID,
		"sellerId":    userID,
		"description": "first contact",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	negotiationID := decodeBody(t, w)["id"].(string)

	require.NoError(t, db.Model(&models.NegotiationLog{}).
		Where("negotiation_id = ?", negotiationID).
		Update("date", time.Now().Add(-time.Minute)).Error)

	w = doRequest(t, router, http.MethodPost, "/negotiations/"+negotiationID+"/logs", token, gin.H{
		"description": "follow up",
		"sellerId":    userID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, router, http.MethodGet, "/negotiations/"+negotiationID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody(t, w)
	assert.Equal(t, float64(2), detail["logsCount"])

	logs := detail["logs"].([]interface{})
	require.Len(t, logs, 2)
	assert.Equal(t, "follow up", logs[0].(map[string]interface{})["description"])

	// The project list now carries the negotiation id.
	w = doRequest(t, router, http.MethodGet, "/projects", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	projects := decodeList(t, w)
	require.Len(t, projects, 1)
	assert.Equal(t, negotiationID, projects[0]["negotiationId"])
}
