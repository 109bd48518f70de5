// Package api - Negotiation and bitácora handlers
package api

import (
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ocarreno01/aira-back/internal/errors"
	"github.com/Ocarreno01/aira-back/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NegotiationHandler handles negotiation endpoints
type NegotiationHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewNegotiationHandler creates a new negotiation handler
func NewNegotiationHandler(db *gorm.DB, logger *zap.Logger) *NegotiationHandler {
	return &NegotiationHandler{
		db:     db,
		logger: logger.Named("negotiations"),
	}
}

// LogResponse is a single bitácora entry with its author
type LogResponse struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	SellerID    uuid.UUID `json:"sellerId"`
	SellerName  string    `json:"sellerName"`
	SellerEmail string    `json:"sellerEmail"`
}

// NegotiationResponse is the denormalized negotiation shape with project,
// client and full log history
type NegotiationResponse struct {
	ID               uuid.UUID     `json:"id"`
	NegotiationID    uuid.UUID     `json:"negotiationId"`
	CreatedAt        time.Time     `json:"createdAt"`
	ProjectID        uuid.UUID     `json:"projectId"`
	ProjectName      string        `json:"projectName"`
	StatusID         uuid.UUID     `json:"statusId"`
	StatusName       string        `json:"statusName"`
	GeneraBitacora   bool          `json:"generaBitacora"`
	ClientID         uuid.UUID     `json:"clientId"`
	ClientName       string        `json:"clientName"`
	DocumentTypeID   uuid.UUID     `json:"documentTypeId"`
	DocumentTypeName string        `json:"documentTypeName"`
	DocumentNumber   string        `json:"documentNumber"`
	LogsCount        int           `json:"logsCount"`
	Logs             []LogResponse `json:"logs"`
}

func toLogResponses(logs []models.NegotiationLog) []LogResponse {
	responses := make([]LogResponse, 0, len(logs))
	for _, log := range logs {
		resp := LogResponse{
			ID:          log.ID,
			Date:        log.Date,
			Description: log.Description,
			SellerID:    log.SellerID,
		}
		if log.Seller != nil {
			resp.SellerName = log.Seller.Name
			resp.SellerEmail = log.Seller.Email
		}
		responses = append(responses, resp)
	}
	return responses
}

func toNegotiationResponse(n models.Negotiation) NegotiationResponse {
	resp := NegotiationResponse{
		ID:            n.ID,
		NegotiationID: n.ID,
		CreatedAt:     n.CreatedAt,
		ProjectID:     n.ProjectID,
		ClientID:      n.ClientID,
		Logs:          toLogResponses(n.Logs),
	}
	resp.LogsCount = len(resp.Logs)
	if n.Project != nil {
		resp.ProjectName = n.Project.Name
		resp.StatusID = n.Project.StatusID
		if n.Project.Status != nil {
			resp.StatusName = n.Project.Status.Name
			resp.GeneraBitacora = n.Project.Status.GeneraBitacora
		}
	}
	if n.Client != nil {
		resp.ClientName = n.Client.Name
		resp.DocumentTypeID = n.Client.DocumentTypeID
		if n.Client.DocumentType != nil {
			resp.DocumentTypeName = n.Client.DocumentType.Name
		}
		resp.DocumentNumber = n.Client.DocumentNumber
	}
	return resp
}

func logsNewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("date DESC")
}

// List returns all negotiations, newest first, logs newest first within each
// GET /negotiations
func (h *NegotiationHandler) List(c *gin.Context) {
	var negotiations []models.Negotiation
	err := h.db.
		Preload("Project.Status").
		Preload("Client.DocumentType").
		Preload("Logs", logsNewestFirst).
		Preload("Logs.Seller").
		Order("created_at DESC").
		Find(&negotiations).Error
	if err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	responses := make([]NegotiationResponse, 0, len(negotiations))
	for _, n := range negotiations {
		responses = append(responses, toNegotiationResponse(n))
	}
	c.JSON(http.StatusOK, responses)
}

// Get returns the full detail view of one negotiation
// GET /negotiations/:id
func (h *NegotiationHandler) Get(c *gin.Context) {
	negotiationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, errors.NewNotFoundError("negotiation"))
		return
	}

	var negotiation models.Negotiation
	err = h.db.
		Preload("Project.Client").
		Preload("Project.Seller").
		Preload("Project.BusinessType").
		Preload("Project.Status").
		Preload("Client.DocumentType").
		Preload("Logs", logsNewestFirst).
		Preload("Logs.Seller").
		First(&negotiation, "id = ?", negotiationID).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, h.logger, errors.NewNotFoundError("negotiation"))
			return
		}
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	resp := toNegotiationResponse(negotiation)
	detail := gin.H{
		"id":               resp.ID,
		"negotiationId":    resp.NegotiationID,
		"createdAt":        resp.CreatedAt,
		"clientId":         resp.ClientID,
		"clientName":       resp.ClientName,
		"documentTypeId":   resp.DocumentTypeID,
		"documentTypeName": resp.DocumentTypeName,
		"documentNumber":   resp.DocumentNumber,
		"logsCount":        resp.LogsCount,
		"logs":             resp.Logs,
	}
	if negotiation.Project != nil {
		projectResp := toProjectResponse(*negotiation.Project)
		projectResp.NegotiationID = &resp.ID
		detail["project"] = projectResp
	}
	c.JSON(http.StatusOK, detail)
}

// CreateNegotiationRequest starts a negotiation with its first log entry
type CreateNegotiationRequest struct {
	ProjectID   string `json:"projectId"`
	ClientID    string `json:"clientId"`
	SellerID    string `json:"sellerId"`
	Description string `json:"description"`
}

// Create opens the negotiation for a project and writes the first bitácora
// entry in the same transaction; neither row is visible without the other.
// POST /negotiations
func (h *NegotiationHandler) Create(c *gin.Context) {
	var req CreateNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errors.NewValidationError("", "invalid request body"))
		return
	}

	projectID := strings.TrimSpace(req.ProjectID)
	clientID := strings.TrimSpace(req.ClientID)
	sellerID := strings.TrimSpace(req.SellerID)
	description := strings.TrimSpace(req.Description)
	if projectID == "" || clientID == "" || sellerID == "" || description == "" {
		respondError(c, h.logger, errors.NewValidationError("",
			"projectId, clientId, sellerId and description are required"))
		return
	}

	project, err := h.findProject(projectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	client, err := h.findClient(clientID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	seller, err := h.findSeller(sellerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if client.ID != project.ClientID {
		respondError(c, h.logger, errors.NewValidationError("clientId",
			"clientId does not match the project's client"))
		return
	}

	var existing int64
	if err := h.db.Model(&models.Negotiation{}).Where("project_id = ?", project.ID).Count(&existing).Error; err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}
	if existing > 0 {
		respondError(c, h.logger, errors.NewConflictMessageError("negotiation",
			"project already has a negotiation"))
		return
	}

	negotiation := models.Negotiation{
		ID:        uuid.New(),
		ProjectID: project.ID,
		ClientID:  client.ID,
	}
	firstLog := models.NegotiationLog{
		ID:            uuid.New(),
		NegotiationID: negotiation.ID,
		SellerID:      seller.ID,
		Date:          time.Now(),
		Description:   description,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&negotiation).Error; err != nil {
			return err
		}
		return tx.Create(&firstLog).Error
	})
	if err != nil {
		// The unique index on project_id is the authority: a race past
		// the pre-check still resolves to a single negotiation.
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, h.logger, errors.NewConflictMessageError("negotiation",
				"project already has a negotiation"))
			return
		}
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": negotiation.ID, "projectId": negotiation.ProjectID})
}

// AddLogRequest appends a bitácora entry. The seller defaults to the caller.
type AddLogRequest struct {
	Description string `json:"description"`
	SellerID    string `json:"sellerId"`
}

// AddLog appends a dated entry to a negotiation's bitácora
// POST /negotiations/:id/logs
func (h *NegotiationHandler) AddLog(c *gin.Context) {
	negotiationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, errors.NewNotFoundError("negotiation"))
		return
	}

	var req AddLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errors.NewValidationError("", "invalid request body"))
		return
	}

	description := strings.TrimSpace(req.Description)
	sellerID := strings.TrimSpace(req.SellerID)
	if sellerID == "" {
		if callerID, ok := currentUserID(c); ok {
			sellerID = callerID.String()
		}
	}
	if description == "" || sellerID == "" {
		respondError(c, h.logger, errors.NewValidationError("",
			"description and sellerId are required"))
		return
	}

	var negotiation models.Negotiation
	if err := h.db.First(&negotiation, "id = ?", negotiationID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, h.logger, errors.NewNotFoundError("negotiation"))
			return
		}
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	seller, err := h.findSeller(sellerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	log := models.NegotiationLog{
		ID:            uuid.New(),
		NegotiationID: negotiation.ID,
		SellerID:      seller.ID,
		Date:          time.Now(),
		Description:   description,
	}
	if err := h.db.Create(&log).Error; err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": log.ID, "date": log.Date})
}

// =============================================================================
// LOOKUP HELPERS
// =============================================================================

func (h *NegotiationHandler) findProject(id string) (*models.Project, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.NewNotFoundError("project")
	}
	var project models.Project
	if err := h.db.First(&project, "id = ?", projectID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("project")
		}
		return nil, errors.NewInternalError(err)
	}
	return &project, nil
}

func (h *NegotiationHandler) findClient(id string) (*models.Client, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.NewNotFoundError("client")
	}
	var client models.Client
	if err := h.db.First(&client, "id = ?", clientID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("client")
		}
		return nil, errors.NewInternalError(err)
	}
	return &client, nil
}

func (h *NegotiationHandler) findSeller(id string) (*models.User, error) {
	sellerID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.NewNotFoundError("seller")
	}
	var seller models.User
	if err := h.db.First(&seller, "id = ?", sellerID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("seller")
		}
		return nil, errors.NewInternalError(err)
	}
	return &seller, nil
}
