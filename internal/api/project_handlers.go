// Package api - Project handlers and reference data lookups
package api

import (
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ocarreno01/aira-back/internal/database"
	"github.com/Ocarreno01/aira-back/internal/errors"
	"github.com/Ocarreno01/aira-back/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectHandler handles project CRUD and reference data endpoints
type ProjectHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(db *gorm.DB, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		db:     db,
		logger: logger.Named("projects"),
	}
}

// ProjectResponse is the denormalized list/detail shape. Aliases (project,
// typeId, typeName) are kept for older frontend clients.
type ProjectResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Project          string     `json:"project"`
	ClientID         uuid.UUID  `json:"clientId"`
	ClientName       string     `json:"clientName"`
	SellerID         uuid.UUID  `json:"sellerId"`
	SellerName       string     `json:"sellerName"`
	SellerEmail      string     `json:"sellerEmail"`
	BusinessTypeID   uuid.UUID  `json:"businessTypeId"`
	TypeID           uuid.UUID  `json:"typeId"`
	BusinessTypeName string     `json:"businessTypeName"`
	TypeName         string     `json:"typeName"`
	EstimatedValue   string     `json:"estimatedValue"`
	StatusID         uuid.UUID  `json:"statusId"`
	StatusName       string     `json:"statusName"`
	GeneraBitacora   bool       `json:"generaBitacora"`
	NegotiationID    *uuid.UUID `json:"negotiationId"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func toProjectResponse(p models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:             p.ID,
		Name:           p.Name,
		Project:        p.Name,
		ClientID:       p.ClientID,
		SellerID:       p.SellerID,
		BusinessTypeID: p.BusinessTypeID,
		TypeID:         p.BusinessTypeID,
		EstimatedValue: p.EstimatedValue,
		StatusID:       p.StatusID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Client != nil {
		resp.ClientName = p.Client.Name
	}
	if p.Seller != nil {
		resp.SellerName = p.Seller.Name
		resp.SellerEmail = p.Seller.Email
	}
	if p.BusinessType != nil {
		resp.BusinessTypeName = p.BusinessType.Name
		resp.TypeName = p.BusinessType.Name
	}
	if p.Status != nil {
		resp.StatusName = p.Status.Name
		resp.GeneraBitacora = p.Status.GeneraBitacora
	}
	if p.Negotiation != nil {
		id := p.Negotiation.ID
		resp.NegotiationID = &id
	}
	return resp
}

// List returns all projects, newest first
// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	var projects []models.Project
	err := h.db.
		Preload("Client").
		Preload("Seller").
		Preload("BusinessType").
		Preload("Status").
		Preload("Negotiation").
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	responses := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, toProjectResponse(p))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateProjectRequest accepts the field aliases older clients send.
type CreateProjectRequest struct {
	Name           string      `json:"name"`
	Project        string      `json:"project"`
	ProjectName    string      `json:"projectName"`
	ClientID       string      `json:"clientId"`
	SellerID       string      `json:"sellerId"`
	BusinessTypeID string      `json:"businessTypeId"`
	TypeID         string      `json:"typeId"`
	ProjectTypeID  string      `json:"projectTypeId"`
	StatusID       string      `json:"statusId"`
	EstimatedValue interface{} `json:"estimatedValue"`
	Value          interface{} `json:"value"`
}

// Create creates a project. The seller defaults to the caller and the
// status defaults to the initial pipeline stage.
// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errors.NewValidationError("", "invalid request body"))
		return
	}

	name := firstNonEmpty(req.Name, req.Project, req.ProjectName)
	clientID := strings.TrimSpace(req.ClientID)
	businessTypeID := firstNonEmpty(req.BusinessTypeID, req.TypeID, req.ProjectTypeID)
	statusID := strings.TrimSpace(req.StatusID)

	sellerID := strings.TrimSpace(req.SellerID)
	if sellerID == "" {
		if callerID, ok := currentUserID(c); ok {
			sellerID = callerID.String()
		}
	}

	rawValue := req.EstimatedValue
	if rawValue == nil {
		rawValue = req.Value
	}
	estimatedValue, valueOK := normalizeEstimatedValue(rawValue)

	if statusID == "" {
		status, err := h.defaultStatus()
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		statusID = status.ID.String()
	}

	if name == "" || clientID == "" || sellerID == "" || businessTypeID == "" || statusID == "" || !valueOK {
		respondError(c, h.logger, errors.NewValidationError("",
			"required fields: name/project, clientId, sellerId, businessTypeId/typeId, statusId (or default status), estimatedValue"))
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
	businessType, err := h.findBusinessType(businessTypeID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	status, err := h.findStatus(statusID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	project := models.Project{
		ID:             uuid.New(),
		Name:           name,
		ClientID:       client.ID,
		SellerID:       seller.ID,
		BusinessTypeID: businessType.ID,
		StatusID:       status.ID,
		EstimatedValue: estimatedValue,
	}
	if err := h.db.Create(&project).Error; err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": project.ID})
}

// UpdateProjectRequest is a tri-state partial update: only keys present in
// the payload are validated and applied.
type UpdateProjectRequest struct {
	Name           models.Optional[string]      `json:"name"`
	Project        models.Optional[string]      `json:"project"`
	ProjectName    models.Optional[string]      `json:"projectName"`
	ClientID       models.Optional[string]      `json:"clientId"`
	SellerID       models.Optional[string]      `json:"sellerId"`
	BusinessTypeID models.Optional[string]      `json:"businessTypeId"`
	TypeID         models.Optional[string]      `json:"typeId"`
	ProjectTypeID  models.Optional[string]      `json:"projectTypeId"`
	StatusID       models.Optional[string]      `json:"statusId"`
	EstimatedValue models.Optional[interface{}] `json:"estimatedValue"`
	Value          models.Optional[interface{}] `json:"value"`
}

// Update applies a partial update to a project
// PUT /projects/:id, PATCH /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, errors.NewNotFoundError("project"))
		return
	}

	var project models.Project
	if err := h.db.First(&project, "id = ?", projectID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, h.logger, errors.NewNotFoundError("project"))
			return
		}
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errors.NewValidationError("", "invalid request body"))
		return
	}

	updates := map[string]interface{}{}
	recognized := false

	if name := firstPresent(req.Name, req.Project, req.ProjectName); name.Present {
		recognized = true
		trimmed := strings.TrimSpace(name.Value)
		if !name.Valid || trimmed == "" {
			respondError(c, h.logger, errors.NewValidationError("name", "name cannot be empty"))
			return
		}
		updates["name"] = trimmed
	}

	if req.ClientID.Present {
		recognized = true
		client, err := h.findClient(optionalString(req.ClientID))
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		updates["client_id"] = client.ID
	}

	if req.SellerID.Present {
		recognized = true
		seller, err := h.findSeller(optionalString(req.SellerID))
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		updates["seller_id"] = seller.ID
	}

	if businessTypeID := firstPresent(req.BusinessTypeID, req.TypeID, req.ProjectTypeID); businessTypeID.Present {
		recognized = true
		businessType, err := h.findBusinessType(optionalString(businessTypeID))
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		updates["business_type_id"] = businessType.ID
	}

	if req.StatusID.Present {
		recognized = true
		status, err := h.findStatus(optionalString(req.StatusID))
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		updates["status_id"] = status.ID
	}

	if value := firstPresent(req.EstimatedValue, req.Value); value.Present {
		recognized = true
		normalized, ok := normalizeEstimatedValue(value.Value)
		if !value.Valid || !ok {
			respondError(c, h.logger, errors.NewValidationError("estimatedValue",
				"estimatedValue must be a non-negative number"))
			return
		}
		updates["estimated_value"] = normalized
	}

	if !recognized {
		respondError(c, h.logger, errors.NewValidationError("", "no updatable fields in request"))
		return
	}

	if err := h.db.Model(&project).Updates(updates).Error; err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": project.ID})
}

// Delete removes a project unless a negotiation depends on it
// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, errors.NewNotFoundError("project"))
		return
	}

	var project models.Project
	if err := h.db.First(&project, "id = ?", projectID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, h.logger, errors.NewNotFoundError("project"))
			return
		}
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	var negotiations int64
	if err := h.db.Model(&models.Negotiation{}).Where("project_id = ?", projectID).Count(&negotiations).Error; err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}
	if negotiations > 0 {
		respondError(c, h.logger, errors.NewConflictMessageError("project",
			"project has a negotiation and cannot be deleted"))
		return
	}

	if err := h.db.Delete(&project).Error; err != nil {
		// A negotiation created between the check and the delete hits
		// the foreign key instead of the count.
		if stderrors.Is(err, gorm.ErrForeignKeyViolated) {
			respondError(c, h.logger, errors.NewConflictMessageError("project",
				"project has a negotiation and cannot be deleted"))
			return
		}
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted successfully"})
}

// =============================================================================
// REFERENCE DATA LOOKUPS
// =============================================================================

// ReferenceOption mirrors the label/value echo older selects expect.
type ReferenceOption struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Value uuid.UUID `json:"value"`
}

// Clients lists clients with their document info, by name
// GET /projects/clients
func (h *ProjectHandler) Clients(c *gin.Context) {
	var clients []models.Client
	err := h.db.Preload("DocumentType").Order("name ASC").Find(&clients).Error
	if err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	responses := make([]gin.H, 0, len(clients))
	for _, client := range clients {
		documentTypeName := ""
		if client.DocumentType != nil {
			documentTypeName = client.DocumentType.Name
		}
		responses = append(responses, gin.H{
			"id":               client.ID,
			"name":             client.Name,
			"label":            client.Name,
			"value":            client.ID,
			"documentTypeId":   client.DocumentTypeID,
			"documentTypeName": documentTypeName,
			"documentNumber":   client.DocumentNumber,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// Sellers lists users carrying the VENDEDOR role, falling back to all users
// when no user has it yet
// GET /projects/sellers
func (h *ProjectHandler) Sellers(c *gin.Context) {
	var sellers []models.User

	var role models.Role
	err := h.db.Where("code = ?", "VENDEDOR").First(&role).Error
	if err == nil {
		if err := h.db.Where("role_id = ?", role.ID).Order("name ASC").Find(&sellers).Error; err != nil {
			respondError(c, h.logger, errors.NewInternalError(err))
			return
		}
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	if len(sellers) == 0 {
		if err := h.db.Order("name ASC").Find(&sellers).Error; err != nil {
			respondError(c, h.logger, errors.NewInternalError(err))
			return
		}
	}

	responses := make([]gin.H, 0, len(sellers))
	for _, seller := range sellers {
		responses = append(responses, gin.H{
			"id":    seller.ID,
			"name":  seller.Name,
			"label": seller.Name,
			"value": seller.ID,
			"email": seller.Email,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// Statuses lists pipeline statuses in creation order
// GET /projects/statuses
func (h *ProjectHandler) Statuses(c *gin.Context) {
	var statuses []models.ProjectStatus
	if err := h.db.Order("created_at ASC").Find(&statuses).Error; err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	responses := make([]gin.H, 0, len(statuses))
	for _, status := range statuses {
		responses = append(responses, gin.H{
			"id":             status.ID,
			"name":           status.Name,
			"label":          status.Name,
			"value":          status.ID,
			"generaBitacora": status.GeneraBitacora,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// Types lists business types by name
// GET /projects/types
func (h *ProjectHandler) Types(c *gin.Context) {
	var types []models.BusinessType
	if err := h.db.Order("name ASC").Find(&types).Error; err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	responses := make([]ReferenceOption, 0, len(types))
	for _, t := range types {
		responses = append(responses, ReferenceOption{ID: t.ID, Name: t.Name, Label: t.Name, Value: t.ID})
	}
	c.JSON(http.StatusOK, responses)
}

// StatusWithBitacora returns the status configured to require a negotiation
// log. Ties break by creation order.
// GET /projects/statusWithBitacora
func (h *ProjectHandler) StatusWithBitacora(c *gin.Context) {
	var status models.ProjectStatus
	err := h.db.Where("genera_bitacora = ?", true).Order("created_at ASC").First(&status).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, h.logger, errors.NewNotFoundError("status with bitácora"))
			return
		}
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             status.ID,
		"name":           status.Name,
		"label":          status.Name,
		"value":          status.ID,
		"generaBitacora": status.GeneraBitacora,
	})
}

// =============================================================================
// LOOKUP HELPERS
// =============================================================================

func (h *ProjectHandler) defaultStatus() (*models.ProjectStatus, error) {
	var status models.ProjectStatus
	err := h.db.Where("LOWER(name) = LOWER(?)", database.DefaultStatusName).
		Order("created_at ASC").First(&status).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("default status")
		}
		return nil, errors.NewInternalError(err)
	}
	return &status, nil
}

func (h *ProjectHandler) findClient(id string) (*models.Client, error) {
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

func (h *ProjectHandler) findSeller(id string) (*models.User, error) {
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

func (h *ProjectHandler) findBusinessType(id string) (*models.BusinessType, error) {
	businessTypeID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.NewNotFoundError("business type")
	}
	var businessType models.BusinessType
	if err := h.db.First(&businessType, "id = ?", businessTypeID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("business type")
		}
		return nil, errors.NewInternalError(err)
	}
	return &businessType, nil
}

func (h *ProjectHandler) findStatus(id string) (*models.ProjectStatus, error) {
	statusID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.NewNotFoundError("status")
	}
	var status models.ProjectStatus
	if err := h.db.First(&status, "id = ?", statusID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("status")
		}
		return nil, errors.NewInternalError(err)
	}
	return &status, nil
}

// firstPresent returns the first Optional whose key appeared in the payload.
func firstPresent[T any](opts ...models.Optional[T]) models.Optional[T] {
	for _, opt := range opts {
		if opt.Present {
			return opt
		}
	}
	return models.Optional[T]{}
}

// optionalString extracts a trimmed value from a present Optional; null or
// blank both come back empty so lookups fail with NotFound.
func optionalString(opt models.Optional[string]) string {
	if !opt.Valid {
		return ""
	}
	return strings.TrimSpace(opt.Value)
}
