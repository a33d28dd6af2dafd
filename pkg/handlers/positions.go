package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arnavshah/volunteer-hub-go/pkg/authz"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

// ListPositions returns a group's positions.
func (h *Handler) ListPositions(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, _, err := h.groupContext(groupID, currentUserID(c)); err != nil {
		h.respondGroupAccess(c, err)
		return
	}

	var positions []models.Position
	if err := h.DB.Where("group_id = ?", groupID).Order("name").Find(&positions).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not list positions")
		return
	}
	respondData(c, http.StatusOK, positions)
}

type positionRequest struct {
	GroupID     uuid.UUID `json:"group_id"`
	Name        string    `json:"name" binding:"required,max=100"`
	Description string    `json:"description"`
}

// CreatePosition adds a position to a group. Coordinator-tier required.
func (h *Handler) CreatePosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.GroupID == uuid.Nil {
		respondError(c, http.StatusBadRequest, "group_id is required")
		return
	}

	_, orgRole, groupRole, err := h.groupContext(req.GroupID, currentUserID(c))
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.CanManageGroup(orgRole, groupRole) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	position := models.Position{
		GroupID:     req.GroupID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := h.DB.Create(&position).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not create position")
		return
	}
	respondData(c, http.StatusCreated, position)
}

// GetPosition returns one position.
func (h *Handler) GetPosition(c *gin.Context) {
	positionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var position models.Position
	if err := h.DB.First(&position, "id = ?", positionID).Error; err != nil {
		respondDomainError(c, err)
		return
	}
	if _, _, _, err := h.groupContext(position.GroupID, currentUserID(c)); err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	respondData(c, http.StatusOK, position)
}

// UpdatePosition renames a position. Coordinator-tier required.
func (h *Handler) UpdatePosition(c *gin.Context) {
	positionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var position models.Position
	if err := h.DB.First(&position, "id = ?", positionID).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	_, orgRole, groupRole, err := h.groupContext(position.GroupID, currentUserID(c))
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.CanManageGroup(orgRole, groupRole) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	position.Name = strings.TrimSpace(req.Name)
	position.Description = req.Description
	if err := h.DB.Save(&position).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not update position")
		return
	}
	respondData(c, http.StatusOK, position)
}

// DeletePosition removes a position unless shifts still reference it.
func (h *Handler) DeletePosition(c *gin.Context) {
	positionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var position models.Position
	if err := h.DB.First(&position, "id = ?", positionID).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	_, orgRole, groupRole, err := h.groupContext(position.GroupID, currentUserID(c))
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.CanManageGroup(orgRole, groupRole) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	if err := h.Workflow.DeletePosition(positionID); err != nil {
		respondDomainError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "position deleted")
}
