package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arnavshah/volunteer-hub-go/pkg/authz"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
	"github.com/arnavshah/volunteer-hub-go/pkg/workflow"
)

// ListShifts returns a group's shifts, optionally bounded by from/to
// (RFC 3339) on the start time.
func (h *Handler) ListShifts(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, _, err := h.groupContext(groupID, currentUserID(c)); err != nil {
		h.respondGroupAccess(c, err)
		return
	}

	query := h.DB.Where("group_id = ?", groupID)
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
		query = query.Where("start >= ?", from)
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "to must be RFC 3339")
			return
		}
		query = query.Where("start < ?", to)
	}

	var shifts []models.Shift
	if err := query.Preload("Positions.Position").Order("start").Find(&shifts).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not list shifts")
		return
	}
	respondData(c, http.StatusOK, shifts)
}

type createShiftRequest struct {
	GroupID uuid.UUID `json:"group_id"`
	workflow.ShiftInput
}

// CreateShift creates a shift with its position requirements.
// Coordinator-tier group role or leader-tier organization role required.
func (h *Handler) CreateShift(c *gin.Context) {
	var req createShiftRequest
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

	shift, err := h.Workflow.CreateShift(req.GroupID, req.ShiftInput)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, shift)
}

// GetShift returns one shift with its positions.
func (h *Handler) GetShift(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var shift models.Shift
	if err := h.DB.Preload("Positions.Position").First(&shift, "id = ?", shiftID).Error; err != nil {
		respondDomainError(c, err)
		return
	}
	if _, _, _, err := h.groupContext(shift.GroupID, currentUserID(c)); err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	respondData(c, http.StatusOK, shift)
}

// UpdateShift is a destructive full replace: the position set is rebuilt
// and every existing signup is discarded, so volunteers must re-apply.
// The response reports how many active signups were thrown away.
func (h *Handler) UpdateShift(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var shift models.Shift
	if err := h.DB.First(&shift, "id = ?", shiftID).Error; err != nil {
		respondDomainError(c, err)
		return
	}
	_, orgRole, groupRole, err := h.groupContext(shift.GroupID, currentUserID(c))
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.CanManageGroup(orgRole, groupRole) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	var in workflow.ShiftInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, discarded, err := h.Workflow.ReplaceShift(shiftID, in)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"shift":                updated,
		"volunteers_discarded": discarded,
	})
}

// CancelShift moves a shift to its terminal CANCELLED state.
func (h *Handler) CancelShift(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var shift models.Shift
	if err := h.DB.First(&shift, "id = ?", shiftID).Error; err != nil {
		respondDomainError(c, err)
		return
	}
	_, orgRole, groupRole, err := h.groupContext(shift.GroupID, currentUserID(c))
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.CanManageGroup(orgRole, groupRole) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	cancelled, err := h.Workflow.CancelShift(shiftID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, cancelled)
}

// ShiftCompleteView returns a shift joined with its positions and their
// volunteers. Counts are recomputed from the live signup rows here, so a
// drifted cache never reaches a report.
func (h *Handler) ShiftCompleteView(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var shift models.Shift
	err := h.DB.
		Preload("Positions.Position").
		Preload("Positions.Volunteers", "status <> ?", models.VolunteerCancelled).
		Preload("Positions.Volunteers.User").
		First(&shift, "id = ?", shiftID).Error
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if _, _, _, err := h.groupContext(shift.GroupID, currentUserID(c)); err != nil {
		h.respondGroupAccess(c, err)
		return
	}

	for i := range shift.Positions {
		shift.Positions[i].VolunteersCount = len(shift.Positions[i].Volunteers)
	}
	respondData(c, http.StatusOK, shift)
}
