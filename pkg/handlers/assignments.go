package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arnavshah/volunteer-hub-go/pkg/authz"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

type applyRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// Apply signs the caller up for a shift position. Group membership is
// required; the signup starts PENDING.
func (h *Handler) Apply(c *gin.Context) {
	spID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req applyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	sp, shift, err := h.shiftPositionContext(spID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	userID := currentUserID(c)
	_, _, groupRole, err := h.groupContext(shift.GroupID, userID)
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if groupRole == "" {
		respondError(c, http.StatusForbidden, "join the group before signing up")
		return
	}

	sv, err := h.Workflow.Apply(userID, sp.ID, req.Notes)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, sv)
}

// ConfirmAssignment approves a pending signup. Coordinator-tier required.
func (h *Handler) ConfirmAssignment(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sv, shift, err := h.assignmentContext(assignmentID)
	if err != nil {
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

	confirmed, err := h.Workflow.Confirm(sv.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, confirmed)
}

// CancelAssignment cancels a signup. Volunteers may cancel their own;
// coordinator-tier roles may cancel anyone's in their group.
func (h *Handler) CancelAssignment(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sv, shift, err := h.assignmentContext(assignmentID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	userID := currentUserID(c)
	if sv.UserID != userID {
		_, orgRole, groupRole, err := h.groupContext(shift.GroupID, userID)
		if err != nil {
			h.respondGroupAccess(c, err)
			return
		}
		if !authz.CanManageGroup(orgRole, groupRole) {
			respondError(c, http.StatusForbidden, "insufficient permissions")
			return
		}
	}

	cancelled, err := h.Workflow.Cancel(sv.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, cancelled)
}

// RecountShiftPosition reconciles a cached volunteer count from the live
// signup rows. Coordinator-tier required.
func (h *Handler) RecountShiftPosition(c *gin.Context) {
	spID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sp, shift, err := h.shiftPositionContext(spID)
	if err != nil {
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

	count, err := h.Workflow.Recount(sp.ID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"shift_position_id": sp.ID, "volunteers_count": count})
}

// ListAssignments returns signups filtered by shift_id, shift_position_id
// or mine=1. Listing another scope requires coordinator-tier in the group.
func (h *Handler) ListAssignments(c *gin.Context) {
	userID := currentUserID(c)

	if c.Query("mine") == "1" {
		var mine []models.ShiftVolunteer
		if err := h.DB.Where("user_id = ?", userID).Order("applied_at DESC").Find(&mine).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "could not list assignments")
			return
		}
		respondData(c, http.StatusOK, mine)
		return
	}

	var groupID uuid.UUID
	query := h.DB.Preload("User").Order("applied_at")

	switch {
	case c.Query("shift_id") != "":
		shiftID, err := uuid.Parse(c.Query("shift_id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid shift_id")
			return
		}
		var shift models.Shift
		if err := h.DB.First(&shift, "id = ?", shiftID).Error; err != nil {
			respondDomainError(c, err)
			return
		}
		groupID = shift.GroupID
		query = query.Where("shift_position_id IN (?)",
			h.DB.Model(&models.ShiftPosition{}).Select("id").Where("shift_id = ?", shiftID))
	case c.Query("shift_position_id") != "":
		spID, err := uuid.Parse(c.Query("shift_position_id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid shift_position_id")
			return
		}
		_, shift, err := h.shiftPositionContext(spID)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		groupID = shift.GroupID
		query = query.Where("shift_position_id = ?", spID)
	default:
		respondError(c, http.StatusBadRequest, "shift_id, shift_position_id or mine=1 required")
		return
	}

	_, orgRole, groupRole, err := h.groupContext(groupID, userID)
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.CanManageGroup(orgRole, groupRole) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	var assignments []models.ShiftVolunteer
	if err := query.Find(&assignments).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not list assignments")
		return
	}
	respondData(c, http.StatusOK, assignments)
}

func (h *Handler) shiftPositionContext(spID uuid.UUID) (*models.ShiftPosition, *models.Shift, error) {
	var sp models.ShiftPosition
	if err := h.DB.First(&sp, "id = ?", spID).Error; err != nil {
		return nil, nil, err
	}
	var shift models.Shift
	if err := h.DB.First(&shift, "id = ?", sp.ShiftID).Error; err != nil {
		return nil, nil, err
	}
	return &sp, &shift, nil
}

func (h *Handler) assignmentContext(assignmentID uuid.UUID) (*models.ShiftVolunteer, *models.Shift, error) {
	var sv models.ShiftVolunteer
	if err := h.DB.First(&sv, "id = ?", assignmentID).Error; err != nil {
		return nil, nil, err
	}
	var sp models.ShiftPosition
	if err := h.DB.First(&sp, "id = ?", sv.ShiftPositionID).Error; err != nil {
		return nil, nil, err
	}
	var shift models.Shift
	if err := h.DB.First(&shift, "id = ?", sp.ShiftID).Error; err != nil {
		return nil, nil, err
	}
	return &sv, &shift, nil
}
