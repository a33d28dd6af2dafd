package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnavshah/volunteer-hub-go/pkg/authz"
	"github.com/arnavshah/volunteer-hub-go/pkg/calendar"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

// ListGroups returns every group in an organization to its members.
func (h *Handler) ListGroups(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.organizationRole(orgID, currentUserID(c)); err != nil {
		respondError(c, http.StatusForbidden, "not a member of this organization")
		return
	}

	var groups []models.Group
	if err := h.DB.Where("organization_id = ?", orgID).Order("name").Find(&groups).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not list groups")
		return
	}
	respondData(c, http.StatusOK, groups)
}

type groupRequest struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name" binding:"required,max=100"`
	Description    string    `json:"description"`
	Color          string    `json:"color" binding:"omitempty,max=20"`
	Icon           string    `json:"icon" binding:"omitempty,max=50"`
}

// CreateGroup creates a group inside an organization. Requires a
// leader-tier organization role; the creator becomes GROUP_LEADER.
func (h *Handler) CreateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.OrganizationID == uuid.Nil {
		respondError(c, http.StatusBadRequest, "organization_id is required")
		return
	}

	userID := currentUserID(c)
	member, err := h.organizationRole(req.OrganizationID, userID)
	if err != nil || !authz.IsOrganizationLeader(member.Role) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	group := models.Group{
		OrganizationID: req.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Color:          req.Color,
		Icon:           req.Icon,
		CreatedByID:    userID,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		gu := models.GroupUser{
			UserID:   userID,
			GroupID:  group.ID,
			Role:     models.GroupRoleLeader,
			JoinedAt: time.Now().UTC(),
		}
		return tx.Create(&gu).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create group")
		return
	}
	respondData(c, http.StatusCreated, group)
}

// GetGroup returns a group with its positions to organization members.
func (h *Handler) GetGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, _, err := h.groupContext(groupID, currentUserID(c)); err != nil {
		h.respondGroupAccess(c, err)
		return
	}

	var group models.Group
	if err := h.DB.Preload("Positions").First(&group, "id = ?", groupID).Error; err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, group)
}

// UpdateGroup changes group details. Coordinator-tier group role or a
// leader-tier organization role required.
func (h *Handler) UpdateGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	group, orgRole, groupRole, err := h.groupContext(groupID, currentUserID(c))
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.CanManageGroup(orgRole, groupRole) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	group.Name = strings.TrimSpace(req.Name)
	group.Description = req.Description
	group.Color = req.Color
	group.Icon = req.Icon
	if err := h.DB.Save(group).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not update group")
		return
	}
	respondData(c, http.StatusOK, group)
}

// DeleteGroup removes a group and everything under it. Organization
// admins and the group leader only.
func (h *Handler) DeleteGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	_, orgRole, groupRole, err := h.groupContext(groupID, currentUserID(c))
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.CanDeleteGroup(orgRole, groupRole) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		shiftIDs := tx.Model(&models.Shift{}).Select("id").Where("group_id = ?", groupID)
		spIDs := tx.Model(&models.ShiftPosition{}).Select("id").Where("shift_id IN (?)", shiftIDs)
		if err := tx.Where("shift_position_id IN (?)", spIDs).Delete(&models.ShiftVolunteer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shift_id IN (?)", tx.Model(&models.Shift{}).Select("id").Where("group_id = ?", groupID)).
			Delete(&models.ShiftPosition{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.Shift{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.Position{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, "id = ?", groupID).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not delete group")
		return
	}
	respondMessage(c, http.StatusOK, "group deleted")
}

// ListGroupMembers returns the group's member list.
func (h *Handler) ListGroupMembers(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, _, err := h.groupContext(groupID, currentUserID(c)); err != nil {
		h.respondGroupAccess(c, err)
		return
	}

	var members []models.GroupUser
	if err := h.DB.Preload("User").Where("group_id = ?", groupID).
		Order("joined_at").Find(&members).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not list members")
		return
	}
	respondData(c, http.StatusOK, members)
}

// JoinGroup adds the caller to a group as VOLUNTEER. Organization
// membership is required.
func (h *Handler) JoinGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := currentUserID(c)
	_, _, groupRole, err := h.groupContext(groupID, userID)
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if groupRole != "" {
		respondError(c, http.StatusConflict, "already a member")
		return
	}

	gu := models.GroupUser{
		UserID:   userID,
		GroupID:  groupID,
		Role:     models.GroupRoleVolunteer,
		JoinedAt: time.Now().UTC(),
	}
	if err := h.DB.Create(&gu).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not join group")
		return
	}
	respondData(c, http.StatusCreated, gu)
}

// LeaveGroup removes the caller's group membership.
func (h *Handler) LeaveGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := h.DB.Where("group_id = ? AND user_id = ?", groupID, currentUserID(c)).
		Delete(&models.GroupUser{})
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, "could not leave group")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "not a member")
		return
	}
	respondMessage(c, http.StatusOK, "left group")
}

type updateGroupMemberRoleRequest struct {
	Role models.GroupRole `json:"role" binding:"required"`
}

// UpdateGroupMemberRole changes a group member's role. Group leader or
// organization admin only; self-changes are rejected.
func (h *Handler) UpdateGroupMemberRole(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req updateGroupMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Role.Valid() {
		respondError(c, http.StatusBadRequest, "invalid role")
		return
	}

	userID := currentUserID(c)
	if targetID == userID {
		respondError(c, http.StatusForbidden, "cannot change your own role")
		return
	}

	_, orgRole, groupRole, err := h.groupContext(groupID, userID)
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.IsOrganizationAdmin(orgRole) && groupRole != models.GroupRoleLeader {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	var target models.GroupUser
	if err := h.DB.First(&target, "group_id = ? AND user_id = ?", groupID, targetID).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	target.Role = req.Role
	if err := h.DB.Save(&target).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not update role")
		return
	}
	respondData(c, http.StatusOK, target)
}

// RemoveGroupMember removes another member from a group. Group leader or
// organization admin only; use leave for removing oneself.
func (h *Handler) RemoveGroupMember(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	userID := currentUserID(c)
	if targetID == userID {
		respondError(c, http.StatusForbidden, "use leave to remove yourself")
		return
	}

	_, orgRole, groupRole, err := h.groupContext(groupID, userID)
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.IsOrganizationAdmin(orgRole) && groupRole != models.GroupRoleLeader {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	result := h.DB.Where("group_id = ? AND user_id = ?", groupID, targetID).
		Delete(&models.GroupUser{})
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, "could not remove member")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "not a member")
		return
	}
	respondMessage(c, http.StatusOK, "member removed")
}

// GroupCalendar returns the six week month grid with the group's shifts
// bucketed onto their days. The month query parameter is YYYY-MM and
// defaults to the current month.
func (h *Handler) GroupCalendar(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, _, _, err := h.groupContext(groupID, currentUserID(c)); err != nil {
		h.respondGroupAccess(c, err)
		return
	}

	ref := time.Now().UTC()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		ref = parsed
	}

	// Pull everything the grid can show: the padded range is at most
	// one week either side of the month.
	from := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -7)
	to := from.AddDate(0, 0, calendar.GridCells+14)

	var shifts []models.Shift
	if err := h.DB.Where("group_id = ? AND start >= ? AND start < ?", groupID, from, to).
		Order("start").Find(&shifts).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not load shifts")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"month": ref.Format("2006-01"),
		"cells": calendar.BuildMonthGrid(ref, shifts),
	})
}

func (h *Handler) respondGroupAccess(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusForbidden, "group access denied")
		return
	}
	respondDomainError(c, err)
}
