package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arnavshah/volunteer-hub-go/pkg/auth"
	"github.com/arnavshah/volunteer-hub-go/pkg/authz"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

type organizationRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone" binding:"omitempty,max=30"`
}

// CreateOrganization creates an organization and makes the caller its OWNER.
func (h *Handler) CreateOrganization(c *gin.Context) {
	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := currentUserID(c)
	org := models.Organization{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		CreatedByID:  userID,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		member := models.OrganizationMember{
			UserID:         userID,
			OrganizationID: org.ID,
			Role:           models.OrgRoleOwner,
			JoinedAt:       time.Now().UTC(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create organization")
		return
	}

	respondData(c, http.StatusCreated, org)
}

// ListOrganizations returns the organizations the caller belongs to.
func (h *Handler) ListOrganizations(c *gin.Context) {
	var orgs []models.Organization
	err := h.DB.
		Joins("JOIN organization_members ON organization_members.organization_id = organizations.id").
		Where("organization_members.user_id = ?", currentUserID(c)).
		Order("organizations.created_at DESC").
		Find(&orgs).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list organizations")
		return
	}
	respondData(c, http.StatusOK, orgs)
}

// ListAvailableOrganizations returns organizations the caller has not
// joined yet.
func (h *Handler) ListAvailableOrganizations(c *gin.Context) {
	memberOf := h.DB.Model(&models.OrganizationMember{}).
		Select("organization_id").
		Where("user_id = ?", currentUserID(c))

	var orgs []models.Organization
	if err := h.DB.Where("id NOT IN (?)", memberOf).Order("name").Find(&orgs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not list organizations")
		return
	}
	respondData(c, http.StatusOK, orgs)
}

// GetOrganization returns one organization to a member.
func (h *Handler) GetOrganization(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.organizationRole(orgID, currentUserID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusForbidden, "not a member of this organization")
			return
		}
		respondDomainError(c, err)
		return
	}

	var org models.Organization
	if err := h.DB.Preload("Groups").First(&org, "id = ?", orgID).Error; err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, org)
}

// UpdateOrganization lets an organization admin change its details.
func (h *Handler) UpdateOrganization(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := h.organizationRole(orgID, currentUserID(c))
	if err != nil || !authz.IsOrganizationAdmin(member.Role) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var org models.Organization
	if err := h.DB.First(&org, "id = ?", orgID).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	org.Name = strings.TrimSpace(req.Name)
	org.Description = req.Description
	org.ContactEmail = req.ContactEmail
	org.ContactPhone = req.ContactPhone
	if err := h.DB.Save(&org).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not update organization")
		return
	}
	respondData(c, http.StatusOK, org)
}

// DeleteOrganization removes an organization and everything under it:
// groups, positions, shifts and signups. Only the OWNER may do this.
func (h *Handler) DeleteOrganization(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := h.organizationRole(orgID, currentUserID(c))
	if err != nil || member.Role != models.OrgRoleOwner {
		respondError(c, http.StatusForbidden, "only the owner can delete the organization")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		orgGroups := func() *gorm.DB {
			return tx.Model(&models.Group{}).Select("id").Where("organization_id = ?", orgID)
		}
		orgShifts := func() *gorm.DB {
			return tx.Model(&models.Shift{}).Select("id").Where("group_id IN (?)", orgGroups())
		}
		orgSPs := tx.Model(&models.ShiftPosition{}).Select("id").Where("shift_id IN (?)", orgShifts())

		if err := tx.Where("shift_position_id IN (?)", orgSPs).Delete(&models.ShiftVolunteer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shift_id IN (?)", orgShifts()).Delete(&models.ShiftPosition{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id IN (?)", orgGroups()).Delete(&models.Shift{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id IN (?)", orgGroups()).Delete(&models.Position{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id IN (?)", orgGroups()).Delete(&models.GroupUser{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", orgID).Delete(&models.Group{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", orgID).Delete(&models.OrganizationMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Organization{}, "id = ?", orgID).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not delete organization")
		return
	}
	respondMessage(c, http.StatusOK, "organization deleted")
}

type joinOrganizationRequest struct {
	InviteCode string `json:"invite_code"`
}

// JoinOrganization adds the caller as a member. Without an invite code
// the role is MEMBER; a valid invite code grants the role it encodes.
func (h *Handler) JoinOrganization(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req joinOrganizationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	role := models.OrgRoleMember
	if req.InviteCode != "" {
		inviteOrg, inviteRole, err := auth.VerifyInviteCode(req.InviteCode)
		if err != nil || inviteOrg != orgID {
			respondError(c, http.StatusBadRequest, "invalid invite code")
			return
		}
		role = inviteRole
	}

	var org models.Organization
	if err := h.DB.First(&org, "id = ?", orgID).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	userID := currentUserID(c)
	if _, err := h.organizationRole(orgID, userID); err == nil {
		respondError(c, http.StatusConflict, "already a member")
		return
	}

	member := models.OrganizationMember{
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	}
	if err := h.DB.Create(&member).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not join organization")
		return
	}
	respondData(c, http.StatusCreated, member)
}

// LeaveOrganization removes the caller's membership. The OWNER cannot
// leave; ownership must be handed over by deleting the organization.
func (h *Handler) LeaveOrganization(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := h.organizationRole(orgID, currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "not a member")
		return
	}
	if member.Role == models.OrgRoleOwner {
		respondError(c, http.StatusForbidden, "owner cannot leave the organization")
		return
	}

	if err := h.removeMembership(member); err != nil {
		respondError(c, http.StatusInternalServerError, "could not leave organization")
		return
	}
	respondMessage(c, http.StatusOK, "left organization")
}

// ListOrganizationMembers returns the member list to any member.
func (h *Handler) ListOrganizationMembers(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.organizationRole(orgID, currentUserID(c)); err != nil {
		respondError(c, http.StatusForbidden, "not a member of this organization")
		return
	}

	var members []models.OrganizationMember
	if err := h.DB.Preload("User").Where("organization_id = ?", orgID).
		Order("joined_at").Find(&members).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not list members")
		return
	}
	respondData(c, http.StatusOK, members)
}

type updateMemberRoleRequest struct {
	Role models.OrganizationRole `json:"role" binding:"required"`
}

// UpdateOrganizationMemberRole changes another member's role, subject to
// the role matrix. Changing one's own role is always rejected.
func (h *Handler) UpdateOrganizationMemberRole(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req updateMemberRoleRequest
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

	actor, err := h.organizationRole(orgID, userID)
	if err != nil {
		respondError(c, http.StatusForbidden, "not a member of this organization")
		return
	}

	var target models.OrganizationMember
	if err := h.DB.First(&target, "organization_id = ? AND user_id = ?", orgID, targetID).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	if !authz.CanChangeMemberRole(actor.Role, target.Role, req.Role) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	target.Role = req.Role
	if err := h.DB.Save(&target).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not update role")
		return
	}
	respondData(c, http.StatusOK, target)
}

// RemoveOrganizationMember removes another member, subject to the role
// matrix. Use leave for removing oneself.
func (h *Handler) RemoveOrganizationMember(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
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

	actor, err := h.organizationRole(orgID, userID)
	if err != nil {
		respondError(c, http.StatusForbidden, "not a member of this organization")
		return
	}

	var target models.OrganizationMember
	if err := h.DB.First(&target, "organization_id = ? AND user_id = ?", orgID, targetID).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	if !authz.CanRemoveMember(actor.Role, target.Role) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	if err := h.removeMembership(&target); err != nil {
		respondError(c, http.StatusInternalServerError, "could not remove member")
		return
	}
	respondMessage(c, http.StatusOK, "member removed")
}

// removeMembership drops an organization membership together with the
// user's memberships in that organization's groups. Signups stay; they
// are history, not access.
func (h *Handler) removeMembership(member *models.OrganizationMember) error {
	return h.DB.Transaction(func(tx *gorm.DB) error {
		orgGroups := tx.Model(&models.Group{}).Select("id").
			Where("organization_id = ?", member.OrganizationID)
		if err := tx.Where("user_id = ? AND group_id IN (?)", member.UserID, orgGroups).
			Delete(&models.GroupUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(member).Error
	})
}

type createInviteRequest struct {
	Role models.OrganizationRole `json:"role"`
}

// CreateOrganizationInvite issues a signed invite code for the
// organization. Admin only; OWNER cannot be granted by invite.
func (h *Handler) CreateOrganizationInvite(c *gin.Context) {
	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := h.organizationRole(orgID, currentUserID(c))
	if err != nil || !authz.IsOrganizationAdmin(member.Role) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req createInviteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Role == "" {
		req.Role = models.OrgRoleMember
	}
	if !req.Role.Valid() || req.Role == models.OrgRoleOwner {
		respondError(c, http.StatusBadRequest, "invalid role")
		return
	}

	code := auth.GenerateInviteCode(orgID, req.Role)
	respondData(c, http.StatusCreated, gin.H{"invite_code": code, "role": req.Role})
}
