package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnavshah/volunteer-hub-go/pkg/auth"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
	"github.com/arnavshah/volunteer-hub-go/pkg/workflow"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Workflow *workflow.Service
}

// New creates a handler with its workflow service.
func New(db *gorm.DB) *Handler {
	return &Handler{DB: db, Workflow: workflow.NewService(db)}
}

const ctxUserID = "userID"

// AuthMiddleware verifies the JWT token and stores the caller's user ID
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			respondError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		userID, err := auth.VerifyToken(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) uuid.UUID {
	raw, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil
	}
	return raw.(uuid.UUID)
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// respondData wraps every successful payload in the envelope the clients
// expect: {success, data}.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondDomainError maps workflow and persistence errors onto HTTP
// statuses: validation 400, missing rows 404, conflicts 409.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrInvalidTimeRange),
		errors.Is(err, workflow.ErrNoPositions),
		errors.Is(err, workflow.ErrInvalidHeadcount),
		errors.Is(err, workflow.ErrDuplicatePosition),
		errors.Is(err, workflow.ErrUnknownPosition):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrAlreadySignedUp),
		errors.Is(err, workflow.ErrPositionFull),
		errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrPositionInUse),
		errors.Is(err, workflow.ErrShiftCancelled):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "not found")
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

// organizationRole returns the caller's membership row in an organization.
func (h *Handler) organizationRole(orgID, userID uuid.UUID) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	err := h.DB.First(&member, "organization_id = ? AND user_id = ?", orgID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// groupContext resolves a group plus the caller's organization and group
// roles in one go. A missing group role comes back as the empty string;
// a caller outside the owning organization gets ErrRecordNotFound.
func (h *Handler) groupContext(groupID, userID uuid.UUID) (*models.Group, models.OrganizationRole, models.GroupRole, error) {
	var group models.Group
	if err := h.DB.First(&group, "id = ?", groupID).Error; err != nil {
		return nil, "", "", err
	}

	member, err := h.organizationRole(group.OrganizationID, userID)
	if err != nil {
		return nil, "", "", err
	}

	var gu models.GroupUser
	groupRole := models.GroupRole("")
	if err := h.DB.First(&gu, "group_id = ? AND user_id = ?", groupID, userID).Error; err == nil {
		groupRole = gu.Role
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}

	return &group, member.Role, groupRole, nil
}
