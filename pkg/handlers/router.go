package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register wires every route onto the engine. Both the standalone server
// and the serverless entry point call this, so the route table lives in
// exactly one place.
func Register(r *gin.Engine, h *Handler) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Volunteer Hub API",
			"version": "1.0.0",
		})
	})

	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)

	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/user/me", h.GetMe)
		api.PUT("/user/me", h.UpdateMe)

		api.GET("/dashboard", h.Dashboard)

		api.POST("/organizations", h.CreateOrganization)
		api.GET("/organizations", h.ListOrganizations)
		api.GET("/organizations/available", h.ListAvailableOrganizations)
		api.GET("/organizations/:id", h.GetOrganization)
		api.PUT("/organizations/:id", h.UpdateOrganization)
		api.DELETE("/organizations/:id", h.DeleteOrganization)
		api.POST("/organizations/:id/join", h.JoinOrganization)
		api.POST("/organizations/:id/leave", h.LeaveOrganization)
		api.GET("/organizations/:id/members", h.ListOrganizationMembers)
		api.PUT("/organizations/:id/members/:userId", h.UpdateOrganizationMemberRole)
		api.DELETE("/organizations/:id/members/:userId", h.RemoveOrganizationMember)
		api.POST("/organizations/:id/invites", h.CreateOrganizationInvite)
		api.GET("/organizations/:id/groups", h.ListGroups)

		api.POST("/groups", h.CreateGroup)
		api.GET("/groups/:id", h.GetGroup)
		api.PUT("/groups/:id", h.UpdateGroup)
		api.DELETE("/groups/:id", h.DeleteGroup)
		api.GET("/groups/:id/members", h.ListGroupMembers)
		api.POST("/groups/:id/join", h.JoinGroup)
		api.POST("/groups/:id/leave", h.LeaveGroup)
		api.PUT("/groups/:id/members/:userId", h.UpdateGroupMemberRole)
		api.DELETE("/groups/:id/members/:userId", h.RemoveGroupMember)
		api.GET("/groups/:id/positions", h.ListPositions)
		api.GET("/groups/:id/shifts", h.ListShifts)
		api.GET("/groups/:id/calendar", h.GroupCalendar)
		api.GET("/groups/:id/plan", h.PlanGroup)

		api.POST("/positions", h.CreatePosition)
		api.GET("/positions/:id", h.GetPosition)
		api.PUT("/positions/:id", h.UpdatePosition)
		api.DELETE("/positions/:id", h.DeletePosition)

		api.POST("/shifts", h.CreateShift)
		api.GET("/shifts/:id", h.GetShift)
		api.PUT("/shifts/:id", h.UpdateShift)
		api.PUT("/shifts/:id/cancel", h.CancelShift)
		api.GET("/shifts/:id/complete-view", h.ShiftCompleteView)

		api.POST("/shift-positions/:id/apply", h.Apply)
		api.POST("/shift-positions/:id/recount", h.RecountShiftPosition)
		api.PUT("/assignments/:id/confirm", h.ConfirmAssignment)
		api.PUT("/assignments/:id/cancel", h.CancelAssignment)
		api.GET("/assignments", h.ListAssignments)
	}
}
