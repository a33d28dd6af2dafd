package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

// Dashboard returns the caller's summary: how many groups they belong
// to, how many upcoming shifts those groups have, how many of those the
// caller is confirmed on, and how many of their signups still await a
// decision.
func (h *Handler) Dashboard(c *gin.Context) {
	userID := currentUserID(c)
	now := time.Now().UTC()

	myGroups := h.DB.Model(&models.GroupUser{}).Select("group_id").Where("user_id = ?", userID)

	var totalGroups int64
	if err := h.DB.Model(&models.GroupUser{}).Where("user_id = ?", userID).Count(&totalGroups).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not build dashboard")
		return
	}

	var totalUpcomingShifts int64
	if err := h.DB.Model(&models.Shift{}).
		Where("group_id IN (?) AND start >= ? AND status <> ?", myGroups, now, models.ShiftCancelled).
		Count(&totalUpcomingShifts).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not build dashboard")
		return
	}

	upcomingShiftIDs := h.DB.Model(&models.Shift{}).Select("id").
		Where("group_id IN (?) AND start >= ? AND status <> ?", myGroups, now, models.ShiftCancelled)
	upcomingSPs := h.DB.Model(&models.ShiftPosition{}).Select("id").
		Where("shift_id IN (?)", upcomingShiftIDs)

	var myUpcomingShifts int64
	if err := h.DB.Model(&models.ShiftVolunteer{}).
		Where("user_id = ? AND status = ? AND shift_position_id IN (?)",
			userID, models.VolunteerConfirmed, upcomingSPs).
		Count(&myUpcomingShifts).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not build dashboard")
		return
	}

	var pendingSignups int64
	if err := h.DB.Model(&models.ShiftVolunteer{}).
		Where("user_id = ? AND status = ?", userID, models.VolunteerPending).
		Count(&pendingSignups).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not build dashboard")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"total_groups":          totalGroups,
		"total_upcoming_shifts": totalUpcomingShifts,
		"my_upcoming_shifts":    myUpcomingShifts,
		"pending_signups":       pendingSignups,
	})
}
