package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arnavshah/volunteer-hub-go/pkg/authz"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
	"github.com/arnavshah/volunteer-hub-go/pkg/planner"
)

const defaultPlanMaxHours = 40.0

// PlanGroup suggests volunteers for the group's unfilled upcoming slots.
// Nothing is persisted; coordinators review the suggestions and confirm
// signups through the normal workflow. The max_hours query parameter
// caps how many suggested hours any one volunteer can carry.
func (h *Handler) PlanGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	_, orgRole, groupRole, err := h.groupContext(groupID, currentUserID(c))
	if err != nil {
		h.respondGroupAccess(c, err)
		return
	}
	if !authz.CanManageGroup(orgRole, groupRole) {
		respondError(c, http.StatusForbidden, "insufficient permissions")
		return
	}

	maxHours := defaultPlanMaxHours
	if raw := c.Query("max_hours"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "max_hours must be a positive number")
			return
		}
		maxHours = parsed
	}

	now := time.Now().UTC()

	var shifts []models.Shift
	if err := h.DB.Preload("Positions.Position").
		Where("group_id = ? AND start >= ? AND status <> ?", groupID, now, models.ShiftCancelled).
		Order("start").Find(&shifts).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not load shifts")
		return
	}

	shiftSpans := make(map[uuid.UUID][2]time.Time, len(shifts))
	var slots []planner.OpenSlot
	for _, shift := range shifts {
		shiftSpans[shift.ID] = [2]time.Time{shift.Start, shift.End}
		for _, sp := range shift.Positions {
			if needed := sp.RequiredCount - sp.VolunteersCount; needed > 0 {
				slots = append(slots, planner.OpenSlot{
					ShiftID:         shift.ID,
					ShiftPositionID: sp.ID,
					PositionName:    sp.Position.Name,
					Start:           shift.Start,
					End:             shift.End,
					Needed:          needed,
				})
			}
		}
	}

	var members []models.GroupUser
	if err := h.DB.Preload("User").Where("group_id = ?", groupID).Find(&members).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not load members")
		return
	}

	candidates := make([]*planner.Volunteer, 0, len(members))
	for _, m := range members {
		vol := &planner.Volunteer{
			ID:       m.UserID,
			Name:     m.User.Name,
			MaxHours: maxHours,
		}

		// Seed with the member's existing active signups so the plan
		// neither double-books them nor ignores hours they already carry.
		var active []models.ShiftVolunteer
		if err := h.DB.Where("user_id = ? AND status IN ?", m.UserID,
			[]models.VolunteerStatus{models.VolunteerPending, models.VolunteerConfirmed}).
			Find(&active).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "could not load signups")
			return
		}
		for _, sv := range active {
			var sp models.ShiftPosition
			if err := h.DB.First(&sp, "id = ?", sv.ShiftPositionID).Error; err != nil {
				continue
			}
			var shift models.Shift
			if err := h.DB.First(&shift, "id = ?", sp.ShiftID).Error; err != nil {
				continue
			}
			vol.AssignedShifts = append(vol.AssignedShifts, shift.ID)
			vol.AssignedHours += shift.End.Sub(shift.Start).Hours()
			shiftSpans[shift.ID] = [2]time.Time{shift.Start, shift.End}
		}
		candidates = append(candidates, vol)
	}

	plan := planner.New(candidates, shiftSpans).Fill(slots)
	respondData(c, http.StatusOK, plan)
}
