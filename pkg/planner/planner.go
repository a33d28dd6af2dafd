// Package planner suggests volunteers for unfilled shift position slots.
// Suggestions are advisory: nothing here touches the database, the caller
// decides whether to turn a suggestion into a real signup.
package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Volunteer is one candidate for open slots, with the hours they already
// carry from active signups.
type Volunteer struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	MaxHours       float64     `json:"max_hours"`
	AssignedHours  float64     `json:"assigned_hours"`
	AssignedShifts []uuid.UUID `json:"assigned_shifts"`
}

// OpenSlot is one unfilled unit of a shift position's headcount.
type OpenSlot struct {
	ShiftID         uuid.UUID `json:"shift_id"`
	ShiftPositionID uuid.UUID `json:"shift_position_id"`
	PositionName    string    `json:"position_name"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Needed          int       `json:"needed"`
}

// Suggestion pairs a volunteer with a slot.
type Suggestion struct {
	ShiftID         uuid.UUID `json:"shift_id"`
	ShiftPositionID uuid.UUID `json:"shift_position_id"`
	PositionName    string    `json:"position_name"`
	UserID          uuid.UUID `json:"user_id"`
	UserName        string    `json:"user_name"`
}

// Conflict explains why a slot could not be filled.
type Conflict struct {
	ShiftID         uuid.UUID `json:"shift_id"`
	ShiftPositionID uuid.UUID `json:"shift_position_id"`
	PositionName    string    `json:"position_name"`
	Reasons         []string  `json:"reasons"`
}

// Plan is the result of one planning pass.
type Plan struct {
	Suggestions   []Suggestion `json:"suggestions"`
	Conflicts     []Conflict   `json:"conflicts,omitempty"`
	FairnessScore float64      `json:"fairness_score"`
}

// Planner assigns volunteers to open slots greedily, fewest assigned
// hours first.
type Planner struct {
	Volunteers map[uuid.UUID]*Volunteer
	shiftSpans map[uuid.UUID][2]time.Time
}

// New creates a planner over the given candidates. shiftSpans maps every
// shift a volunteer may already be assigned to onto its time window, so
// overlaps can be detected.
func New(volunteers []*Volunteer, shiftSpans map[uuid.UUID][2]time.Time) *Planner {
	vols := make(map[uuid.UUID]*Volunteer, len(volunteers))
	for _, v := range volunteers {
		vols[v.ID] = v
	}
	return &Planner{Volunteers: vols, shiftSpans: shiftSpans}
}

func overlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func (p *Planner) wouldOverlap(v *Volunteer, slot OpenSlot) bool {
	for _, shiftID := range v.AssignedShifts {
		if shiftID == slot.ShiftID {
			return true
		}
		span, ok := p.shiftSpans[shiftID]
		if ok && overlap(span[0], span[1], slot.Start, slot.End) {
			return true
		}
	}
	return false
}

// Fill expands the slots by their needed counts and assigns the volunteer
// with the fewest hours who fits each one, recording a conflict with
// reasons whenever nobody fits.
func (p *Planner) Fill(slots []OpenSlot) *Plan {
	plan := &Plan{}

	var expanded []OpenSlot
	for _, slot := range slots {
		for i := 0; i < slot.Needed; i++ {
			expanded = append(expanded, slot)
		}
	}

	for _, slot := range expanded {
		duration := slot.End.Sub(slot.Start).Hours()

		var best *Volunteer
		minHours := -1.0

		maxHoursCount := 0
		overlapCount := 0

		for _, vol := range p.Volunteers {
			fitsHours := vol.AssignedHours+duration <= vol.MaxHours
			noOverlap := !p.wouldOverlap(vol, slot)

			if fitsHours && noOverlap {
				if best == nil || vol.AssignedHours < minHours {
					best = vol
					minHours = vol.AssignedHours
				}
			} else {
				if !fitsHours {
					maxHoursCount++
				}
				if !noOverlap {
					overlapCount++
				}
			}
		}

		if best != nil {
			best.AssignedHours += duration
			best.AssignedShifts = append(best.AssignedShifts, slot.ShiftID)
			p.shiftSpans[slot.ShiftID] = [2]time.Time{slot.Start, slot.End}
			plan.Suggestions = append(plan.Suggestions, Suggestion{
				ShiftID:         slot.ShiftID,
				ShiftPositionID: slot.ShiftPositionID,
				PositionName:    slot.PositionName,
				UserID:          best.ID,
				UserName:        best.Name,
			})
			continue
		}

		var reasons []string
		if maxHoursCount > 0 {
			reasons = append(reasons, fmt.Sprintf("%d volunteers were at max hours", maxHoursCount))
		}
		if overlapCount > 0 {
			reasons = append(reasons, fmt.Sprintf("%d volunteers had overlapping shifts", overlapCount))
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "no volunteers available in this group")
		}
		plan.Conflicts = append(plan.Conflicts, Conflict{
			ShiftID:         slot.ShiftID,
			ShiftPositionID: slot.ShiftPositionID,
			PositionName:    slot.PositionName,
			Reasons:         reasons,
		})
	}

	plan.FairnessScore = p.fairnessScore()
	return plan
}

// fairnessScore returns a percentage (0-100) of how evenly hours are
// spread across the candidates. 100 means a standard deviation of zero.
func (p *Planner) fairnessScore() float64 {
	if len(p.Volunteers) == 0 {
		return 100.0
	}

	var sum float64
	for _, v := range p.Volunteers {
		sum += v.AssignedHours
	}
	if sum == 0 {
		return 100.0
	}

	mean := sum / float64(len(p.Volunteers))
	var varianceSum float64
	for _, v := range p.Volunteers {
		diff := v.AssignedHours - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(p.Volunteers)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
