package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotAt(start time.Time, hours int, needed int) OpenSlot {
	return OpenSlot{
		ShiftID:         uuid.New(),
		ShiftPositionID: uuid.New(),
		PositionName:    "Usher",
		Start:           start,
		End:             start.Add(time.Duration(hours) * time.Hour),
		Needed:          needed,
	}
}

func TestFillPrefersFewestHours(t *testing.T) {
	rested := &Volunteer{ID: uuid.New(), Name: "Rested", MaxHours: 10, AssignedHours: 0}
	busy := &Volunteer{ID: uuid.New(), Name: "Busy", MaxHours: 10, AssignedHours: 6}

	p := New([]*Volunteer{rested, busy}, map[uuid.UUID][2]time.Time{})
	plan := p.Fill([]OpenSlot{slotAt(time.Now(), 2, 1)})

	require.Len(t, plan.Suggestions, 1)
	assert.Equal(t, "Rested", plan.Suggestions[0].UserName)
	assert.Equal(t, 2.0, rested.AssignedHours)
}

func TestFillRespectsMaxHours(t *testing.T) {
	v := &Volunteer{ID: uuid.New(), Name: "Capped", MaxHours: 1}

	p := New([]*Volunteer{v}, map[uuid.UUID][2]time.Time{})
	plan := p.Fill([]OpenSlot{slotAt(time.Now(), 2, 1)})

	assert.Empty(t, plan.Suggestions)
	require.Len(t, plan.Conflicts, 1)
	assert.Contains(t, plan.Conflicts[0].Reasons[0], "max hours")
}

func TestFillAvoidsOverlaps(t *testing.T) {
	start := time.Now()
	v := &Volunteer{ID: uuid.New(), Name: "Solo", MaxHours: 40}

	p := New([]*Volunteer{v}, map[uuid.UUID][2]time.Time{})
	first := slotAt(start, 2, 1)
	second := slotAt(start.Add(time.Hour), 2, 1) // overlaps the first

	plan := p.Fill([]OpenSlot{first, second})

	require.Len(t, plan.Suggestions, 1)
	require.Len(t, plan.Conflicts, 1)
	assert.Contains(t, plan.Conflicts[0].Reasons[0], "overlapping")
}

func TestFillNeverDoublesUpOnOneShift(t *testing.T) {
	a := &Volunteer{ID: uuid.New(), Name: "A", MaxHours: 40}
	b := &Volunteer{ID: uuid.New(), Name: "B", MaxHours: 40}

	slot := slotAt(time.Now(), 2, 2)
	p := New([]*Volunteer{a, b}, map[uuid.UUID][2]time.Time{})
	plan := p.Fill([]OpenSlot{slot})

	require.Len(t, plan.Suggestions, 2)
	assert.NotEqual(t, plan.Suggestions[0].UserID, plan.Suggestions[1].UserID)
}

func TestFillReportsEmptyGroup(t *testing.T) {
	p := New(nil, map[uuid.UUID][2]time.Time{})
	plan := p.Fill([]OpenSlot{slotAt(time.Now(), 2, 1)})

	require.Len(t, plan.Conflicts, 1)
	assert.Equal(t, []string{"no volunteers available in this group"}, plan.Conflicts[0].Reasons)
	assert.Equal(t, 100.0, plan.FairnessScore)
}

func TestFairnessScore(t *testing.T) {
	even1 := &Volunteer{ID: uuid.New(), MaxHours: 40, AssignedHours: 4}
	even2 := &Volunteer{ID: uuid.New(), MaxHours: 40, AssignedHours: 4}

	p := New([]*Volunteer{even1, even2}, map[uuid.UUID][2]time.Time{})
	plan := p.Fill(nil)
	assert.Equal(t, 100.0, plan.FairnessScore)
}
