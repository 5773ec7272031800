package interpret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msageha/planwright/internal/model"
	"github.com/msageha/planwright/internal/schedule"
)

func TestGenerateDiff_SetProgress(t *testing.T) {
	i := newInterpreter(t)

	diffs := i.GenerateDiff(i.ParseCommand("SW_IMPL is 75%"))
	require.Len(t, diffs, 1)
	assert.Equal(t, "SW_IMPL", diffs[0].TaskID)
	assert.Equal(t, "progress", diffs[0].Field)
	assert.Equal(t, 50, diffs[0].OldValue)
	assert.Equal(t, 75, diffs[0].NewValue)
	assert.Contains(t, diffs[0].Description, "50% -> 75%")
}

func TestGenerateDiff_QueriesAndUnknownProduceNothing(t *testing.T) {
	i := newInterpreter(t)

	assert.Nil(t, i.GenerateDiff(i.ParseCommand("show critical path")))
	assert.Nil(t, i.GenerateDiff(i.ParseCommand("foo bar baz")))
}

func TestGenerateDiff_MarkCompleteIsCompound(t *testing.T) {
	i := newInterpreter(t)

	diffs := i.GenerateDiff(i.ParseCommand("mark SW_DESIGN as complete"))
	require.Len(t, diffs, 2)
	assert.Equal(t, "progress", diffs[0].Field)
	assert.Equal(t, 100, diffs[0].NewValue)
	assert.Equal(t, "status", diffs[1].Field)
	assert.Equal(t, string(model.StatusComplete), diffs[1].NewValue)
}

func TestGenerateDiff_AddRiskForcesStatus(t *testing.T) {
	i := newInterpreter(t)

	diffs := i.GenerateDiff(i.ParseCommand("HW_PROTO is at risk: vendor delay"))
	require.Len(t, diffs, 2)
	assert.Equal(t, "status", diffs[0].Field)
	assert.Equal(t, string(model.StatusAtRisk), diffs[0].NewValue)
	assert.Equal(t, "status_note", diffs[1].Field)
	assert.Equal(t, "vendor delay", diffs[1].NewValue)
}

func TestGenerateDiff_ShortenFloorsAtZero(t *testing.T) {
	i := newInterpreter(t)

	diffs := i.GenerateDiff(i.ParseCommand("shorten SW_DESIGN by 99 days"))
	require.Len(t, diffs, 1)
	assert.Equal(t, 0, diffs[0].NewValue)
}

func TestGenerateDiff_AddDependencyAndLag(t *testing.T) {
	i := newInterpreter(t)

	diffs := i.GenerateDiff(i.ParseCommand("HW_PROTO depends on SW_DESIGN"))
	require.Len(t, diffs, 1)
	assert.Equal(t, "depends_on", diffs[0].Field)
	next := diffs[0].NewValue.([]model.DependencySpec)
	require.Len(t, next, 1)
	assert.Equal(t, "SW_DESIGN", next[0].ID)

	// Adding lag to an existing dependency updates it in place.
	diffs = i.GenerateDiff(i.ParseCommand("add 3 days lag after SW_DESIGN for SW_IMPL"))
	require.Len(t, diffs, 1)
	next = diffs[0].NewValue.([]model.DependencySpec)
	require.Len(t, next, 1)
	assert.Equal(t, model.DependencySpec{ID: "SW_DESIGN", Lag: 3}, next[0])
}

func TestGenerateDiff_ExistingDependencyIsNoop(t *testing.T) {
	i := newInterpreter(t)

	assert.Nil(t, i.GenerateDiff(i.ParseCommand("SW_IMPL depends on SW_DESIGN")))
}

func TestGenerateDiff_WhatIfCarriesImpact(t *testing.T) {
	i := newInterpreter(t)

	diffs := i.GenerateDiff(i.ParseCommand("what if SW_IMPL slips 1 week"))
	require.Len(t, diffs, 1)
	assert.Equal(t, "duration", diffs[0].Field)
	assert.Equal(t, 15, diffs[0].NewValue)
	assert.NotEmpty(t, diffs[0].Impact)
}

func TestApplyDiff_RoundTrip(t *testing.T) {
	i := newInterpreter(t)

	diffs := i.GenerateDiff(i.ParseCommand("SW_IMPL is 75%"))
	require.Len(t, diffs, 1)

	text, err := i.ApplyDiff(diffs)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(text), "progress: 75"))

	s, err := schedule.LoadAt(text, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 75, s.Tasks["SW_IMPL"].Progress)
}

func TestApplyDiff_MissingTaskIsNoop(t *testing.T) {
	i := newInterpreter(t)

	text, err := i.ApplyDiff([]Diff{{TaskID: "GONE", Field: "progress", NewValue: 10}})
	require.NoError(t, err)

	s, err := schedule.LoadAt(text, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 50, s.Tasks["SW_IMPL"].Progress)
}

func TestApplyDiff_Constraint(t *testing.T) {
	i := newInterpreter(t)

	diffs := i.GenerateDiff(i.ParseCommand("HW_PROTO cannot start before 2025-02-03"))
	require.Len(t, diffs, 1)

	text, err := i.ApplyDiff(diffs)
	require.NoError(t, err)

	s, err := schedule.LoadAt(text, fixedNow)
	require.NoError(t, err)
	hw := s.Tasks["HW_PROTO"]
	require.NotNil(t, hw.Constraint)
	assert.Equal(t, "2025-02-03", model.FormatDate(hw.Constraint.Date))
	require.NotNil(t, hw.StartDate)
	assert.Equal(t, "2025-02-03", model.FormatDate(*hw.StartDate))
}
