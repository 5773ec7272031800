package interpret

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msageha/planwright/internal/model"
)

const commandSpec = `
project:
  name: "Device Program"
  id: DEV
  start_date: "2025-01-06"
calendar:
  working_days: [Mon, Tue, Wed, Thu, Fri]
phases:
  - id: PH1
    name: "Build"
    workstreams:
      - id: WS_SW
        name: "Software"
        tasks:
          - id: SW_DESIGN
            name: "Software Design"
            duration: 5
          - id: SW_IMPL
            name: "Software Implementation"
            duration: 10
            progress: 50
            depends_on: [SW_DESIGN]
      - id: WS_HW
        name: "Hardware"
        tasks:
          - id: HW_PROTO
            name: "Hardware Prototype"
            duration: 8
`

// fixedNow anchors natural-language date phrases: Wednesday 2025-01-15.
var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func newInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	spec, err := model.ParseSpec([]byte(commandSpec))
	require.NoError(t, err)
	return NewAt(spec, fixedNow)
}

func TestParseCommand_SetProgress(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("SW_IMPL is 75%")
	assert.Equal(t, IntentSetProgress, cmd.Intent)
	assert.Equal(t, "SW_IMPL", cmd.TaskID)
	assert.Equal(t, 75, cmd.Value)
	assert.False(t, cmd.IsQuery)
	assert.Greater(t, cmd.Confidence, 0.9)
}

func TestParseCommand_ExtendDuration(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("extend HW_PROTO by 5 days")
	assert.Equal(t, IntentExtendDuration, cmd.Intent)
	assert.Equal(t, "HW_PROTO", cmd.TaskID)
	assert.Equal(t, 5, cmd.Value)
}

func TestParseCommand_ShortenAndSetDuration(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("shorten SW_DESIGN by 2 days")
	assert.Equal(t, IntentShortenDuration, cmd.Intent)
	assert.Equal(t, 2, cmd.Value)

	cmd = i.ParseCommand("set SW_DESIGN duration to 7 days")
	assert.Equal(t, IntentSetDuration, cmd.Intent)
	assert.Equal(t, 7, cmd.Value)
}

func TestParseCommand_MarkComplete(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("mark SW_DESIGN as done")
	assert.Equal(t, IntentMarkComplete, cmd.Intent)
	assert.Equal(t, "SW_DESIGN", cmd.TaskID)
}

func TestParseCommand_AddRisk(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("HW_PROTO is at risk: vendor delay")
	assert.Equal(t, IntentAddRisk, cmd.Intent)
	assert.Equal(t, "HW_PROTO", cmd.TaskID)
	assert.Equal(t, "vendor delay", cmd.Value)
}

func TestParseCommand_ActualDates(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("SW_DESIGN started on 2025-01-08")
	assert.Equal(t, IntentSetActualStart, cmd.Intent)
	assert.Equal(t, "2025-01-08", cmd.Value)

	// Natural phrase resolved against the injected reference time.
	cmd = i.ParseCommand("SW_DESIGN finished tomorrow")
	assert.Equal(t, IntentSetActualFinish, cmd.Intent)
	assert.Equal(t, "2025-01-16", cmd.Value)
}

func TestParseCommand_AddDependency(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("HW_PROTO depends on SW_DESIGN")
	assert.Equal(t, IntentAddDependency, cmd.Intent)
	assert.Equal(t, "HW_PROTO", cmd.TaskID)
	assert.Equal(t, "SW_DESIGN", cmd.Value)
}

func TestParseCommand_AddLag(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("add 3 days lag after SW_DESIGN for SW_IMPL")
	assert.Equal(t, IntentAddLag, cmd.Intent)
	assert.Equal(t, "SW_IMPL", cmd.TaskID)
	assert.Equal(t, 3, cmd.Value)
	assert.Equal(t, "SW_DESIGN", cmd.Value2)
}

func TestParseCommand_AddConstraint(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("HW_PROTO cannot start before 2025-02-03")
	assert.Equal(t, IntentAddConstraint, cmd.Intent)
	assert.Equal(t, "2025-02-03", cmd.Value)
}

func TestParseCommand_WhatIfWeeks(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("what if SW_IMPL slips 2 weeks")
	assert.Equal(t, IntentWhatIf, cmd.Intent)
	assert.Equal(t, 10, cmd.Value) // week units multiplied by 5
}

func TestParseCommand_Queries(t *testing.T) {
	i := newInterpreter(t)

	for input, intent := range map[string]Intent{
		"show critical path": IntentShowCriticalPath,
		"show milestones":    IntentShowMilestones,
		"show variance":      IntentShowVariance,
		"show status":        IntentShowStatus,
		"where are we":       IntentShowStatus,
	} {
		cmd := i.ParseCommand(input)
		assert.Equal(t, intent, cmd.Intent, "input %q", input)
		assert.True(t, cmd.IsQuery, "input %q", input)
		assert.Equal(t, 1.0, cmd.Confidence, "input %q", input)
	}
}

func TestParseCommand_Unknown(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("foo bar baz")
	assert.Equal(t, IntentUnknown, cmd.Intent)
	assert.Equal(t, 0.0, cmd.Confidence)
}

func TestParseCommand_ExactIDBeatsFuzzy(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("sw_impl is 40%")
	assert.Equal(t, "SW_IMPL", cmd.TaskID)
	assert.GreaterOrEqual(t, cmd.Confidence, 0.95)
}

func TestParseCommand_FuzzyNameMatch(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("software implementation is 80%")
	assert.Equal(t, IntentSetProgress, cmd.Intent)
	assert.Equal(t, "SW_IMPL", cmd.TaskID)
	assert.Equal(t, "Software Implementation", cmd.TaskName)
	assert.Less(t, cmd.Confidence, 0.95)
	assert.GreaterOrEqual(t, cmd.Confidence, 0.9*fuzzyThreshold)
}

func TestParseCommand_UnresolvedEntityKeepsBaseConfidence(t *testing.T) {
	i := newInterpreter(t)

	cmd := i.ParseCommand("extend zzzzqqqq by 3 days")
	assert.Equal(t, IntentExtendDuration, cmd.Intent)
	assert.Empty(t, cmd.TaskID)
	assert.Nil(t, i.GenerateDiff(cmd))
}

func TestParseCommand_DurationBeatsProgressAmbiguity(t *testing.T) {
	i := newInterpreter(t)

	// Must not be read as a progress update even though it contains a number.
	cmd := i.ParseCommand("extend SW_IMPL by 5 days")
	assert.Equal(t, IntentExtendDuration, cmd.Intent)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("SW_IMPL", "sw_impl"))
	assert.Greater(t, similarity("sw_imp", "sw_impl"), fuzzyThreshold)
	assert.Less(t, similarity("totally different", "sw_impl"), fuzzyThreshold)
}
