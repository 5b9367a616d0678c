package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeSelection() Selection {
	return Selection{
		EngineType: Hybrid,
		BodyStyle:  SUV,
		Features:   []string{"navigation", "sunroof"},
		SeatCount:  7,
	}
}

func controllerAtFinalStep(t *testing.T) *Controller {
	t.Helper()
	c := NewController()
	require.NoError(t, c.Edit(func(s *Selection) { *s = completeSelection() }))
	for c.Step() != FinalStep {
		require.NoError(t, c.Advance())
	}
	return c
}

func TestAdvanceIsNoOpWhenStepFieldMissing(t *testing.T) {
	testCases := []struct {
		name  string
		step  Step
		sel   Selection
		field Field
	}{
		{name: "engine type unset", step: StepEngineType, sel: Selection{}, field: FieldEngineType},
		{name: "body style unset", step: StepBodyStyle, sel: Selection{EngineType: Petrol}, field: FieldBodyStyle},
		{name: "features empty", step: StepFeatures, sel: Selection{EngineType: Petrol, BodyStyle: Sedan, Features: []string{}}, field: FieldFeatures},
		{name: "seat count unset", step: StepSeating, sel: Selection{EngineType: Petrol, BodyStyle: Sedan, Features: []string{"turbo"}}, field: FieldSeatCount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Restore(State{Step: tc.step, Selection: tc.sel})

			err := c.Advance()

			var ferr *FieldError
			require.True(t, errors.As(err, &ferr), "expected field error, got %v", err)
			assert.Equal(t, tc.field, ferr.Field)
			assert.Equal(t, tc.step, c.Step())
			assert.Equal(t, ferr, c.State().LastError)
		})
	}
}

func TestAdvanceValidatesOnlyCurrentStep(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Edit(func(s *Selection) { s.SetEngineType("diesel") }))

	require.NoError(t, c.Advance())
	assert.Equal(t, StepBodyStyle, c.Step())
	assert.Equal(t, Diesel, c.Selection().EngineType)
}

func TestAdvanceCapsAtFinalStep(t *testing.T) {
	c := controllerAtFinalStep(t)
	require.NoError(t, c.Advance())
	assert.Equal(t, FinalStep, c.Step())
}

func TestAdvanceRejectsUnknownValues(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Edit(func(s *Selection) { s.SetEngineType("electric") }))
	err := c.Advance()
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Contains(t, ferr.Message, "electric")
	assert.Equal(t, StepEngineType, c.Step())
}

func TestRetreatFloorsAtFirstStep(t *testing.T) {
	c := NewController()
	c.Retreat()
	assert.Equal(t, StepEngineType, c.Step())

	c = controllerAtFinalStep(t)
	c.Retreat()
	assert.Equal(t, StepFeatures, c.Step())
}

func TestRetreatNeverValidates(t *testing.T) {
	c := Restore(State{Step: StepFeatures})
	c.Retreat()
	assert.Equal(t, StepBodyStyle, c.Step())
	assert.Nil(t, c.State().LastError)
}

func TestJumpToNeverSkipsAhead(t *testing.T) {
	c := Restore(State{Step: StepBodyStyle, Selection: completeSelection()})

	for _, target := range []Step{StepFeatures, StepSeating, Step(9), Step(0)} {
		assert.False(t, c.JumpTo(target), "jump to %v", target)
		assert.Equal(t, StepBodyStyle, c.Step())
	}

	assert.True(t, c.JumpTo(StepEngineType))
	assert.Equal(t, StepEngineType, c.Step())
	assert.True(t, c.JumpTo(StepEngineType))
}

func TestBeginSubmitRequiresFinalStep(t *testing.T) {
	c := Restore(State{Step: StepFeatures, Selection: completeSelection()})
	_, _, err := c.BeginSubmit()
	assert.ErrorIs(t, err, ErrNotFinalStep)
	assert.Equal(t, PhaseEditing, c.Phase())
}

func TestBeginSubmitRequiresValidSelection(t *testing.T) {
	sel := completeSelection()
	sel.SeatCount = 0
	c := Restore(State{Step: StepSeating, Selection: sel})

	_, _, err := c.BeginSubmit()
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, FieldSeatCount, ferr.Field)
	assert.Equal(t, PhaseEditing, c.Phase())
}

func TestSubmitAndResolve(t *testing.T) {
	c := controllerAtFinalStep(t)

	ticket, sel, err := c.BeginSubmit()
	require.NoError(t, err)
	assert.NotEmpty(t, ticket)
	assert.Equal(t, completeSelection(), sel)
	assert.Equal(t, PhaseSubmitting, c.Phase())

	_, _, err = c.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.ErrorIs(t, c.Edit(func(s *Selection) {}), ErrSubmissionInFlight)

	require.NoError(t, c.Resolve(ticket))
	assert.Equal(t, PhaseCompleted, c.Phase())
	assert.ErrorIs(t, c.Resolve(ticket), ErrStaleSubmission)
}

func TestNavigatingAwayAbandonsSubmission(t *testing.T) {
	c := controllerAtFinalStep(t)
	ticket, _, err := c.BeginSubmit()
	require.NoError(t, err)

	c.Retreat()
	assert.Equal(t, PhaseEditing, c.Phase())
	assert.ErrorIs(t, c.Resolve(ticket), ErrStaleSubmission)

	require.NoError(t, c.Advance())
	second, _, err := c.BeginSubmit()
	require.NoError(t, err)
	assert.NotEqual(t, ticket, second)
	assert.ErrorIs(t, c.Resolve(ticket), ErrStaleSubmission)
	assert.NoError(t, c.Resolve(second))
}

func TestTransitionTableRejectsIllegalEvents(t *testing.T) {
	c := NewController()
	c.phase = PhaseSubmitting
	err := c.fire(EventEdit)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	c.phase = PhaseEditing
	assert.ErrorIs(t, c.fire(EventResolve), ErrIllegalTransition)
}

func TestEditAfterCompletionReturnsToEditing(t *testing.T) {
	c := controllerAtFinalStep(t)
	ticket, _, err := c.BeginSubmit()
	require.NoError(t, err)
	require.NoError(t, c.Resolve(ticket))

	require.NoError(t, c.Edit(func(s *Selection) { s.SetSeatCount(5) }))
	assert.Equal(t, PhaseEditing, c.Phase())
	assert.Equal(t, 5, c.Selection().SeatCount)
}

func TestResetClearsEverything(t *testing.T) {
	c := controllerAtFinalStep(t)
	c.Reset()
	assert.Equal(t, StepEngineType, c.Step())
	assert.Equal(t, Selection{}, c.Selection())
}

func TestSelectionFeatureToggling(t *testing.T) {
	var s Selection
	s.ToggleFeature("Navigation")
	s.ToggleFeature(" sunroof ")
	assert.Equal(t, []string{"navigation", "sunroof"}, s.Features)

	s.ToggleFeature("NAVIGATION")
	assert.Equal(t, []string{"sunroof"}, s.Features)

	s.SetFeatures([]string{"Turbo", "turbo", "", "rear camera"})
	assert.Equal(t, []string{"turbo", "rear camera"}, s.Features)
}

func TestSelectionCompleteness(t *testing.T) {
	assert.True(t, completeSelection().Complete())

	sel := completeSelection()
	sel.Features = []string{"jetpack"}
	assert.False(t, sel.Complete())
	assert.Equal(t, FieldFeatures, sel.Validate().Field)

	sel = completeSelection()
	sel.SeatCount = 2
	assert.False(t, sel.Complete())
}

func TestRestoreDropsInFlightSubmission(t *testing.T) {
	c := Restore(State{Step: Step(12), Phase: PhaseSubmitting, Selection: completeSelection(), Submission: "t-1"})
	assert.Equal(t, FinalStep, c.Step())
	assert.Equal(t, PhaseEditing, c.Phase())
	assert.ErrorIs(t, c.Resolve("t-1"), ErrStaleSubmission)
}

func TestStepMetadata(t *testing.T) {
	assert.Equal(t, FieldFeatures, StepFeatures.Field())
	assert.Equal(t, "Seating", StepSeating.Title())
	assert.Equal(t, "Step(0)", Step(0).String())
}
