package wizard

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Step enumerates the wizard screens. The zero value is not a valid step.
type Step int

const (
	StepEngineType Step = iota + 1
	StepBodyStyle
	StepFeatures
	StepSeating
)

const (
	FirstStep = StepEngineType
	FinalStep = StepSeating
)

var Steps = []Step{StepEngineType, StepBodyStyle, StepFeatures, StepSeating}

type stepInfo struct {
	field       Field
	title       string
	description string
}

var stepTable = map[Step]stepInfo{
	StepEngineType: {FieldEngineType, "Engine Type", "Select your preferred engine type"},
	StepBodyStyle:  {FieldBodyStyle, "Body Style", "Choose your ideal body style"},
	StepFeatures:   {FieldFeatures, "Features", "Select the features you're interested in"},
	StepSeating:    {FieldSeatCount, "Seating", "How many seats do you need?"},
}

func (s Step) Valid() bool {
	_, ok := stepTable[s]
	return ok
}

func (s Step) Field() Field        { return stepTable[s].field }
func (s Step) Title() string       { return stepTable[s].title }
func (s Step) Description() string { return stepTable[s].description }

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return s.Title()
}

// Phase is the coarse state of the wizard around submission.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseCompleted  Phase = "completed"
)

// Event is an input to the phase machine.
type Event string

const (
	EventAdvance Event = "advance"
	EventRetreat Event = "retreat"
	EventJump    Event = "jump"
	EventEdit    Event = "edit"
	EventSubmit  Event = "submit"
	EventResolve Event = "resolve"
	EventRestart Event = "restart"
)

// transitions lists every legal (phase, event) pair. Anything absent is illegal.
var transitions = map[Phase]map[Event]Phase{
	PhaseEditing: {
		EventAdvance: PhaseEditing,
		EventRetreat: PhaseEditing,
		EventJump:    PhaseEditing,
		EventEdit:    PhaseEditing,
		EventSubmit:  PhaseSubmitting,
		EventRestart: PhaseEditing,
	},
	PhaseSubmitting: {
		EventRetreat: PhaseEditing,
		EventJump:    PhaseEditing,
		EventResolve: PhaseCompleted,
		EventRestart: PhaseEditing,
	},
	PhaseCompleted: {
		EventAdvance: PhaseEditing,
		EventRetreat: PhaseEditing,
		EventJump:    PhaseEditing,
		EventEdit:    PhaseEditing,
		EventSubmit:  PhaseSubmitting,
		EventRestart: PhaseEditing,
	},
}

var (
	ErrIllegalTransition  = errors.New("wizard: illegal transition")
	ErrNotFinalStep       = errors.New("wizard: submit is only allowed on the final step")
	ErrSubmissionInFlight = errors.New("wizard: a submission is in flight")
	ErrStaleSubmission    = errors.New("wizard: submission is no longer current")
)

// Ticket identifies one submission. Results are only applied for the current ticket.
type Ticket string

// State is a read-only view of the controller for rendering.
type State struct {
	Step       Step        `json:"step"`
	Phase      Phase       `json:"phase"`
	Selection  Selection   `json:"selection"`
	Submission Ticket      `json:"submission,omitempty"`
	LastError  *FieldError `json:"last_error,omitempty"`
}

// Controller owns the step index and the selection. It is not safe for
// concurrent use; callers serialise access per browsing session.
type Controller struct {
	step      Step
	phase     Phase
	sel       Selection
	ticket    Ticket
	lastError *FieldError
	newTicket func() Ticket
}

func NewController() *Controller {
	return &Controller{
		step:      FirstStep,
		phase:     PhaseEditing,
		newTicket: func() Ticket { return Ticket(uuid.NewString()) },
	}
}

// Restore rebuilds a controller from a previously captured State. Invalid
// steps are clamped to the wizard bounds.
func Restore(st State) *Controller {
	c := NewController()
	c.step = clampStep(st.Step)
	c.sel = st.Selection.Clone()
	switch st.Phase {
	case PhaseCompleted:
		c.phase = PhaseCompleted
	default:
		// a submission cannot survive a restore; its result would have no owner
		c.phase = PhaseEditing
	}
	return c
}

func clampStep(s Step) Step {
	if s < FirstStep {
		return FirstStep
	}
	if s > FinalStep {
		return FinalStep
	}
	return s
}

func (c *Controller) fire(ev Event) error {
	next, ok := transitions[c.phase][ev]
	if !ok {
		return fmt.Errorf("%w: %s in phase %s", ErrIllegalTransition, ev, c.phase)
	}
	if c.phase == PhaseSubmitting && next != PhaseSubmitting {
		c.ticket = ""
	}
	c.phase = next
	return nil
}

func (c *Controller) Step() Step           { return c.step }
func (c *Controller) Phase() Phase         { return c.phase }
func (c *Controller) Selection() Selection { return c.sel.Clone() }

func (c *Controller) State() State {
	return State{
		Step:       c.step,
		Phase:      c.phase,
		Selection:  c.sel.Clone(),
		Submission: c.ticket,
		LastError:  c.lastError,
	}
}

// Edit applies fn to the selection. Edits during a submission are refused.
func (c *Controller) Edit(fn func(*Selection)) error {
	if c.phase == PhaseSubmitting {
		return ErrSubmissionInFlight
	}
	if err := c.fire(EventEdit); err != nil {
		return err
	}
	fn(&c.sel)
	c.lastError = nil
	return nil
}

// Advance moves forward one step when the current step's field is valid.
// On failure the step does not change and the field error is returned.
func (c *Controller) Advance() error {
	if c.phase == PhaseSubmitting {
		return ErrSubmissionInFlight
	}
	if ferr := c.sel.ValidateStep(c.step); ferr != nil {
		c.lastError = ferr
		return ferr
	}
	if err := c.fire(EventAdvance); err != nil {
		return err
	}
	c.lastError = nil
	c.step = nextStep(c.step)
	return nil
}

// Retreat moves back one step without validating. Leaving a pending
// submission abandons it.
func (c *Controller) Retreat() {
	_ = c.fire(EventRetreat)
	c.lastError = nil
	c.step = prevStep(c.step)
}

// JumpTo moves to an already visited step. Forward jumps are ignored.
func (c *Controller) JumpTo(step Step) bool {
	if !step.Valid() || step > c.step {
		return false
	}
	_ = c.fire(EventJump)
	c.lastError = nil
	c.step = step
	return true
}

// BeginSubmit validates the whole selection on the final step and enters the
// submitting phase. The returned ticket must be passed to Resolve.
func (c *Controller) BeginSubmit() (Ticket, Selection, error) {
	if c.phase == PhaseSubmitting {
		return "", Selection{}, ErrSubmissionInFlight
	}
	if c.step != FinalStep {
		return "", Selection{}, ErrNotFinalStep
	}
	if ferr := c.sel.ValidateStep(c.step); ferr != nil {
		c.lastError = ferr
		return "", Selection{}, ferr
	}
	if ferr := c.sel.Validate(); ferr != nil {
		c.lastError = ferr
		return "", Selection{}, ferr
	}
	if err := c.fire(EventSubmit); err != nil {
		return "", Selection{}, err
	}
	c.lastError = nil
	c.ticket = c.newTicket()
	return c.ticket, c.sel.Clone(), nil
}

// Resolve completes the submission identified by t. A ticket that was
// abandoned or superseded is rejected.
func (c *Controller) Resolve(t Ticket) error {
	if c.phase != PhaseSubmitting || t == "" || t != c.ticket {
		return ErrStaleSubmission
	}
	return c.fire(EventResolve)
}

// Reset clears the selection and returns to the first step.
func (c *Controller) Reset() {
	_ = c.fire(EventRestart)
	c.step = FirstStep
	c.sel = Selection{}
	c.lastError = nil
}

var stepAfter = map[Step]Step{
	StepEngineType: StepBodyStyle,
	StepBodyStyle:  StepFeatures,
	StepFeatures:   StepSeating,
	StepSeating:    StepSeating,
}

var stepBefore = map[Step]Step{
	StepEngineType: StepEngineType,
	StepBodyStyle:  StepEngineType,
	StepFeatures:   StepBodyStyle,
	StepSeating:    StepFeatures,
}

func nextStep(s Step) Step { return stepAfter[clampStep(s)] }
func prevStep(s Step) Step { return stepBefore[clampStep(s)] }
