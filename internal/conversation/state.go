// ABOUTME: Per-conversation dialogue state for the support bot
// ABOUTME: Flow/step enums plus the ticket draft being collected

package conversation

// Flow names a multi-step sub-dialogue layered on top of free intent dispatch.
type Flow int

const (
	FlowNone Flow = iota
	FlowCreateTicket
)

// Step is the question currently being asked within an active flow.
type Step int

const (
	StepNone Step = iota
	StepAskingName
	StepAskingEmail
	StepAskingDescription
	StepConfirmation
)

// Draft holds the partially collected ticket fields until finalize.
type Draft struct {
	Name        string
	Email       string
	Description string
}

// State is the dialogue state for one conversation id.
// Invariant: ActiveFlow == FlowNone implies CurrentStep == StepNone and an
// empty draft. The step only advances forward within a flow; it returns to
// StepNone via Reset.
type State struct {
	ConversationID string
	ActiveFlow     Flow
	CurrentStep    Step
	Draft          Draft
}

// Reset returns the state to idle: no flow, no step, empty draft.
func (s *State) Reset() {
	s.ActiveFlow = FlowNone
	s.CurrentStep = StepNone
	s.Draft = Draft{}
}
