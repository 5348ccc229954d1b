// ABOUTME: Tests for the dialogue engine
// ABOUTME: Covers the create-ticket flow, cancellation, validation and status lookups

package dialogue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/soporte-bot/internal/conversation"
	"github.com/2389/soporte-bot/internal/ticketapi"
)

type fakeTicketAPI struct {
	createCalls  int
	createName   string
	createEmail  string
	createDesc   string
	createResp   *ticketapi.CreateTicketResponse
	createErr    error
	statusCalls  int
	statusID     string
	statusResp   *ticketapi.TicketStatus
	statusErr    error
}

func (f *fakeTicketAPI) CreateTicket(ctx context.Context, name, email, description string) (*ticketapi.CreateTicketResponse, error) {
	f.createCalls++
	f.createName = name
	f.createEmail = email
	f.createDesc = description
	return f.createResp, f.createErr
}

func (f *fakeTicketAPI) GetTicketStatus(ctx context.Context, id string) (*ticketapi.TicketStatus, error) {
	f.statusCalls++
	f.statusID = id
	return f.statusResp, f.statusErr
}

func newTestEngine(api TicketAPI) (*Engine, *conversation.Store) {
	store := conversation.NewStore()
	return New(store, api, nil), store
}

func TestRespond_Greeting(t *testing.T) {
	engine, _ := newTestEngine(&fakeTicketAPI{})

	got := engine.Respond(context.Background(), "conv-1", "hola")
	assert.Equal(t, greetingResponse, got)
}

func TestRespond_Help(t *testing.T) {
	engine, _ := newTestEngine(&fakeTicketAPI{})

	got := engine.Respond(context.Background(), "conv-1", "ayuda")
	assert.Equal(t, helpResponse, got)
}

func TestRespond_Unknown(t *testing.T) {
	engine, _ := newTestEngine(&fakeTicketAPI{})

	got := engine.Respond(context.Background(), "conv-1", "el clima está raro")
	assert.Equal(t, unknownResponse, got)
}

func TestRespond_CancelWithoutFlow(t *testing.T) {
	engine, _ := newTestEngine(&fakeTicketAPI{})

	got := engine.Respond(context.Background(), "conv-1", "cancelar")
	assert.Equal(t, nothingToCancelResponse, got)
}

func TestRespond_CreateTicketHappyPath(t *testing.T) {
	api := &fakeTicketAPI{
		createResp: &ticketapi.CreateTicketResponse{ID: "TCK-102", Message: "Ticket creado exitosamente"},
	}
	engine, store := newTestEngine(api)
	ctx := context.Background()

	got := engine.Respond(ctx, "conv-1", "quiero crear un ticket")
	assert.Equal(t, startFlowResponse, got)

	got = engine.Respond(ctx, "conv-1", "Ana García")
	assert.Contains(t, got, "Gracias, Ana García.")
	assert.Contains(t, got, "correo electrónico")

	got = engine.Respond(ctx, "conv-1", "ana@example.com")
	assert.Contains(t, got, "problema o solicitud")

	got = engine.Respond(ctx, "conv-1", "No puedo entrar a mi cuenta")
	assert.Contains(t, got, "resumen de tu ticket")
	assert.Contains(t, got, "Ana García")
	assert.Contains(t, got, "ana@example.com")
	assert.Contains(t, got, "No puedo entrar a mi cuenta")

	got = engine.Respond(ctx, "conv-1", "sí")
	assert.Contains(t, got, "TCK-102")
	assert.Contains(t, got, "¡Ticket creado exitosamente!")

	require.Equal(t, 1, api.createCalls)
	assert.Equal(t, "Ana García", api.createName)
	assert.Equal(t, "ana@example.com", api.createEmail)
	assert.Equal(t, "No puedo entrar a mi cuenta", api.createDesc)

	// Flow is done; the conversation is idle again.
	state := store.GetOrCreate("conv-1")
	assert.Equal(t, conversation.FlowNone, state.ActiveFlow)
	assert.Equal(t, conversation.Draft{}, state.Draft)
}

func TestRespond_NameValidation(t *testing.T) {
	engine, _ := newTestEngine(&fakeTicketAPI{})
	ctx := context.Background()

	engine.Respond(ctx, "conv-1", "crear ticket")

	got := engine.Respond(ctx, "conv-1", "A")
	assert.Equal(t, invalidNameResponse, got)

	// Still asking for the name; a valid one advances.
	got = engine.Respond(ctx, "conv-1", "Ana")
	assert.Contains(t, got, "Gracias, Ana.")
}

func TestRespond_EmailValidation(t *testing.T) {
	engine, _ := newTestEngine(&fakeTicketAPI{})
	ctx := context.Background()

	engine.Respond(ctx, "conv-1", "crear ticket")
	engine.Respond(ctx, "conv-1", "Ana")

	for _, bad := range []string{"not-an-email", "a@b", "user@domain", "@domain.com"} {
		got := engine.Respond(ctx, "conv-1", bad)
		assert.Equal(t, invalidEmailResponse, got, "email: %q", bad)
	}

	got := engine.Respond(ctx, "conv-1", "user@domain.com")
	assert.Contains(t, got, "problema o solicitud")
}

func TestRespond_DescriptionValidation(t *testing.T) {
	engine, _ := newTestEngine(&fakeTicketAPI{})
	ctx := context.Background()

	engine.Respond(ctx, "conv-1", "crear ticket")
	engine.Respond(ctx, "conv-1", "Ana")
	engine.Respond(ctx, "conv-1", "ana@example.com")

	got := engine.Respond(ctx, "conv-1", "corto")
	assert.Equal(t, invalidDescriptionResponse, got)

	got = engine.Respond(ctx, "conv-1", "una descripción suficientemente larga")
	assert.Contains(t, got, "resumen de tu ticket")
}

func TestRespond_ConfirmationReprompt(t *testing.T) {
	api := &fakeTicketAPI{}
	engine, _ := newTestEngine(api)
	ctx := context.Background()

	engine.Respond(ctx, "conv-1", "crear ticket")
	engine.Respond(ctx, "conv-1", "Ana")
	engine.Respond(ctx, "conv-1", "ana@example.com")
	engine.Respond(ctx, "conv-1", "no puedo entrar a mi cuenta")

	got := engine.Respond(ctx, "conv-1", "tal vez")
	assert.Equal(t, confirmRepromptResponse, got)
	assert.Zero(t, api.createCalls)

	// Remains in confirmation until an answer arrives.
	got = engine.Respond(ctx, "conv-1", "quizás mañana")
	assert.Equal(t, confirmRepromptResponse, got)
}

func TestRespond_ConfirmationDeclined(t *testing.T) {
	api := &fakeTicketAPI{}
	engine, store := newTestEngine(api)
	ctx := context.Background()

	engine.Respond(ctx, "conv-1", "crear ticket")
	engine.Respond(ctx, "conv-1", "Ana")
	engine.Respond(ctx, "conv-1", "ana@example.com")
	engine.Respond(ctx, "conv-1", "no puedo entrar a mi cuenta")

	got := engine.Respond(ctx, "conv-1", "no")
	assert.Equal(t, cancelledCreationResponse, got)
	assert.Zero(t, api.createCalls)

	state := store.GetOrCreate("conv-1")
	assert.Equal(t, conversation.FlowNone, state.ActiveFlow)
	assert.Equal(t, conversation.Draft{}, state.Draft)
}

// "cancelar" aborts the flow from every step and clears the draft.
func TestRespond_CancelMidFlow(t *testing.T) {
	steps := [][]string{
		{"crear ticket"},
		{"crear ticket", "Ana"},
		{"crear ticket", "Ana", "ana@example.com"},
		{"crear ticket", "Ana", "ana@example.com", "no puedo entrar a mi cuenta"},
	}

	for i, setup := range steps {
		engine, store := newTestEngine(&fakeTicketAPI{})
		ctx := context.Background()
		id := fmt.Sprintf("conv-%d", i)

		for _, msg := range setup {
			engine.Respond(ctx, id, msg)
		}

		got := engine.Respond(ctx, id, "cancelar")
		assert.Equal(t, cancelledResponse, got, "after %d setup messages", len(setup))

		state := store.GetOrCreate(id)
		assert.Equal(t, conversation.FlowNone, state.ActiveFlow)
		assert.Equal(t, conversation.Draft{}, state.Draft)
	}
}

// Mid-flow messages answer the current question even when they look like a
// fresh intent.
func TestRespond_FlowIgnoresIntents(t *testing.T) {
	engine, _ := newTestEngine(&fakeTicketAPI{})
	ctx := context.Background()

	engine.Respond(ctx, "conv-1", "crear ticket")

	// "hola soy Ana" would classify as a greeting, but here it is the name.
	got := engine.Respond(ctx, "conv-1", "hola soy Ana")
	assert.Contains(t, got, "Gracias, hola soy Ana.")
}

func TestRespond_CreateTicketServiceError(t *testing.T) {
	api := &fakeTicketAPI{createErr: errors.New("connection refused")}
	engine, store := newTestEngine(api)
	ctx := context.Background()

	engine.Respond(ctx, "conv-1", "crear ticket")
	engine.Respond(ctx, "conv-1", "Ana")
	engine.Respond(ctx, "conv-1", "ana@example.com")
	engine.Respond(ctx, "conv-1", "no puedo entrar a mi cuenta")

	got := engine.Respond(ctx, "conv-1", "sí")
	assert.Equal(t, createUnavailableResponse, got)

	// A failed create still ends the flow; the next message starts fresh.
	state := store.GetOrCreate("conv-1")
	assert.Equal(t, conversation.FlowNone, state.ActiveFlow)
	assert.Equal(t, conversation.Draft{}, state.Draft)

	got = engine.Respond(ctx, "conv-1", "hola")
	assert.Equal(t, greetingResponse, got)
}

func TestRespond_CreateTicketEmptyResponse(t *testing.T) {
	api := &fakeTicketAPI{createResp: &ticketapi.CreateTicketResponse{}}
	engine, _ := newTestEngine(api)
	ctx := context.Background()

	engine.Respond(ctx, "conv-1", "crear ticket")
	engine.Respond(ctx, "conv-1", "Ana")
	engine.Respond(ctx, "conv-1", "ana@example.com")
	engine.Respond(ctx, "conv-1", "no puedo entrar a mi cuenta")

	got := engine.Respond(ctx, "conv-1", "sí")
	assert.Equal(t, createFailedResponse, got)
}

func TestRespond_TicketStatus(t *testing.T) {
	created := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
	api := &fakeTicketAPI{
		statusResp: &ticketapi.TicketStatus{
			ID:          "TCK-101",
			Status:      "En Progreso",
			Name:        "Juan Pérez",
			Description: "No puedo acceder a mi cuenta",
			CreatedAt:   created,
		},
	}
	engine, _ := newTestEngine(api)

	got := engine.Respond(context.Background(), "conv-1", "ver estado del ticket TCK-101")
	assert.Equal(t, "TCK-101", api.statusID)
	assert.Contains(t, got, "Estado del Ticket TCK-101")
	assert.Contains(t, got, "En Progreso")
	assert.Contains(t, got, "Juan Pérez")
	assert.Contains(t, got, "30/08/2026 14:05")
}

func TestRespond_TicketStatusNotFound(t *testing.T) {
	api := &fakeTicketAPI{statusErr: ticketapi.ErrNotFound}
	engine, _ := newTestEngine(api)

	got := engine.Respond(context.Background(), "conv-1", "ver estado del ticket TCK-999")
	assert.Contains(t, got, "No se encontró el ticket **TCK-999**")
}

func TestRespond_TicketStatusServiceError(t *testing.T) {
	api := &fakeTicketAPI{statusErr: errors.New("timeout")}
	engine, _ := newTestEngine(api)

	got := engine.Respond(context.Background(), "conv-1", "ver estado del ticket TCK-101")
	assert.Equal(t, statusUnavailableResponse, got)
}

// Two conversations run the flow side by side without mixing drafts.
func TestRespond_ConversationIsolation(t *testing.T) {
	api := &fakeTicketAPI{
		createResp: &ticketapi.CreateTicketResponse{ID: "TCK-102"},
	}
	engine, _ := newTestEngine(api)
	ctx := context.Background()

	engine.Respond(ctx, "conv-a", "crear ticket")
	engine.Respond(ctx, "conv-b", "crear ticket")

	engine.Respond(ctx, "conv-a", "Ana")
	engine.Respond(ctx, "conv-b", "Berta")

	engine.Respond(ctx, "conv-a", "ana@example.com")
	engine.Respond(ctx, "conv-b", "berta@example.com")

	engine.Respond(ctx, "conv-a", "no puedo entrar a mi cuenta")
	engine.Respond(ctx, "conv-b", "mi impresora no funciona bien")

	engine.Respond(ctx, "conv-a", "sí")
	assert.Equal(t, "Ana", api.createName)
	assert.Equal(t, "ana@example.com", api.createEmail)

	engine.Respond(ctx, "conv-b", "sí")
	assert.Equal(t, "Berta", api.createName)
	assert.Equal(t, "berta@example.com", api.createEmail)
}
