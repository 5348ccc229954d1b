// ABOUTME: Dialogue engine orchestrating intent dispatch and the create-ticket flow
// ABOUTME: Drives the per-conversation state machine and calls the ticket service

package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/2389/soporte-bot/internal/conversation"
	"github.com/2389/soporte-bot/internal/intent"
	"github.com/2389/soporte-bot/internal/ticketapi"
)

const (
	minNameLength        = 2
	minDescriptionLength = 10
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var affirmativeTokens = []string{"sí", "si", "yes", "confirmar", "ok", "dale", "adelante", "confirmo"}

var negativeTokens = []string{"no", "cancelar", "nope"}

// TicketAPI is the slice of the ticket service client the engine needs.
type TicketAPI interface {
	CreateTicket(ctx context.Context, name, email, description string) (*ticketapi.CreateTicketResponse, error)
	GetTicketStatus(ctx context.Context, id string) (*ticketapi.TicketStatus, error)
}

// Engine processes inbound turns: it classifies the message, consults and
// mutates the conversation state, and calls the ticket service when the flow
// requires it. Every failure degrades to a user-visible message.
type Engine struct {
	states  *conversation.Store
	tickets TicketAPI
	logger  *slog.Logger
}

// New creates a dialogue engine.
func New(states *conversation.Store, tickets TicketAPI, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		states:  states,
		tickets: tickets,
		logger:  logger.With("component", "dialogue"),
	}
}

// Respond processes one inbound turn and returns the outbound text.
func (e *Engine) Respond(ctx context.Context, conversationID, message string) string {
	state := e.states.GetOrCreate(conversationID)

	// Cancellation short-circuits regardless of the current state.
	result := intent.Classify(message)
	if result.Intent == intent.Cancel {
		return e.handleCancel(state)
	}

	// Inside an active flow every message is the answer to the current
	// question; the classified intent is ignored.
	if state.ActiveFlow != conversation.FlowNone {
		return e.continueFlow(ctx, state, message)
	}

	switch result.Intent {
	case intent.CreateTicket:
		return e.startCreateTicketFlow(state)
	case intent.CheckTicketStatus:
		return e.checkTicketStatus(ctx, result.TicketID)
	case intent.Greeting:
		return greetingResponse
	case intent.Help:
		return helpResponse
	default:
		return unknownResponse
	}
}

func (e *Engine) handleCancel(state conversation.State) string {
	if state.ActiveFlow == conversation.FlowNone {
		return nothingToCancelResponse
	}

	state.Reset()
	e.states.Update(state)
	return cancelledResponse
}

func (e *Engine) startCreateTicketFlow(state conversation.State) string {
	state.ActiveFlow = conversation.FlowCreateTicket
	state.CurrentStep = conversation.StepAskingName
	state.Draft = conversation.Draft{}
	e.states.Update(state)

	return startFlowResponse
}

func (e *Engine) continueFlow(ctx context.Context, state conversation.State, message string) string {
	switch state.ActiveFlow {
	case conversation.FlowCreateTicket:
		return e.continueCreateTicketFlow(ctx, state, message)
	default:
		return unknownResponse
	}
}

func (e *Engine) continueCreateTicketFlow(ctx context.Context, state conversation.State, message string) string {
	switch state.CurrentStep {
	case conversation.StepAskingName:
		return e.handleNameStep(state, message)
	case conversation.StepAskingEmail:
		return e.handleEmailStep(state, message)
	case conversation.StepAskingDescription:
		return e.handleDescriptionStep(state, message)
	case conversation.StepConfirmation:
		return e.handleConfirmationStep(ctx, state, message)
	default:
		return unknownResponse
	}
}

func (e *Engine) handleNameStep(state conversation.State, message string) string {
	name := strings.TrimSpace(message)
	if len(name) < minNameLength {
		return invalidNameResponse
	}

	state.Draft.Name = name
	state.CurrentStep = conversation.StepAskingEmail
	e.states.Update(state)

	return fmt.Sprintf("Gracias, %s.\n\nAhora, por favor indícame tu **correo electrónico**:", name)
}

func (e *Engine) handleEmailStep(state conversation.State, message string) string {
	email := strings.TrimSpace(message)
	if !emailRe.MatchString(email) {
		return invalidEmailResponse
	}

	state.Draft.Email = email
	state.CurrentStep = conversation.StepAskingDescription
	e.states.Update(state)

	return "Perfecto.\n\nAhora, por favor describe el **problema o solicitud** que deseas reportar:"
}

func (e *Engine) handleDescriptionStep(state conversation.State, message string) string {
	description := strings.TrimSpace(message)
	if len(description) < minDescriptionLength {
		return invalidDescriptionResponse
	}

	state.Draft.Description = description
	state.CurrentStep = conversation.StepConfirmation
	e.states.Update(state)

	return "Excelente. Aquí está el resumen de tu ticket:\n\n" +
		divider + "\n" +
		fmt.Sprintf("**Nombre:** %s\n", state.Draft.Name) +
		fmt.Sprintf("**Email:** %s\n", state.Draft.Email) +
		fmt.Sprintf("**Descripción:** %s\n", state.Draft.Description) +
		divider + "\n\n" +
		"¿Deseas **confirmar** la creación del ticket? (Responde **sí** o **no**)"
}

func (e *Engine) handleConfirmationStep(ctx context.Context, state conversation.State, message string) string {
	reply := strings.ToLower(strings.TrimSpace(message))

	for _, token := range affirmativeTokens {
		if strings.Contains(reply, token) {
			return e.createTicket(ctx, state)
		}
	}

	for _, token := range negativeTokens {
		if strings.Contains(reply, token) {
			state.Reset()
			e.states.Update(state)
			return cancelledCreationResponse
		}
	}

	return confirmRepromptResponse
}

func (e *Engine) createTicket(ctx context.Context, state conversation.State) string {
	draft := state.Draft
	created, err := e.tickets.CreateTicket(ctx, draft.Name, draft.Email, draft.Description)

	// The flow always ends here, success or not: the conversation never
	// stays stuck mid-flow after a create attempt, even though a failed
	// attempt discards the captured draft.
	state.Reset()
	e.states.Update(state)

	if err != nil {
		e.logger.Error("ticket creation failed", "conversation_id", state.ConversationID, "error", err)
		return createUnavailableResponse
	}
	if created == nil || created.ID == "" {
		return createFailedResponse
	}

	return fmt.Sprintf("✅ **¡Ticket creado exitosamente!**\n\n"+
		"Tu número de ticket es: **%s**\n\n"+
		"Puedes consultar el estado de tu ticket en cualquier momento escribiendo:\n"+
		"\"ver estado del ticket %s\"\n\n"+
		"¿Hay algo más en lo que pueda ayudarte?", created.ID, created.ID)
}

func (e *Engine) checkTicketStatus(ctx context.Context, ticketID string) string {
	ticket, err := e.tickets.GetTicketStatus(ctx, ticketID)
	if errors.Is(err, ticketapi.ErrNotFound) {
		return fmt.Sprintf("⚠️ No se encontró el ticket **%s**.\n\n"+
			"Por favor, verifica el número de ticket e intenta nuevamente.", ticketID)
	}
	if err != nil {
		e.logger.Error("ticket status lookup failed", "ticket_id", ticketID, "error", err)
		return statusUnavailableResponse
	}

	return fmt.Sprintf("📋 **Estado del Ticket %s**\n\n", ticket.ID) +
		divider + "\n" +
		fmt.Sprintf("**Estado:** %s\n", ticket.Status) +
		fmt.Sprintf("**Solicitante:** %s\n", ticket.Name) +
		fmt.Sprintf("**Descripción:** %s\n", ticket.Description) +
		fmt.Sprintf("**Fecha de creación:** %s\n", ticket.CreatedAt.Format("02/01/2006 15:04")) +
		divider + "\n\n" +
		"¿Hay algo más en lo que pueda ayudarte?"
}
