// ABOUTME: Keyword and regex based intent classification for inbound messages
// ABOUTME: Deterministic matching with a fixed priority order, no NLU

package intent

import (
	"regexp"
	"strings"
)

// Intent identifies what the user wants from a single message.
type Intent int

const (
	Unknown Intent = iota
	CreateTicket
	Cancel
	CheckTicketStatus
	Greeting
	Help
)

// String returns a human-readable name for logging.
func (i Intent) String() string {
	switch i {
	case CreateTicket:
		return "create_ticket"
	case Cancel:
		return "cancel"
	case CheckTicketStatus:
		return "check_ticket_status"
	case Greeting:
		return "greeting"
	case Help:
		return "help"
	default:
		return "unknown"
	}
}

// Result carries the classified intent plus the ticket id for status checks.
type Result struct {
	Intent   Intent
	TicketID string
}

var (
	// Requires a status/view/check verb, then "ticket"/"tck", then an id
	// fragment. Runs against the original-case message so the digit/letter
	// grouping of the id survives normalization.
	ticketStatusRe = regexp.MustCompile(`(?i)(?:ver|consultar|estado|status|revisar).*(?:ticket|tck)[- ]?(\w+-?\d+)`)

	// A bare canonical id mentioned anywhere in the message.
	ticketIDOnlyRe = regexp.MustCompile(`(?i)(TCK-\d+)`)
)

var cancelPhrases = []string{
	"cancelar",
	"cancel",
	"salir",
	"terminar",
	"abandonar",
}

var createTicketPhrases = []string{
	"crear ticket",
	"crear un ticket",
	"quiero crear un ticket",
	"necesito crear un ticket",
	"abrir ticket",
	"nuevo ticket",
	"reportar problema",
	"tengo un problema",
}

var greetingPhrases = []string{
	"hola",
	"hello",
	"hi",
	"buenos días",
	"buenas tardes",
	"buenas noches",
	"hey",
}

var helpPhrases = []string{
	"ayuda",
	"help",
	"qué puedes hacer",
	"opciones",
	"menú",
}

// Classify maps a free-form message to an intent. The priority order is a
// product contract: cancellation outranks every other signal, so a phrase
// added to a later category must never shadow an earlier one ("cancelar
// ticket" cancels, it does not create).
func Classify(message string) Result {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return Result{Intent: Unknown}
	}

	for _, phrase := range cancelPhrases {
		if strings.Contains(normalized, phrase) {
			return Result{Intent: Cancel}
		}
	}

	if m := ticketStatusRe.FindStringSubmatch(message); m != nil {
		id := strings.ToUpper(m[1])
		if !strings.HasPrefix(id, "TCK-") {
			id = "TCK-" + id
		}
		return Result{Intent: CheckTicketStatus, TicketID: id}
	}

	// A lone ticket id only counts as a status check when the message also
	// carries a status-ish keyword; a passing mention stays unclassified.
	if m := ticketIDOnlyRe.FindStringSubmatch(message); m != nil {
		if strings.Contains(normalized, "estado") || strings.Contains(normalized, "ver") || strings.Contains(normalized, "consultar") {
			return Result{Intent: CheckTicketStatus, TicketID: strings.ToUpper(m[1])}
		}
	}

	for _, phrase := range createTicketPhrases {
		if strings.Contains(normalized, phrase) {
			return Result{Intent: CreateTicket}
		}
	}

	for _, phrase := range greetingPhrases {
		if strings.HasPrefix(normalized, phrase) || normalized == phrase {
			return Result{Intent: Greeting}
		}
	}

	for _, phrase := range helpPhrases {
		if strings.Contains(normalized, phrase) {
			return Result{Intent: Help}
		}
	}

	return Result{Intent: Unknown}
}
