// ABOUTME: Wire types for the external ticket service API
// ABOUTME: JSON shapes for token exchange, ticket creation and status lookup

package ticketapi

import "time"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type createTicketRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

// CreateTicketResponse is returned by the ticket service when a ticket is
// created successfully.
type CreateTicketResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// TicketStatus describes an existing ticket.
type TicketStatus struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
