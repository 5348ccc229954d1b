// Package dialogue turns inbound messages into bot replies.
//
// The Engine is the orchestration point: it classifies each message, consults
// the conversation state, advances the create-ticket flow step by step, and
// calls the ticket service when a flow completes or a status check is
// requested. Every turn produces a user-visible reply; service failures
// degrade to apologetic messages rather than errors.
//
// Cancellation wins over everything. Inside an active flow all other messages
// are treated as answers to the current question, never as fresh intents.
package dialogue
