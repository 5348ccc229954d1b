// Package botapi exposes the dialogue engine over HTTP. A single POST
// /messages route accepts (conversation_id, message) pairs and returns the
// bot's reply as text plus an HTML rendering for web frontends.
package botapi
