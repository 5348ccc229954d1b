// Package intent classifies inbound Spanish-language messages into bot
// intents using keyword and pattern matching. Classification is deterministic;
// the same message always yields the same intent.
package intent
