// Package conversation tracks per-conversation dialogue state.
//
// # State
//
// Each conversation is identified by an opaque string id and carries at most
// one active flow with a current step and a draft of collected answers:
//
//	state := store.GetOrCreate("conv-1")
//	state.ActiveFlow = conversation.FlowCreateTicket
//	store.Update(state)
//
// States are value types. The store hands out copies, so a handler can mutate
// its local state freely and commits a turn's outcome with a single Update.
// Conversations that were never seen behave exactly like idle ones.
//
// # Concurrency
//
// The store shards its map by conversation id. Turns in different
// conversations never contend on the same lock; turns in the same
// conversation serialize per shard.
package conversation
