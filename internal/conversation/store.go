// ABOUTME: Concurrent keyed store of per-conversation dialogue state
// ABOUTME: Sharded locks so distinct conversations never block each other

package conversation

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

type shard struct {
	mu     sync.Mutex
	states map[string]State
}

// Store keeps one State per conversation id. States are copied on the way in
// and out, so two callers never share a mutable draft. Conversations are
// reset to defaults rather than removed; the store grows with the number of
// distinct ids seen.
type Store struct {
	shards [shardCount]*shard
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{states: make(map[string]State)}
	}
	return s
}

func (s *Store) shardFor(id string) *shard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return s.shards[h.Sum32()%shardCount]
}

// GetOrCreate returns the state for id, atomically inserting a default one
// if the conversation has not been seen before.
func (s *Store) GetOrCreate(id string) State {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	state, ok := sh.states[id]
	if !ok {
		state = State{ConversationID: id}
		sh.states[id] = state
	}
	return state
}

// Update replaces the stored state keyed by its conversation id.
func (s *Store) Update(state State) {
	sh := s.shardFor(state.ConversationID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.states[state.ConversationID] = state
}

// Reset restores default fields for id if present. No-op for unknown ids.
func (s *Store) Reset(id string) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if state, ok := sh.states[id]; ok {
		state.Reset()
		sh.states[id] = state
	}
}
