package storage

import (
	"context"
	"sync"
	"time"

	"stockbot/pkg"

	"github.com/cloudwego/eino/schema"
)

// MaxTranscriptMessages bounds the per-conversation transcript; older
// messages are trimmed from the head.
const MaxTranscriptMessages = 50

// Store is the persisted state boundary: one greeting record per user,
// one dialog record per conversation, one transcript per conversation.
// All records are last-write-wins per key.
type Store interface {
	GetGreeting(ctx context.Context, userID string) (pkg.GreetingState, error)
	SaveGreeting(ctx context.Context, userID string, state pkg.GreetingState) error

	GetDialogState(ctx context.Context, conversationID string) (*pkg.DialogState, error)
	SaveDialogState(ctx context.Context, state *pkg.DialogState) error

	AppendTranscript(ctx context.Context, conversationID string, messages ...*schema.Message) error
	GetTranscript(ctx context.Context, conversationID string) ([]*schema.Message, error)

	Close() error
}

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	greetings   map[string]pkg.GreetingState
	dialogs     map[string]*pkg.DialogState
	transcripts map[string][]*schema.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		greetings:   make(map[string]pkg.GreetingState),
		dialogs:     make(map[string]*pkg.DialogState),
		transcripts: make(map[string][]*schema.Message),
	}
}

// GetGreeting returns the stored greeting state, or the zero value when
// the user has none yet.
func (m *MemoryStore) GetGreeting(ctx context.Context, userID string) (pkg.GreetingState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.greetings[userID], nil
}

func (m *MemoryStore) SaveGreeting(ctx context.Context, userID string, state pkg.GreetingState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.greetings[userID] = state
	return nil
}

// GetDialogState returns the stored dialog record, or a fresh empty one
// when the conversation has none yet.
func (m *MemoryStore) GetDialogState(ctx context.Context, conversationID string) (*pkg.DialogState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if state, ok := m.dialogs[conversationID]; ok {
		clone := *state
		return &clone, nil
	}
	return newDialogState(conversationID), nil
}

func (m *MemoryStore) SaveDialogState(ctx context.Context, state *pkg.DialogState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state.UpdatedAt = time.Now().Unix()
	clone := *state
	m.dialogs[state.ConversationID] = &clone
	return nil
}

func (m *MemoryStore) AppendTranscript(ctx context.Context, conversationID string, messages ...*schema.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	transcript := append(m.transcripts[conversationID], messages...)
	m.transcripts[conversationID] = trimTail(transcript, MaxTranscriptMessages)
	return nil
}

func (m *MemoryStore) GetTranscript(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transcripts[conversationID], nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func newDialogState(conversationID string) *pkg.DialogState {
	return &pkg.DialogState{
		ConversationID: conversationID,
		Status:         pkg.DialogStatusEmpty,
	}
}

func trimTail(messages []*schema.Message, max int) []*schema.Message {
	if len(messages) <= max {
		return messages
	}
	return messages[len(messages)-max:]
}
