// Package notify buffers transient, user-visible notices per client —
// the toast messages of the original UI. The UI drains its queue on the
// next page interaction; undelivered notices simply pile up until then.
package notify

import "sync"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

type Bus struct {
	mu      sync.Mutex
	pending map[string][]Notice
}

func NewBus() *Bus {
	return &Bus{pending: make(map[string][]Notice)}
}

func (b *Bus) Push(clientID string, level Level, text string) {
	if b == nil || clientID == "" || text == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[clientID] = append(b.pending[clientID], Notice{Level: level, Text: text})
}

// Drain returns and clears the client's queued notices.
func (b *Bus) Drain(clientID string) []Notice {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending[clientID]
	delete(b.pending, clientID)
	return out
}
