// Package pending tracks the multi-line forms a chat is expected to answer
// with its next text message.
package pending

import (
	"context"
	"sync"
	"time"
)

// Timeout is how long a started form waits for its answer.
const Timeout = 10 * time.Minute

type Kind int

const (
	KindNewPrompt Kind = iota + 1
	KindEditPrompt
	KindNewTopic
	KindEditTopic
)

// Form is the answer a user owes. PromptID is set for KindEditPrompt and
// TopicID for KindEditTopic.
type Form struct {
	Kind      Kind
	ChatID    int64
	PromptID  int
	TopicID   string
	ExpiresAt time.Time
}

type Manager struct {
	mu      sync.Mutex
	pending map[int64]Form
	now     func() time.Time
}

func NewManager(now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		pending: make(map[int64]Form),
		now:     now,
	}
}

// Start replaces any form the user already had open.
func (m *Manager) Start(userID int64, form Form, now time.Time, timeout time.Duration) {
	if m == nil || userID == 0 || form.ChatID == 0 || form.Kind == 0 {
		return
	}
	if now.IsZero() {
		now = m.now()
	}
	form.ExpiresAt = now.Add(timeout)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[userID] = form
}

// Consume returns and clears the user's open form for chatID. Expired forms
// are cleared and not returned.
func (m *Manager) Consume(userID, chatID int64, now time.Time) (Form, bool) {
	if m == nil || userID == 0 || chatID == 0 {
		return Form{}, false
	}
	if now.IsZero() {
		now = m.now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	form, ok := m.pending[userID]
	if !ok || form.ChatID != chatID {
		return Form{}, false
	}
	delete(m.pending, userID)
	if form.ExpiresAt.IsZero() || !now.Before(form.ExpiresAt) {
		return Form{}, false
	}
	return form, true
}

// Cancel drops the user's open form and reports whether there was one.
func (m *Manager) Cancel(userID int64) bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[userID]
	delete(m.pending, userID)
	return ok
}

func (m *Manager) SweepExpired(now time.Time) {
	if m == nil {
		return
	}
	if now.IsZero() {
		now = m.now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, form := range m.pending {
		if form.ExpiresAt.IsZero() || !now.Before(form.ExpiresAt) {
			delete(m.pending, userID)
		}
	}
}

func (m *Manager) StartSweeper(ctx context.Context) {
	if m == nil || ctx == nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SweepExpired(m.now())
		}
	}
}
