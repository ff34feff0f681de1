// Package setlist merges the administrator and user partitions of vocabulary
// sets into one list and keeps it in step with deletions.
package setlist

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Origin tells which partition a set came from.
type Origin int

const (
	Admin Origin = iota
	User
)

func (o Origin) String() string {
	if o == Admin {
		return "admin"
	}
	return "user"
}

// SetSummary is one row of the aggregated list.
type SetSummary struct {
	ID        int64
	Title     string
	UpdatedAt time.Time
	Origin    Origin
}

// Aggregate concatenates admin then user, preserving the order within each
// partition.
func Aggregate(admin, user []SetSummary) []SetSummary {
	out := make([]SetSummary, 0, len(admin)+len(user))
	out = append(out, admin...)
	return append(out, user...)
}

// RemoveByID returns list without the first entry whose ID is id. A missing
// id returns the list unchanged. The input slice is not modified.
func RemoveByID(list []SetSummary, id int64) []SetSummary {
	for i, s := range list {
		if s.ID != id {
			continue
		}
		out := make([]SetSummary, 0, len(list)-1)
		out = append(out, list[:i]...)
		return append(out, list[i+1:]...)
	}
	return list
}

// Backend is the server side of the list.
type Backend interface {
	Fetch(ctx context.Context) (admin, user []SetSummary, err error)
	Delete(ctx context.Context, id int64) error
}

// Confirmer asks the user before a destructive call.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Manager holds the aggregated list shown to the user.
type Manager struct {
	Backend   Backend
	Confirmer Confirmer
	// Logger receives load and delete failures. nil means no logging.
	Logger *log.Logger

	list []SetSummary
}

// NewManager creates a manager with an empty list.
func NewManager(b Backend, c Confirmer) *Manager {
	return &Manager{Backend: b, Confirmer: c}
}

// List returns the current list.
func (m *Manager) List() []SetSummary {
	return append([]SetSummary(nil), m.list...)
}

// Load replaces the list with a fresh fetch. On error the previous list is kept.
func (m *Manager) Load(ctx context.Context) error {
	admin, user, err := m.Backend.Fetch(ctx)
	if err != nil {
		m.logf("load sets: %v", err)
		return fmt.Errorf("load sets: %w", err)
	}
	m.list = Aggregate(admin, user)
	return nil
}

// Delete asks for confirmation, deletes the set on the server and then drops
// it from the list. It reports whether the delete was carried out; a declined
// confirmation is not an error. A nil Confirmer declines every delete.
func (m *Manager) Delete(ctx context.Context, id int64) (bool, error) {
	if m.Confirmer == nil || !m.Confirmer.Confirm(fmt.Sprintf("Delete set #%d?", id)) {
		return false, nil
	}
	if err := m.Backend.Delete(ctx, id); err != nil {
		m.logf("delete set %d: %v", id, err)
		return false, fmt.Errorf("delete set %d: %w", id, err)
	}
	m.list = RemoveByID(m.list, id)
	return true, nil
}

func (m *Manager) logf(format string, args ...interface{}) {
	if m.Logger != nil {
		m.Logger.Printf(format, args...)
	}
}
