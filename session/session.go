// Package session holds the per-process conversation state shared by the
// command handlers.
package session

import (
	"slices"
	"sync"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Snapshot is a copy of the session state, safe to read without locking.
type Snapshot struct {
	ActiveProfile  string   `json:"active_profile,omitempty"`
	RestrictedMode bool     `json:"restricted_mode"`
	Transcript     []Turn   `json:"transcript"`
	Notes          []string `json:"notes"`
	ShoppingList   []string `json:"shopping_list"`
	Location       string   `json:"location,omitempty"`
}

// Session is mutated by the command loop and read concurrently by the
// status server.
type Session struct {
	mu sync.RWMutex

	activeProfile  string
	restrictedMode bool
	transcript     []Turn
	notes          []string
	shoppingList   []string
	location       string
}

func New() *Session {
	return &Session{}
}

func (s *Session) ActiveProfile() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.activeProfile, s.activeProfile != ""
}

// SetProfile makes name the active profile with the given mode.
func (s *Session) SetProfile(name string, restricted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeProfile = name
	s.restrictedMode = restricted
}

func (s *Session) Restricted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.restrictedMode
}

func (s *Session) SetRestricted(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restrictedMode = on
}

func (s *Session) AddTurn(role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = append(s.transcript, Turn{Role: role, Text: text})
}

func (s *Session) Transcript() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.transcript)
}

func (s *Session) AddNote(note string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = append(s.notes, note)
}

// LoadNotes replaces the notes, used once at startup with persisted notes.
func (s *Session) LoadNotes(notes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = slices.Clone(notes)
}

func (s *Session) Notes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.notes)
}

func (s *Session) AddShoppingItem(item string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shoppingList = append(s.shoppingList, item)
}

// RemoveShoppingItem removes the first occurrence of item and reports
// whether it was present.
func (s *Session) RemoveShoppingItem(item string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.shoppingList, item)
	if i < 0 {
		return false
	}

	s.shoppingList = slices.Delete(s.shoppingList, i, i+1)

	return true
}

func (s *Session) ShoppingList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.shoppingList)
}

func (s *Session) Location() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.location, s.location != ""
}

func (s *Session) SetLocation(city string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.location = city
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		ActiveProfile:  s.activeProfile,
		RestrictedMode: s.restrictedMode,
		Transcript:     slices.Clone(s.transcript),
		Notes:          slices.Clone(s.notes),
		ShoppingList:   slices.Clone(s.shoppingList),
		Location:       s.location,
	}
}
