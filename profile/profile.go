// Package profile manages user profiles and the kids mode derived from them.
package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"coco-assistant/session"
)

const (
	DateLayout = "2006-01-02"
	// KidsAge is the highest age that runs in kids mode.
	KidsAge = 12
)

var (
	ErrNotFound   = errors.New("profile not found")
	ErrNoProfile  = errors.New("no profile selected")
	ErrAdultsOnly = errors.New("only adults can toggle kids mode")
	ErrInvalidDOB = errors.New("date of birth must be YYYY-MM-DD")
)

type Profile struct {
	Name string
	DOB  time.Time
}

// Age is the number of whole days lived divided by 365.
func (p Profile) Age(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	born := time.Date(p.DOB.Year(), p.DOB.Month(), p.DOB.Day(), 0, 0, 0, 0, time.UTC)

	days := int(today.Sub(born).Hours() / 24)
	if days < 0 {
		return 0
	}

	return days / 365
}

func IsKid(age int) bool {
	return age <= KidsAge
}

// Store persists the full profile set.
type Store interface {
	Load() (map[string]Profile, error)
	Save(profiles map[string]Profile) error
}

type Manager struct {
	mu       sync.Mutex
	store    Store
	profiles map[string]Profile
	now      func() time.Time
}

type Config struct {
	Store Store
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewManager loads the persisted profiles.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}

	profiles, err := cfg.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	if profiles == nil {
		profiles = make(map[string]Profile)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		store:    cfg.Store,
		profiles: profiles,
		now:      now,
	}, nil
}

// ParseDOB parses a YYYY-MM-DD date of birth.
func ParseDOB(s string) (time.Time, error) {
	dob, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDOB, s)
	}

	return dob, nil
}

// Create stores a profile, replacing any profile with the same name, and
// rewrites the store.
func (m *Manager) Create(name, dob string) (Profile, error) {
	born, err := ParseDOB(dob)
	if err != nil {
		return Profile{}, err
	}

	p := Profile{Name: name, DOB: born}

	m.mu.Lock()
	defer m.mu.Unlock()

	previous, existed := m.profiles[name]
	m.profiles[name] = p

	if err := m.store.Save(m.profiles); err != nil {
		if existed {
			m.profiles[name] = previous
		} else {
			delete(m.profiles, name)
		}
		return Profile{}, fmt.Errorf("save profiles: %w", err)
	}

	return p, nil
}

// Switch activates the named profile and sets kids mode from its age.
func (m *Manager) Switch(sess *session.Session, name string) (Profile, int, error) {
	m.mu.Lock()
	p, ok := m.profiles[name]
	m.mu.Unlock()

	if !ok {
		return Profile{}, 0, ErrNotFound
	}

	age := p.Age(m.now())
	sess.SetProfile(name, IsKid(age))

	return p, age, nil
}

// ToggleMode flips kids mode for an adult profile and returns the new mode.
func (m *Manager) ToggleMode(sess *session.Session) (bool, error) {
	name, ok := sess.ActiveProfile()
	if !ok {
		return false, ErrNoProfile
	}

	m.mu.Lock()
	p, ok := m.profiles[name]
	m.mu.Unlock()

	if !ok {
		return false, ErrNotFound
	}

	if IsKid(p.Age(m.now())) {
		return false, ErrAdultsOnly
	}

	on := !sess.Restricted()
	sess.SetRestricted(on)

	return on, nil
}

func (m *Manager) Get(name string) (Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[name]
	return p, ok
}

// List returns all profiles sorted by name.
func (m *Manager) List() []Profile {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
