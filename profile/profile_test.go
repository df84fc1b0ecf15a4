package profile

import (
	"errors"
	"testing"
	"time"

	"coco-assistant/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	saved   map[string]Profile
	saves   int
	failing bool
}

func (s *memStore) Load() (map[string]Profile, error) {
	out := make(map[string]Profile, len(s.saved))
	for k, v := range s.saved {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) Save(profiles map[string]Profile) error {
	if s.failing {
		return errors.New("disk full")
	}

	s.saves++
	s.saved = make(map[string]Profile, len(profiles))
	for k, v := range profiles {
		s.saved[k] = v
	}
	return nil
}

func fixedNow(date string) func() time.Time {
	t, _ := time.Parse(DateLayout, date)
	return func() time.Time { return t.Add(15 * time.Hour) }
}

func newManager(t *testing.T, store *memStore, now string) *Manager {
	t.Helper()

	m, err := NewManager(&Config{Store: store, Now: fixedNow(now)})
	require.NoError(t, err)

	return m
}

func TestAge(t *testing.T) {
	dob, err := ParseDOB("2015-01-01")
	require.NoError(t, err)

	p := Profile{Name: "sam", DOB: dob}

	assert.Equal(t, 9, p.Age(fixedNow("2024-06-01")()))
	assert.Equal(t, 0, p.Age(fixedNow("2014-06-01")()), "future birth dates count as zero")

	// 365-day years run ahead of birthdays by the leap days in between
	assert.Equal(t, 12, p.Age(fixedNow("2027-12-28")()))
	assert.Equal(t, 13, p.Age(fixedNow("2027-12-29")()))
}

func TestNewManager(t *testing.T) {
	_, err := NewManager(nil)
	assert.Error(t, err)

	_, err = NewManager(&Config{})
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	store := &memStore{}
	m := newManager(t, store, "2024-06-01")

	_, err := m.Create("sam", "2015-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)

	_, err = m.Create("sam", "1980-05-05")
	require.NoError(t, err, "duplicates overwrite")
	assert.Equal(t, 1980, store.saved["sam"].DOB.Year())

	_, err = m.Create("alex", "yesterday")
	assert.ErrorIs(t, err, ErrInvalidDOB)
	assert.Len(t, store.saved, 1)
}

func TestCreateSaveFailure(t *testing.T) {
	store := &memStore{failing: true}
	m := newManager(t, store, "2024-06-01")

	_, err := m.Create("sam", "2015-01-01")
	require.Error(t, err)

	_, ok := m.Get("sam")
	assert.False(t, ok)
}

func TestSwitch(t *testing.T) {
	store := &memStore{}
	m := newManager(t, store, "2024-06-01")
	sess := session.New()

	_, err := m.Create("sam", "2015-01-01")
	require.NoError(t, err)
	_, err = m.Create("pat", "1985-03-10")
	require.NoError(t, err)

	_, _, err = m.Switch(sess, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, age, err := m.Switch(sess, "sam")
	require.NoError(t, err)
	assert.Equal(t, 9, age)
	assert.True(t, sess.Restricted())

	_, age, err = m.Switch(sess, "pat")
	require.NoError(t, err)
	assert.Equal(t, 39, age)
	assert.False(t, sess.Restricted())

	name, _ := sess.ActiveProfile()
	assert.Equal(t, "pat", name)
}

func TestToggleMode(t *testing.T) {
	store := &memStore{}
	m := newManager(t, store, "2024-06-01")
	sess := session.New()

	_, err := m.ToggleMode(sess)
	assert.ErrorIs(t, err, ErrNoProfile)
	assert.False(t, sess.Restricted())

	_, err = m.Create("sam", "2015-01-01")
	require.NoError(t, err)
	_, _, err = m.Switch(sess, "sam")
	require.NoError(t, err)

	_, err = m.ToggleMode(sess)
	assert.ErrorIs(t, err, ErrAdultsOnly)
	assert.True(t, sess.Restricted())

	_, err = m.Create("pat", "1985-03-10")
	require.NoError(t, err)
	_, _, err = m.Switch(sess, "pat")
	require.NoError(t, err)

	on, err := m.ToggleMode(sess)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, sess.Restricted())

	on, err = m.ToggleMode(sess)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestLoadsPersisted(t *testing.T) {
	dob, _ := ParseDOB("2001-02-03")
	store := &memStore{saved: map[string]Profile{"kim": {Name: "kim", DOB: dob}}}

	m := newManager(t, store, "2024-06-01")

	p, ok := m.Get("kim")
	require.True(t, ok)
	assert.Equal(t, dob, p.DOB)
	assert.Equal(t, []Profile{p}, m.List())
}
