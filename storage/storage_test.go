package storage

import (
	"testing"

	"coco-assistant/profile"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileStore(t *testing.T) {
	fs := afero.NewMemMapFs()

	store, err := NewProfileStore(fs, "data/profiles.json")
	require.NoError(t, err)

	profiles, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, profiles, "missing file means no profiles")

	dob, err := profile.ParseDOB("2015-01-01")
	require.NoError(t, err)

	require.NoError(t, store.Save(map[string]profile.Profile{"sam": {Name: "sam", DOB: dob}}))

	data, err := afero.ReadFile(fs, "data/profiles.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sam":{"dob":"2015-01-01"}}`, string(data))

	exists, err := afero.Exists(fs, "data/profiles.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	profiles, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]profile.Profile{"sam": {Name: "sam", DOB: dob}}, profiles)
}

func TestProfileStoreFullRewrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "profiles.json", []byte(`{"old":{"dob":"1990-01-01"}}`), 0o644))

	store, err := NewProfileStore(fs, "profiles.json")
	require.NoError(t, err)

	dob, _ := profile.ParseDOB("2000-12-31")
	require.NoError(t, store.Save(map[string]profile.Profile{"new": {Name: "new", DOB: dob}}))

	data, err := afero.ReadFile(fs, "profiles.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"new":{"dob":"2000-12-31"}}`, string(data))
}

func TestProfileStoreCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "profiles.json", []byte(`{"sam":{"dob":"soon"}}`), 0o644))

	store, err := NewProfileStore(fs, "profiles.json")
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, profile.ErrInvalidDOB)
}

func TestNoteStore(t *testing.T) {
	fs := afero.NewMemMapFs()

	store, err := NewNoteStore(fs, "data/notes.txt")
	require.NoError(t, err)

	notes, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, notes)

	require.NoError(t, store.Append("buy milk"))
	require.NoError(t, store.Append("call grandma\ntomorrow"))

	data, err := afero.ReadFile(fs, "data/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "buy milk\ncall grandma tomorrow\n", string(data))

	notes, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"buy milk", "call grandma tomorrow"}, notes)
}

func TestNewStores(t *testing.T) {
	_, err := NewProfileStore(nil, "x")
	assert.Error(t, err)

	_, err = NewNoteStore(afero.NewMemMapFs(), "")
	assert.Error(t, err)
}
