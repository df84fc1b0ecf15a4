package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShoppingList(t *testing.T) {
	s := New()

	s.AddShoppingItem("milk")
	s.AddShoppingItem("bread")
	s.AddShoppingItem("milk")

	assert.True(t, s.RemoveShoppingItem("milk"))
	assert.Equal(t, []string{"bread", "milk"}, s.ShoppingList(), "only the first occurrence is removed")

	assert.False(t, s.RemoveShoppingItem("eggs"))
	assert.Equal(t, []string{"bread", "milk"}, s.ShoppingList())
}

func TestReadsDoNotAlias(t *testing.T) {
	s := New()
	s.AddNote("buy stamps")

	notes := s.Notes()
	notes[0] = "changed"

	assert.Equal(t, []string{"buy stamps"}, s.Notes())
}

func TestProfileAndMode(t *testing.T) {
	s := New()

	_, ok := s.ActiveProfile()
	assert.False(t, ok)
	assert.False(t, s.Restricted())

	s.SetProfile("sam", true)

	name, ok := s.ActiveProfile()
	assert.True(t, ok)
	assert.Equal(t, "sam", name)
	assert.True(t, s.Restricted())

	s.SetRestricted(false)
	assert.False(t, s.Restricted())
}

func TestSnapshot(t *testing.T) {
	s := New()
	s.LoadNotes([]string{"old note"})
	s.AddTurn(RoleUser, "hello")
	s.AddTurn(RoleAssistant, "hi")
	s.SetLocation("paris")

	snap := s.Snapshot()

	assert.Equal(t, []string{"old note"}, snap.Notes)
	assert.Equal(t, []Turn{{RoleUser, "hello"}, {RoleAssistant, "hi"}}, snap.Transcript)
	assert.Equal(t, "paris", snap.Location)
	assert.Empty(t, snap.ShoppingList)
}

func TestConcurrentAccess(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.AddTurn(RoleUser, "x")
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	assert.Len(t, s.Transcript(), 10)
}
