package assistant

import (
	"strings"
)

func (a *Assistant) takeNote(note string) {
	note = strings.TrimSpace(note)

	if err := a.notes.Append(note); err != nil {
		a.log.Error("failed to persist note", "error", err)
		a.say("Sorry, I couldn't save that note.")
		return
	}

	a.sess.AddNote(note)
	a.say("Note taken.")
}

func (a *Assistant) readNotes() {
	notes := a.sess.Notes()
	if len(notes) == 0 {
		a.say("You have no notes.")
		return
	}

	a.say("Your notes are:")
	for _, note := range notes {
		a.say(note)
	}
}

func (a *Assistant) addShoppingItem(item string) {
	a.sess.AddShoppingItem(item)
	a.say("Added " + item + " to shopping list.")
}

func (a *Assistant) removeShoppingItem(item string) {
	if !a.sess.RemoveShoppingItem(item) {
		a.say("Item not found in shopping list.")
		return
	}

	a.say("Removed " + item + " from shopping list.")
}

func (a *Assistant) readShoppingList() {
	items := a.sess.ShoppingList()
	if len(items) == 0 {
		a.say("Your shopping list is empty.")
		return
	}

	a.say("Your shopping list:")
	for _, item := range items {
		a.say(item)
	}
}
