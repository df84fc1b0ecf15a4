package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		text string
		want Match
	}{
		{"what time is it", Match{Intent: Time}},
		{"what's the date today", Match{Intent: Date}},
		{"what's the weather in new york", Match{Intent: Weather, Arg: "new york"}},
		{"weather", Match{Intent: Weather}},
		{"how is the weather in the morning in paris", Match{Intent: Weather, Arg: "paris"}},
		{"search wikipedia for alan turing", Match{Intent: Wiki, Arg: "for alan turing"}},
		{"play baby shark", Match{Intent: Music, Arg: "baby shark"}},
		{"tell me a joke", Match{Intent: Joke}},
		{"read the news", Match{Intent: News}},
		{"open google", Match{Intent: Website, Arg: "google"}},
		{"change voice", Match{Intent: ChangeVoice}},
		{"set timer for 5 minutes", Match{Intent: SetTimer, Seconds: 300}},
		{"set timer for 2 hours", Match{Intent: SetTimer, Seconds: 7200}},
		{"set timer for 45 seconds", Match{Intent: SetTimer, Seconds: 45}},
		{"set timer for ten minutes", Match{Intent: SetTimer, Seconds: 600}},
		{"set timer for abc", Match{Intent: SetTimer, Usage: UsageTimer}},
		{"remind me to call mom in 10 minutes", Match{Intent: Reminder, Seconds: 600, Message: "call mom"}},
		{"remind me in an hour to go to bed", Match{Intent: Reminder, Seconds: 3600, Message: "go to bed"}},
		{"remind me to call mom", Match{Intent: Reminder, Usage: UsageReminderTime}},
		{"remind me in 5 minutes", Match{Intent: Reminder, Usage: UsageReminderWhat}},
		{"take a note buy milk", Match{Intent: TakeNote, Arg: "buy milk"}},
		{"note that the keys are in the drawer", Match{Intent: TakeNote, Arg: "that the keys are in the drawer"}},
		{"read notes", Match{Intent: ReadNotes}},
		{"calculate 2 plus 2", Match{Intent: Calculate, Arg: "2 plus 2"}},
		{"what is 7 times 6", Match{Intent: Calculate, Arg: "7 times 6"}},
		{"translate good morning into spanish", Match{Intent: Translate, Arg: "good morning into spanish"}},
		{"read recipe for pancakes", Match{Intent: Recipe, Arg: "pancakes"}},
		{"sing happy birthday", Match{Intent: Sing, Arg: "happy birthday"}},
		{"add to shopping list milk", Match{Intent: ShoppingAdd, Arg: "milk"}},
		{"remove from shopping list milk", Match{Intent: ShoppingRemove, Arg: "milk"}},
		{"read shopping list", Match{Intent: ShoppingRead}},
		{"convert 100 celsius to fahrenheit", Match{Intent: Convert, Value: 100, From: "celsius", To: "fahrenheit"}},
		{"convert 10 feet to meters", Match{Intent: Convert, Value: 10, From: "feet", To: "meters"}},
		{"convert celsius", Match{Intent: Convert, Usage: UsageConvert}},
		{"convert celsius to fahrenheit", Match{Intent: Convert, Usage: UsageConvertValue}},
		{"convert lots celsius to fahrenheit", Match{Intent: Convert, Usage: UsageConvertValue}},
		{"tell a story", Match{Intent: Story}},
		{"guess the number", Match{Intent: Game}},
		{"help with math 12 divided by 4", Match{Intent: MathHelp, Arg: "12 divided by 4"}},
		{"create profile sam born on 2015-01-01", Match{Intent: CreateProfile, Arg: "sam", DOB: "2015-01-01"}},
		{"create profile sam", Match{Intent: CreateProfile, Usage: UsageCreateProfile}},
		{"create profile born on 2015-01-01", Match{Intent: CreateProfile, Usage: UsageCreateProfile}},
		{"switch to profile sam", Match{Intent: SwitchProfile, Arg: "sam"}},
		{"toggle kids mode", Match{Intent: ToggleMode}},
		{"stop", Match{Intent: Stop}},
		{"exit", Match{Intent: Stop}},
		{"how are you", Match{Intent: Chat, Arg: "how are you"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Route(tt.text, false))
		})
	}
}

func TestRoutePrecedence(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		text string
		want Intent
	}{
		// earlier rules shadow later ones
		{"play a game", Music},
		{"what is the time", Time},
		{"what is the weather", Weather},
		{"open the news", News},
		{"take a news note", News},
		{"search for the time", Time},
		{"sing me the news", News},
		// whole words only
		{"set timer for 1 minute", SetTimer},
		{"read notes please", ReadNotes},
		{"read my notes", Chat},
		{"update my calendar", Chat},
		{"singing in the rain", Chat},
		{"stopwatch", Chat},
		// "timer" alone is not the set timer trigger, so stop wins
		{"stop the timer", Stop},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Route(tt.text, false).Intent)
		})
	}
}

func TestRouteRestricted(t *testing.T) {
	r := NewRouter()

	for _, text := range []string{
		"read the news",
		"open facebook",
		"open youtube please",
		"tell me the newsletter",
	} {
		assert.Equal(t, Match{Intent: Restricted}, r.Route(text, true), text)
	}

	assert.Equal(t, Website, r.Route("open google", true).Intent)
	assert.Equal(t, Joke, r.Route("tell me a joke", true).Intent)
	assert.Equal(t, News, r.Route("read the news", false).Intent)
}

func TestIntents(t *testing.T) {
	intents := NewRouter().Intents()

	assert.Len(t, intents, 28)
	assert.Equal(t, Time, intents[0])
	assert.Equal(t, Stop, intents[len(intents)-1])
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"7", 7, true},
		{"seven", 7, true},
		{" Twelve ", 12, true},
		{"twenty", 20, true},
		{"twenty five", 25, true},
		{"twenty-five", 25, true},
		{"twenty ten", 0, false},
		{"-3", 0, false},
		{"lots", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"5 minutes", 300, true},
		{"1 hour", 3600, true},
		{"30seconds", 30, true},
		{"a minute", 60, true},
		{"seventeen seconds", 17, true},
		{"twenty five minutes", 1500, true},
		{"five", 0, false},
		{"minutes", 0, false},
		{"3000000 hours", 0, false},
		{"99999999999 hours", 0, false},
		{"99999999999999999999 seconds", 0, false},
		{"2562047 hours", 2562047 * 3600, true},
	}

	for _, tt := range tests {
		got, ok := ParseDuration(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRouteOversizedDuration(t *testing.T) {
	r := NewRouter()

	m := r.Route("set timer for 3000000 hours", false)
	assert.Equal(t, SetTimer, m.Intent)
	assert.Equal(t, UsageTimer, m.Usage)
	assert.Zero(t, m.Seconds)

	m = r.Route("remind me to stretch in 99999999999 hours", false)
	assert.Equal(t, Reminder, m.Intent)
	assert.Equal(t, UsageReminderTime, m.Usage)
}
