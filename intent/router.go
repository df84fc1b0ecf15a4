// Package intent maps transcribed utterances to commands.
//
// Rules are checked in a fixed order and the first rule with a matching
// trigger wins, so overlapping triggers resolve by position: "play a game"
// plays music, and "what is the time" tells the time. Triggers match whole
// words: "time" does not match "timer" and "note" does not match "notes".
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

type Intent string

const (
	Restricted     Intent = "restricted"
	Time           Intent = "time"
	Date           Intent = "date"
	Weather        Intent = "weather"
	Wiki           Intent = "wiki"
	Music          Intent = "music"
	Joke           Intent = "joke"
	News           Intent = "news"
	Website        Intent = "website"
	ChangeVoice    Intent = "change_voice"
	SetTimer       Intent = "set_timer"
	Reminder       Intent = "reminder"
	TakeNote       Intent = "take_note"
	ReadNotes      Intent = "read_notes"
	Calculate      Intent = "calculate"
	Translate      Intent = "translate"
	Recipe         Intent = "recipe"
	Sing           Intent = "sing"
	ShoppingAdd    Intent = "shopping_add"
	ShoppingRemove Intent = "shopping_remove"
	ShoppingRead   Intent = "shopping_read"
	Convert        Intent = "convert"
	Story          Intent = "story"
	Game           Intent = "game"
	MathHelp       Intent = "math_help"
	CreateProfile  Intent = "create_profile"
	SwitchProfile  Intent = "switch_profile"
	ToggleMode     Intent = "toggle_mode"
	Stop           Intent = "stop"
	Chat           Intent = "chat"
)

const (
	UsageTimer         = "Please specify duration, like 'set timer for 5 minutes'"
	UsageReminderTime  = "Please specify time, like 'remind me to call mom in 10 minutes'"
	UsageReminderWhat  = "What should I remind you about?"
	UsageConvertValue  = "Please specify value and units, like 'convert 10 celsius to fahrenheit'"
	UsageConvert       = "Please say 'convert [value] [from] to [to]'"
	UsageCreateProfile = "Please say 'create profile [name] born on [YYYY-MM-DD]'"
)

// restrictedPhrases are refused in kids mode. They match anywhere in the
// text, including inside longer words.
var restrictedPhrases = []string{"news", "open facebook", "open youtube"}

// Match is the routing result. Only the fields relevant to Intent are set.
// A non-empty Usage means the arguments could not be parsed and the command
// must not run.
type Match struct {
	Intent Intent
	// Arg is the free-text argument: city, query, song, site, note,
	// expression, item, dish, problem, profile name or the whole utterance.
	Arg     string
	Seconds int
	Message string
	Value   float64
	From    string
	To      string
	DOB     string
	Usage   string
}

type rule struct {
	intent   Intent
	triggers []*regexp.Regexp
	parse    func(text string, m *Match)
}

type Router struct {
	rules []rule
}

func NewRouter() *Router {
	return &Router{rules: defaultRules()}
}

// Route classifies text, which must already be lowercase.
func (r *Router) Route(text string, restricted bool) Match {
	text = strings.TrimSpace(text)

	if restricted {
		for _, phrase := range restrictedPhrases {
			if strings.Contains(text, phrase) {
				return Match{Intent: Restricted}
			}
		}
	}

	for _, rl := range r.rules {
		if !rl.matches(text) {
			continue
		}

		m := Match{Intent: rl.intent}
		if rl.parse != nil {
			rl.parse(text, &m)
		}

		return m
	}

	return Match{Intent: Chat, Arg: text}
}

// Intents lists the rule intents in priority order.
func (r *Router) Intents() []Intent {
	out := make([]Intent, 0, len(r.rules))
	for _, rl := range r.rules {
		out = append(out, rl.intent)
	}
	return out
}

func (rl rule) matches(text string) bool {
	for _, t := range rl.triggers {
		if t.MatchString(text) {
			return true
		}
	}
	return false
}

func word(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
}

func newRule(intent Intent, parse func(string, *Match), triggers ...string) rule {
	rl := rule{intent: intent, parse: parse}
	for _, t := range triggers {
		rl.triggers = append(rl.triggers, word(t))
	}
	return rl
}

// strip removes whole-word occurrences of each phrase and tidies spacing.
func strip(text string, phrases ...string) string {
	for _, p := range phrases {
		text = word(p).ReplaceAllString(text, " ")
	}
	return strings.Join(strings.Fields(text), " ")
}

// argOf returns a parser that stores text minus phrases in Arg.
func argOf(phrases ...string) func(string, *Match) {
	return func(text string, m *Match) {
		m.Arg = strip(text, phrases...)
	}
}

var (
	inWord     = word("in")
	toWord     = word("to")
	bornOnWord = word("born on")
)

func parseWeather(text string, m *Match) {
	locs := inWord.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return
	}

	m.Arg = strings.TrimSpace(text[locs[len(locs)-1][1]:])
}

func parseTimer(text string, m *Match) {
	seconds, ok := ParseDuration(text)
	if !ok {
		m.Usage = UsageTimer
		return
	}

	m.Seconds = seconds
}

func parseReminder(text string, m *Match) {
	if !toWord.MatchString(text) {
		m.Usage = UsageReminderWhat
		return
	}

	d := inDurationRe.FindStringSubmatchIndex(text)
	if d == nil {
		m.Usage = UsageReminderTime
		return
	}

	seconds, ok := toSeconds(text[d[2]:d[3]], text[d[4]:d[5]])
	if !ok {
		m.Usage = UsageReminderTime
		return
	}

	// the message follows "to", wherever the duration was said
	rest := text[:d[0]] + " " + text[d[1]:]

	loc := toWord.FindStringIndex(rest)
	if loc == nil {
		m.Usage = UsageReminderWhat
		return
	}

	message := strings.Join(strings.Fields(rest[loc[1]:]), " ")
	if message == "" {
		m.Usage = UsageReminderWhat
		return
	}

	m.Seconds = seconds
	m.Message = message
}

func parseConvert(text string, m *Match) {
	parts := strings.Split(strip(text, "convert"), " to ")
	if len(parts) != 2 {
		m.Usage = UsageConvert
		return
	}

	from := strings.Fields(parts[0])
	to := strings.TrimSpace(parts[1])
	if len(from) < 2 || to == "" {
		m.Usage = UsageConvertValue
		return
	}

	value, err := strconv.ParseFloat(from[0], 64)
	if err != nil {
		m.Usage = UsageConvertValue
		return
	}

	m.Value = value
	m.From = strings.Join(from[1:], " ")
	m.To = to
}

func parseCreateProfile(text string, m *Match) {
	rest := strip(text, "create profile")

	loc := bornOnWord.FindStringIndex(rest)
	if loc == nil {
		m.Usage = UsageCreateProfile
		return
	}

	name := strings.TrimSpace(rest[:loc[0]])
	dob := strings.TrimSpace(rest[loc[1]:])
	if name == "" || dob == "" {
		m.Usage = UsageCreateProfile
		return
	}

	m.Arg = name
	m.DOB = dob
}

func defaultRules() []rule {
	return []rule{
		newRule(Time, nil, "time"),
		newRule(Date, nil, "date"),
		newRule(Weather, parseWeather, "weather"),
		newRule(Wiki, argOf("wikipedia", "search"), "wikipedia", "search"),
		newRule(Music, argOf("play"), "play"),
		newRule(Joke, nil, "joke"),
		newRule(News, nil, "news"),
		newRule(Website, argOf("open"), "open"),
		newRule(ChangeVoice, nil, "change voice"),
		newRule(SetTimer, parseTimer, "set timer"),
		newRule(Reminder, parseReminder, "remind me"),
		newRule(TakeNote, argOf("take a note", "note"), "take a note", "note"),
		newRule(ReadNotes, nil, "read notes"),
		newRule(Calculate, argOf("calculate", "what is"), "calculate", "what is"),
		newRule(Translate, argOf("translate"), "translate"),
		newRule(Recipe, argOf("read recipe", "for"), "read recipe"),
		newRule(Sing, argOf("sing"), "sing"),
		newRule(ShoppingAdd, argOf("add to shopping list"), "add to shopping list"),
		newRule(ShoppingRemove, argOf("remove from shopping list"), "remove from shopping list"),
		newRule(ShoppingRead, nil, "read shopping list"),
		newRule(Convert, parseConvert, "convert"),
		newRule(Story, nil, "tell a story"),
		newRule(Game, nil, "play a game", "guess the number"),
		newRule(MathHelp, argOf("help with math"), "help with math"),
		newRule(CreateProfile, parseCreateProfile, "create profile"),
		newRule(SwitchProfile, argOf("switch to profile"), "switch to profile"),
		newRule(ToggleMode, nil, "toggle kids mode"),
		newRule(Stop, nil, "stop", "exit"),
	}
}
