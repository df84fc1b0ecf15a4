package assistant

import (
	"context"
	"fmt"
	"strings"

	"coco-assistant/intent"
)

const (
	gameMax          = 10
	gameRounds       = 5
	voiceAttempts    = 3
	msgGameStart     = "I'm thinking of a number between 1 and 10. Guess it!"
	msgSayNumber     = "Please say a number."
	msgChooseVoice   = "Please choose a voice by saying the number."
	msgInvalidVoice  = "Invalid number. Try again."
	msgNoVoices      = "Sorry, no other voices are available."
	msgKeepVoice     = "Keeping the current voice."
	defaultSongGuest = "friend"
)

func (a *Assistant) tellJoke() {
	a.say(a.catalog.Joke(a.rng, a.sess.Restricted()))
}

func (a *Assistant) tellStory() {
	a.say(a.catalog.Story(a.rng))
}

func (a *Assistant) sing(song string) {
	song = strings.TrimSpace(song)

	lyrics, ok := a.catalog.Song(song)
	if !ok {
		a.say("Sorry, I don't know that song. Try " + quoteList(a.catalog.SongNames()) + ".")
		return
	}

	name, ok := a.sess.ActiveProfile()
	if !ok {
		name = defaultSongGuest
	}

	a.say("Singing " + song + ".")
	a.say(strings.ReplaceAll(lyrics, "{name}", name))
}

// quoteList renders names as 'a', 'b' or 'c'.
func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}

	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

func (a *Assistant) playGame(ctx context.Context) {
	number := a.rng.Intn(gameMax) + 1
	a.log.Debug("game started", "number", number)

	prompt := msgGameStart
	for round := 0; round < gameRounds; round++ {
		guess, err := a.ask(ctx, prompt)
		if err != nil {
			return
		}

		g, ok := intent.ParseNumber(guess)
		switch {
		case !ok:
			prompt = msgSayNumber
		case g == number:
			a.say("Correct! You win.")
			return
		case g < number:
			prompt = "Too low."
		default:
			prompt = "Too high."
		}
	}

	a.say(prompt)
	a.say(fmt.Sprintf("Sorry, the number was %d. Better luck next time!", number))
}

func (a *Assistant) changeVoice(ctx context.Context) {
	voices := a.speaker.Voices()
	if len(voices) == 0 {
		a.say(msgNoVoices)
		return
	}

	for i, v := range voices {
		a.say(fmt.Sprintf("%d: %s", i, v))
	}

	prompt := msgChooseVoice
	for attempt := 0; attempt < voiceAttempts; attempt++ {
		reply, err := a.ask(ctx, prompt)
		if err != nil {
			return
		}

		index, ok := intent.ParseNumber(reply)
		switch {
		case !ok:
			prompt = msgSayNumber
			continue
		case index >= len(voices):
			prompt = msgInvalidVoice
			continue
		}

		if err := a.speaker.SetVoice(index); err != nil {
			a.log.Error("failed to set voice", "index", index, "error", err)
			break
		}

		a.say("Voice set to " + voices[index])
		return
	}

	a.say(msgKeepVoice)
}
