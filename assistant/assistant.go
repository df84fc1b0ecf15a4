// Package assistant runs the wake loop and executes routed commands.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"coco-assistant/browser"
	"coco-assistant/clients/ai_bot"
	"coco-assistant/clients/news"
	"coco-assistant/clients/video"
	"coco-assistant/clients/weather"
	"coco-assistant/clients/wiki"
	"coco-assistant/content"
	"coco-assistant/history"
	"coco-assistant/intent"
	"coco-assistant/metrics"
	"coco-assistant/profile"
	"coco-assistant/scheduler"
	"coco-assistant/session"
	"coco-assistant/speech"
)

const (
	msgReady          = "Coco Assistant is ready. Say a wake word like 'Hey Coco' to start."
	msgWakeReply      = "Yes?"
	msgNotCaught      = "Sorry, I didn't catch that."
	msgSpeechDown     = "Sorry, my speech service is down."
	msgGoodbye        = "Goodbye!"
	msgRestricted     = "Sorry, that's restricted in kids mode."
	msgNotUnderstood  = "Sorry, I don't understand that command."
	msgChatFailed     = "Sorry, I couldn't process that."
	kidsSystemPrompt  = "You are a friendly assistant for kids. Keep responses simple, fun, and safe. Avoid adult topics."
	chatMaxTokens     = 150
	mathHelpMaxTokens = 200
)

// Speaker plays responses. Speak must not block.
type Speaker interface {
	Speak(text string)
	Interrupt()
	IsSpeaking() bool
	// Wait blocks until everything queued so far has been played.
	Wait()
	Voices() []string
	SetVoice(index int) error
}

type NoteStore interface {
	Append(note string) error
}

type TaskScheduler interface {
	Schedule(kind scheduler.Kind, delay time.Duration, payload string, fn func(scheduler.Task)) (scheduler.Task, error)
	Pending() []scheduler.Task
}

type Config struct {
	Listener  speech.Listener
	Speaker   Speaker
	Session   *session.Session
	Profiles  *profile.Manager
	Notes     NoteStore
	Scheduler TaskScheduler
	Router    *intent.Router
	Catalog   *content.Catalog
	Browser   browser.Opener

	// Optional providers. A nil chat, weather or news client means its
	// credential is not configured.
	Chat    ai_bot.AIBotAPI
	Weather weather.WeatherAPI
	News    news.NewsAPI
	Wiki    wiki.WikiAPI
	Video   video.VideoAPI
	History history.Recorder

	WakeWords   []string
	DefaultCity string

	Logger *slog.Logger
	Now    func() time.Time
	Rand   *rand.Rand
}

type Assistant struct {
	listener  speech.Listener
	speaker   Speaker
	sess      *session.Session
	profiles  *profile.Manager
	notes     NoteStore
	tasks     TaskScheduler
	router    *intent.Router
	catalog   *content.Catalog
	browser   browser.Opener
	chat      ai_bot.AIBotAPI
	weather   weather.WeatherAPI
	news      news.NewsAPI
	wiki      wiki.WikiAPI
	video     video.VideoAPI
	history   history.Recorder
	wakeWords []string
	city      string
	log       *slog.Logger
	now       func() time.Time
	rng       *rand.Rand
}

func New(cfg *Config) (*Assistant, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	switch {
	case cfg.Listener == nil:
		return nil, fmt.Errorf("listener is nil")
	case cfg.Speaker == nil:
		return nil, fmt.Errorf("speaker is nil")
	case cfg.Session == nil:
		return nil, fmt.Errorf("session is nil")
	case cfg.Profiles == nil:
		return nil, fmt.Errorf("profiles is nil")
	case cfg.Notes == nil:
		return nil, fmt.Errorf("notes is nil")
	case cfg.Scheduler == nil:
		return nil, fmt.Errorf("scheduler is nil")
	case cfg.Catalog == nil:
		return nil, fmt.Errorf("catalog is nil")
	case cfg.Browser == nil:
		return nil, fmt.Errorf("browser is nil")
	case len(cfg.WakeWords) == 0:
		return nil, fmt.Errorf("wake words are empty")
	}

	a := &Assistant{
		listener:  cfg.Listener,
		speaker:   cfg.Speaker,
		sess:      cfg.Session,
		profiles:  cfg.Profiles,
		notes:     cfg.Notes,
		tasks:     cfg.Scheduler,
		router:    cfg.Router,
		catalog:   cfg.Catalog,
		browser:   cfg.Browser,
		chat:      cfg.Chat,
		weather:   cfg.Weather,
		news:      cfg.News,
		wiki:      cfg.Wiki,
		video:     cfg.Video,
		history:   cfg.History,
		wakeWords: cfg.WakeWords,
		city:      cfg.DefaultCity,
		log:       cfg.Logger,
		now:       cfg.Now,
		rng:       cfg.Rand,
	}

	if a.router == nil {
		a.router = intent.NewRouter()
	}

	if a.log == nil {
		a.log = slog.Default()
	}

	if a.now == nil {
		a.now = time.Now
	}

	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return a, nil
}

// Run announces readiness and loops until the stop intent, the end of
// input, or ctx is cancelled. Only the last two return an error.
func (a *Assistant) Run(ctx context.Context) error {
	a.say(msgReady)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		woke, err := a.waitForWake(ctx)
		if err != nil {
			return err
		}

		if !woke {
			continue
		}

		text, err := a.listen(ctx)
		if err != nil {
			return err
		}

		if text == "" {
			continue
		}

		if !a.Process(ctx, text) {
			return nil
		}
	}
}

// waitForWake listens for one wake window. Recognition failures are not
// reported; only the end of input or cancellation is an error.
func (a *Assistant) waitForWake(ctx context.Context) (bool, error) {
	text, err := a.listener.CaptureWake(ctx)
	switch {
	case errors.Is(err, speech.ErrWaitTimeout), errors.Is(err, speech.ErrUnintelligible):
		return false, nil
	case errors.Is(err, speech.ErrServiceUnavailable):
		metrics.RecognitionFailures.WithLabelValues("wake").Inc()
		a.log.Warn("wake capture failed", "error", err)
		return false, nil
	case err != nil:
		return false, err
	}

	if !a.isWakePhrase(text) {
		a.log.Debug("no wake phrase", "text", text)
		return false, nil
	}

	metrics.WakeDetections.Inc()
	a.log.Info("wake phrase detected", "text", text)

	if a.speaker.IsSpeaking() {
		a.speaker.Interrupt()
	}

	a.say(msgWakeReply)
	a.speaker.Wait()

	return true, nil
}

func (a *Assistant) isWakePhrase(text string) bool {
	// keep only letters, digits and spaces so "Hey, Coco!" still matches
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == ' ' {
			return r
		}
		return -1
	}, text)
	cleaned = strings.ToLower(cleaned)

	for _, wake := range a.wakeWords {
		if strings.Contains(cleaned, wake) {
			return true
		}
	}

	return false
}

// listen captures one command. Recognition failures are apologized for and
// yield an empty string.
func (a *Assistant) listen(ctx context.Context) (string, error) {
	text, err := a.listener.CaptureCommand(ctx)
	switch {
	case errors.Is(err, speech.ErrUnintelligible), errors.Is(err, speech.ErrWaitTimeout):
		metrics.RecognitionFailures.WithLabelValues("unintelligible").Inc()
		a.say(msgNotCaught)
		return "", nil
	case errors.Is(err, speech.ErrServiceUnavailable):
		metrics.RecognitionFailures.WithLabelValues("service").Inc()
		a.log.Error("speech service unavailable", "error", err)
		a.say(msgSpeechDown)
		return "", nil
	case err != nil:
		return "", err
	}

	a.log.Info("heard command", "text", text)

	return strings.ToLower(strings.TrimSpace(text)), nil
}

// ask speaks prompt, waits for it to finish and listens for the answer.
func (a *Assistant) ask(ctx context.Context, prompt string) (string, error) {
	a.say(prompt)
	a.speaker.Wait()

	return a.listen(ctx)
}

func (a *Assistant) say(text string) {
	a.speaker.Speak(text)
}

// Process routes and executes one command. It returns false when the
// command asks the assistant to stop.
func (a *Assistant) Process(ctx context.Context, text string) bool {
	restricted := a.sess.Restricted()
	m := a.router.Route(text, restricted)

	metrics.CommandsRouted.WithLabelValues(string(m.Intent)).Inc()
	a.log.Debug("routed", "intent", m.Intent, "restricted", restricted)

	a.record(ctx, text, m.Intent, restricted)

	if m.Usage != "" {
		a.say(m.Usage)
		return true
	}

	start := time.Now()
	defer func() {
		metrics.HandlerLatency.WithLabelValues(string(m.Intent)).Observe(time.Since(start).Seconds())
	}()

	return a.dispatch(ctx, m)
}

func (a *Assistant) record(ctx context.Context, text string, in intent.Intent, restricted bool) {
	if a.history == nil {
		return
	}

	name, _ := a.sess.ActiveProfile()

	_, err := a.history.Record(ctx, history.Interaction{
		At:         a.now(),
		Profile:    name,
		Utterance:  text,
		Intent:     string(in),
		Restricted: restricted,
	})
	if err != nil {
		a.log.Warn("failed to record interaction", "error", err)
	}
}

func (a *Assistant) dispatch(ctx context.Context, m intent.Match) bool {
	switch m.Intent {
	case intent.Restricted:
		metrics.Refusals.WithLabelValues("kids_mode").Inc()
		a.say(msgRestricted)
	case intent.Time:
		a.tellTime()
	case intent.Date:
		a.tellDate()
	case intent.Weather:
		a.tellWeather(ctx, m.Arg)
	case intent.Wiki:
		a.searchWiki(ctx, m.Arg)
	case intent.Music:
		a.playMusic(ctx, m.Arg)
	case intent.Joke:
		a.tellJoke()
	case intent.News:
		a.readNews(ctx)
	case intent.Website:
		a.openWebsite(ctx, m.Arg)
	case intent.ChangeVoice:
		a.changeVoice(ctx)
	case intent.SetTimer:
		a.setTimer(m.Seconds)
	case intent.Reminder:
		a.setReminder(m.Message, m.Seconds)
	case intent.TakeNote:
		a.takeNote(m.Arg)
	case intent.ReadNotes:
		a.readNotes()
	case intent.Calculate:
		a.calculate(m.Arg)
	case intent.Translate:
		a.translate(ctx, m.Arg)
	case intent.Recipe:
		a.readRecipe(ctx, m.Arg)
	case intent.Sing:
		a.sing(m.Arg)
	case intent.ShoppingAdd:
		a.addShoppingItem(m.Arg)
	case intent.ShoppingRemove:
		a.removeShoppingItem(m.Arg)
	case intent.ShoppingRead:
		a.readShoppingList()
	case intent.Convert:
		a.convert(m.Value, m.From, m.To)
	case intent.Story:
		a.tellStory()
	case intent.Game:
		a.playGame(ctx)
	case intent.MathHelp:
		a.mathHelp(ctx, m.Arg)
	case intent.CreateProfile:
		a.createProfile(m.Arg, m.DOB)
	case intent.SwitchProfile:
		a.switchProfile(m.Arg)
	case intent.ToggleMode:
		a.toggleMode()
	case intent.Stop:
		a.say(msgGoodbye)
		return false
	default:
		a.converse(ctx, m.Arg)
	}

	return true
}
