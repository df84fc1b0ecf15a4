package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"coco-assistant/assistant"
	"coco-assistant/browser"
	"coco-assistant/clients/ai_bot"
	"coco-assistant/clients/news"
	"coco-assistant/clients/video"
	"coco-assistant/clients/weather"
	"coco-assistant/clients/wiki"
	"coco-assistant/config"
	"coco-assistant/content"
	"coco-assistant/history"
	"coco-assistant/listener"
	"coco-assistant/metrics"
	"coco-assistant/profile"
	"coco-assistant/scheduler"
	"coco-assistant/session"
	"coco-assistant/speech"
	"coco-assistant/speech_extraction"
	"coco-assistant/speech_to_text"
	"coco-assistant/status"
	"coco-assistant/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		slog.Error("Failed to configure logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("assistant stopped", "error", err)
		os.Exit(1)
	}
}

// newLogger writes to stderr so console speech output stays readable.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	sess := session.New()

	profileStore, err := storage.NewProfileStore(fs, cfg.ProfilesPath())
	if err != nil {
		return err
	}

	profiles, err := profile.NewManager(&profile.Config{Store: profileStore})
	if err != nil {
		return err
	}
	logger.Info("profiles loaded", "count", len(profiles.List()))

	notes, err := storage.NewNoteStore(fs, cfg.NotesPath())
	if err != nil {
		return err
	}

	saved, err := notes.Load()
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	sess.LoadNotes(saved)

	recorder, err := history.NewSQLite(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error("failed to close history", "error", err)
		}
	}()

	var tasks *scheduler.Scheduler
	tasks, err = scheduler.New(&scheduler.Config{
		Logger: logger,
		OnFire: func(t scheduler.Task) {
			metrics.TasksFired.WithLabelValues(string(t.Kind)).Inc()
			metrics.TasksPending.Set(float64(len(tasks.Pending())))
		},
	})
	if err != nil {
		return err
	}

	input, closeInput, err := newListener(cfg, fs, logger)
	if err != nil {
		return err
	}
	defer closeInput()

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	speaker, err := speech.NewSpeaker(&speech.SpeakerConfig{
		Engine: engine,
		Logger: logger,
		OnSay:  func(string) { metrics.Utterances.Inc() },
	})
	if err != nil {
		return err
	}

	catalog, err := content.Default()
	if err != nil {
		return err
	}

	asstCfg := &assistant.Config{
		Listener:    input,
		Speaker:     speaker,
		Session:     sess,
		Profiles:    profiles,
		Notes:       notes,
		Scheduler:   tasks,
		Catalog:     catalog,
		Browser:     browser.New(),
		History:     recorder,
		WakeWords:   cfg.WakeWords,
		DefaultCity: cfg.DefaultCity,
		Logger:      logger,
	}

	if err := newProviders(cfg, asstCfg); err != nil {
		return err
	}

	coco, err := assistant.New(asstCfg)
	if err != nil {
		return err
	}

	if cfg.StatusAddr != "" {
		srv, err := status.New(&status.Config{
			Addr:    cfg.StatusAddr,
			Session: sess,
			Tasks:   tasks,
			History: recorder,
			Logger:  logger,
		})
		if err != nil {
			return err
		}

		statusCtx, cancelStatus := context.WithCancel(ctx)
		defer cancelStatus()

		go func() {
			if err := srv.Run(statusCtx); err != nil {
				logger.Error("status server failed", "error", err)
			}
		}()
	}

	err = coco.Run(ctx)
	switch {
	case err == nil, errors.Is(err, io.EOF):
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted")
	default:
		return err
	}

	speaker.Wait()

	if pending := len(tasks.Pending()); pending > 0 {
		logger.Info("waiting for scheduled tasks", "pending", pending)
	}

	if err := tasks.Wait(ctx); err != nil {
		logger.Info("cancelled scheduled tasks", "count", tasks.CancelAll())
	}

	speaker.Wait()

	return nil
}

// newListener builds the configured speech input and a function releasing
// it.
func newListener(cfg *config.Config, fs afero.Fs, logger *slog.Logger) (speech.Listener, func(), error) {
	if cfg.SpeechInput == config.InputConsole {
		return speech.NewConsoleListener(os.Stdin, cfg.WakeTimeout), func() {}, nil
	}

	model, err := whisper.New(cfg.WhisperModel)
	if err != nil {
		return nil, nil, fmt.Errorf("load whisper model: %w", err)
	}

	sttEngine, err := speech_to_text.New(&speech_to_text.Config{
		Model:    model,
		Language: cfg.WhisperLanguage,
		Logger:   logger,
	})
	if err != nil {
		model.Close()
		return nil, nil, err
	}

	extractor, err := speech_extraction.New(&speech_extraction.Config{
		FileSys:    fs,
		CaptureDir: cfg.CaptureDir,
		QuietTime:  cfg.QuietTime,
		Logger:     logger,
	})
	if err != nil {
		model.Close()
		return nil, nil, err
	}

	mic, err := listener.New(&listener.Config{
		Extractor:       extractor,
		STTEngine:       sttEngine,
		Logger:          logger,
		WakeTimeout:     cfg.WakeTimeout,
		WakePhraseLimit: cfg.WakePhraseLimit,
	})
	if err != nil {
		model.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := mic.Close(); err != nil {
			logger.Error("failed to close microphone", "error", err)
		}
		model.Close()
	}

	return mic, closeFn, nil
}

func newEngine(cfg *config.Config) (speech.Engine, error) {
	if cfg.SpeechOutput == config.OutputConsole {
		return speech.NewConsoleEngine(os.Stdout, "Coco: "), nil
	}

	return speech.NewExecEngine(&speech.ExecConfig{
		Command: cfg.TTSCommand,
		Voices:  cfg.TTSVoices,
	})
}

// newProviders creates the HTTP clients. Providers without a configured key
// stay nil.
func newProviders(cfg *config.Config, asstCfg *assistant.Config) error {
	if cfg.OpenWeatherAPIKey != "" {
		client, err := weather.NewClient(&weather.Config{ApiKey: cfg.OpenWeatherAPIKey})
		if err != nil {
			return err
		}
		asstCfg.Weather = client
	}

	if cfg.NewsAPIKey != "" {
		client, err := news.NewClient(&news.Config{ApiKey: cfg.NewsAPIKey, Country: cfg.NewsCountry})
		if err != nil {
			return err
		}
		asstCfg.News = client
	}

	if cfg.OpenAI.APIKey != "" {
		client, err := ai_bot.NewClient(&ai_bot.Config{
			ApiHost: cfg.OpenAI.BaseURL,
			ApiKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
		})
		if err != nil {
			return err
		}
		asstCfg.Chat = client
	}

	wikiClient, err := wiki.NewClient(&wiki.Config{})
	if err != nil {
		return err
	}
	asstCfg.Wiki = wikiClient

	videoClient, err := video.NewClient(&video.Config{})
	if err != nil {
		return err
	}
	asstCfg.Video = videoClient

	return nil
}
