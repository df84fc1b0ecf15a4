package speech_extraction

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"coco-assistant/ring_buffer"
	"coco-assistant/voice_detection"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const (
	DefaultQuietTime  = time.Millisecond * 200
	DefaultFrameSize  = 8196
	DefaultSampleRate = 16000
)

type extractorImpl struct {
	fileSys    afero.Fs
	captureDir string
	frameSize  int
	sampleRate int
	quietTime  time.Duration
	minEnergy  float64
	log        *slog.Logger
	now        func() time.Time
}

type Config struct {
	FileSys afero.Fs
	// CaptureDir, when set, receives a WAV file per extracted utterance.
	CaptureDir string
	FrameSize  int
	SampleRate int
	QuietTime  time.Duration
	MinEnergy  float64
	Logger     *slog.Logger
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.CaptureDir != "" && cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	e := &extractorImpl{
		fileSys:    cfg.FileSys,
		captureDir: cfg.CaptureDir,
		frameSize:  cfg.FrameSize,
		sampleRate: cfg.SampleRate,
		quietTime:  cfg.QuietTime,
		minEnergy:  cfg.MinEnergy,
		log:        cfg.Logger,
		now:        time.Now,
	}

	if e.frameSize <= 0 {
		e.frameSize = DefaultFrameSize
	}

	if e.sampleRate <= 0 {
		e.sampleRate = DefaultSampleRate
	}

	if e.quietTime <= 0 {
		e.quietTime = DefaultQuietTime
	}

	if e.log == nil {
		e.log = slog.Default()
	}

	return e, nil
}

func (e *extractorImpl) Extract(ctx context.Context, src Source, maxWait, maxSpeech time.Duration) (*audio.IntBuffer, error) {
	seg := voice_detection.NewSegmenter(voice_detection.SegmenterConfig{
		FrameSize:  e.frameSize,
		SampleRate: e.sampleRate,
		QuietTime:  e.quietTime,
		MinEnergy:  e.minEnergy,
	})

	// keep the first bit of audio before detection so the start of the
	// utterance is not lost
	preRoll := ring_buffer.New(e.frameSize * 2)

	samples := make([]int, 0, e.frameSize*4)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := src.ReadFrame(ctx)
		if err != nil {
			return nil, err
		}

		before := seg.State()
		state := seg.Push(frame)

		switch {
		case before == voice_detection.StateWaiting && state == voice_detection.StateWaiting:
			preRoll.Add(frame)

			if maxWait > 0 && seg.Elapsed() >= maxWait {
				return nil, ErrNoSpeech
			}

			continue
		case before == voice_detection.StateWaiting:
			preRoll.Add(frame)
			samples = appendSamples(samples, preRoll.Read())
		default:
			samples = appendSamples(samples, frame)
		}

		if state == voice_detection.StateDone {
			break
		}

		if maxSpeech > 0 && seg.SpeechDuration() >= maxSpeech {
			break
		}
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  e.sampleRate,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}

	e.log.Debug("utterance extracted", "frames", buf.NumFrames(), "speech", seg.SpeechDuration())

	if e.captureDir != "" {
		if err := e.capture(buf); err != nil {
			e.log.Warn("failed to write capture", "error", err)
		}
	}

	return buf, nil
}

func appendSamples(dst []int, src []int16) []int {
	for _, s := range src {
		dst = append(dst, int(s))
	}

	return dst
}

func (e *extractorImpl) capture(buf *audio.IntBuffer) error {
	if err := e.fileSys.MkdirAll(e.captureDir, 0o755); err != nil {
		return err
	}

	name := filepath.Join(e.captureDir, fmt.Sprintf("utterance-%d.wav", e.now().UnixNano()))

	f, err := e.fileSys.Create(name)
	if err != nil {
		return err
	}

	defer f.Close()

	enc := wav.NewEncoder(f, buf.Format.SampleRate, buf.SourceBitDepth, buf.Format.NumChannels, 1)

	if err := enc.Write(buf); err != nil {
		return err
	}

	return enc.Close()
}
