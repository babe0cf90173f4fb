// Package audio plays short named sound cues without blocking the caller.
//
// Cues are rendered once into memory when the player is created, either from
// <assets>/<cue>.wav or from a synthesized tone, so Play never touches the
// filesystem.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Cue names.
const (
	Startup = "startup"
	Move    = "move"
	Pew     = "pew"
	Explode = "explode"
	Lose    = "lose"
	Win     = "win"
)

// Player plays cues by name.
type Player interface {
	// Play starts a cue and returns immediately. Unknown names are ignored.
	Play(name string)
	// Wait blocks until every cue started so far has finished.
	Wait()
}

// Device is a Player that holds an output device.
type Device interface {
	Player
	Close()
}

// Tone describes a synthesized cue.
type Tone struct {
	Freq     float64       `yaml:"freq"`
	Duration time.Duration `yaml:"duration"`
}

// DefaultTones returns the built-in tone for every cue.
func DefaultTones() map[string]Tone {
	return map[string]Tone{
		Startup: {Freq: 523.25, Duration: 400 * time.Millisecond},
		Move:    {Freq: 220, Duration: 20 * time.Millisecond},
		Pew:     {Freq: 880, Duration: 80 * time.Millisecond},
		Explode: {Freq: 110, Duration: 250 * time.Millisecond},
		Lose:    {Freq: 196, Duration: 600 * time.Millisecond},
		Win:     {Freq: 659.25, Duration: 600 * time.Millisecond},
	}
}

// Options configures a Mixer.
type Options struct {
	SampleRate int
	// Volume is linear, 0 silences every cue and 1 leaves samples untouched.
	Volume float64
	// AssetsDir holds optional <cue>.wav files. Empty means synthesize all.
	AssetsDir string
	Tones     map[string]Tone
}

// DefaultOptions returns options for a 44.1kHz mixer with built-in tones.
func DefaultOptions() Options {
	return Options{
		SampleRate: 44100,
		Volume:     1,
		Tones:      DefaultTones(),
	}
}

// releaseTime fades the tail of synthesized tones to avoid a click.
const releaseTime = 5 * time.Millisecond

// Mixer plays cues through the system audio device.
type Mixer struct {
	rate   beep.SampleRate
	volume float64
	cues   map[string]*beep.Buffer
	logger *log.Logger

	wg sync.WaitGroup
}

// NewMixer renders every cue and opens the audio device.
func NewMixer(opts Options, logger *log.Logger) (*Mixer, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("audio: invalid sample rate %d", opts.SampleRate)
	}
	rate := beep.SampleRate(opts.SampleRate)

	cues, err := loadCues(rate, opts)
	if err != nil {
		return nil, err
	}

	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: cannot open device: %w", err)
	}

	return &Mixer{
		rate:   rate,
		volume: opts.Volume,
		cues:   cues,
		logger: logger,
	}, nil
}

// Open returns a Mixer, or a Silent player when audio is disabled or the
// device cannot be used. Audio failures are never fatal.
func Open(enabled bool, opts Options, logger *log.Logger) Device {
	if !enabled {
		return Silent{}
	}
	m, err := NewMixer(opts, logger)
	if err != nil {
		logger.Warn("audio unavailable, continuing without sound", "err", err)
		return Silent{}
	}
	logger.Debug("audio ready", "rate", opts.SampleRate, "cues", m.Cues())
	return m
}

// Play starts the named cue.
func (m *Mixer) Play(name string) {
	buf, ok := m.cues[name]
	if !ok {
		m.logger.Warn("unknown audio cue", "cue", name)
		return
	}

	m.wg.Add(1)
	speaker.Play(beep.Seq(
		withVolume(buf.Streamer(0, buf.Len()), m.volume),
		beep.Callback(m.wg.Done),
	))
}

// Wait blocks until all started cues have finished playing.
func (m *Mixer) Wait() {
	m.wg.Wait()
}

// Close releases the audio device. Cues still playing are cut off.
func (m *Mixer) Close() {
	speaker.Close()
}

// Cues returns the names of the loaded cues, sorted.
func (m *Mixer) Cues() []string {
	names := make([]string, 0, len(m.cues))
	for name := range m.cues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Silent is a Player that plays nothing.
type Silent struct{}

func (Silent) Play(string) {}
func (Silent) Wait()       {}
func (Silent) Close()      {}

// loadCues renders every configured cue into a buffer at rate.
func loadCues(rate beep.SampleRate, opts Options) (map[string]*beep.Buffer, error) {
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	cues := make(map[string]*beep.Buffer, len(opts.Tones))

	for name, tone := range opts.Tones {
		buf := beep.NewBuffer(format)

		loaded, err := appendAsset(buf, rate, opts.AssetsDir, name)
		if err != nil {
			return nil, err
		}
		if !loaded {
			s, err := synthesize(rate, tone)
			if err != nil {
				return nil, fmt.Errorf("audio: cue %q: %w", name, err)
			}
			buf.Append(s)
		}
		cues[name] = buf
	}
	return cues, nil
}

// appendAsset decodes <dir>/<name>.wav into buf, resampling to rate.
// It reports false when no such file exists.
func appendAsset(buf *beep.Buffer, rate beep.SampleRate, dir, name string) (bool, error) {
	if dir == "" {
		return false, nil
	}

	path := filepath.Join(dir, name+".wav")
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("audio: open %s: %w", path, err)
	}

	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return false, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, s)
	}
	buf.Append(src)

	if err := s.Err(); err != nil {
		return false, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	return true, nil
}

// synthesize returns a finite sine tone with a short linear release.
func synthesize(rate beep.SampleRate, tone Tone) (beep.Streamer, error) {
	if tone.Duration <= 0 {
		return nil, fmt.Errorf("non-positive duration %v", tone.Duration)
	}
	sine, err := generators.SineTone(rate, tone.Freq)
	if err != nil {
		return nil, err
	}
	total := rate.N(tone.Duration)
	return &release{
		streamer: beep.Take(total, sine),
		total:    total,
		fade:     min(rate.N(releaseTime), total),
	}, nil
}

// release scales the last fade samples of a stream of total samples down to
// zero.
type release struct {
	streamer beep.Streamer
	pos      int
	total    int
	fade     int
}

func (r *release) Stream(samples [][2]float64) (int, bool) {
	n, ok := r.streamer.Stream(samples)
	start := r.total - r.fade
	for i := 0; i < n; i++ {
		if r.pos >= start && r.fade > 0 {
			vol := float64(r.total-r.pos) / float64(r.fade)
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		r.pos++
	}
	return n, ok
}

func (r *release) Err() error { return r.streamer.Err() }

// withVolume wraps s in a volume effect. math.Log2(0) is -Inf, so zero
// volume is handled as silence.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol == 1 {
		return s
	}
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
