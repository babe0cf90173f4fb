package audio

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

const testRate = beep.SampleRate(44100)

func TestLoadCuesSynthesizesEveryTone(t *testing.T) {
	opts := DefaultOptions()
	cues, err := loadCues(testRate, opts)
	if err != nil {
		t.Fatalf("loadCues() failed: %v", err)
	}

	for _, name := range []string{Startup, Move, Pew, Explode, Lose, Win} {
		buf, ok := cues[name]
		if !ok {
			t.Errorf("cue %q not loaded", name)
			continue
		}
		expected := testRate.N(opts.Tones[name].Duration)
		if buf.Len() != expected {
			t.Errorf("cue %q has %d samples, expected %d", name, buf.Len(), expected)
		}
	}
}

func TestLoadCuesRejectsBadTone(t *testing.T) {
	opts := DefaultOptions()
	opts.Tones = map[string]Tone{Pew: {Freq: 440, Duration: 0}}
	if _, err := loadCues(testRate, opts); err == nil {
		t.Error("expected error for zero duration tone")
	}

	// SineTone refuses frequencies at or above Nyquist.
	opts.Tones = map[string]Tone{Pew: {Freq: 30000, Duration: time.Millisecond}}
	if _, err := loadCues(testRate, opts); err == nil {
		t.Error("expected error for frequency above Nyquist")
	}
}

func TestLoadCuesPrefersWavAsset(t *testing.T) {
	dir := t.TempDir()
	assetRate := beep.SampleRate(22050)
	writeTone(t, filepath.Join(dir, Pew+".wav"), assetRate, assetRate.N(100*time.Millisecond))

	opts := DefaultOptions()
	opts.AssetsDir = dir
	cues, err := loadCues(testRate, opts)
	if err != nil {
		t.Fatalf("loadCues() failed: %v", err)
	}

	// 100ms resampled from 22.05kHz to 44.1kHz.
	got := cues[Pew].Len()
	expected := testRate.N(100 * time.Millisecond)
	if got < expected-10 || got > expected+10 {
		t.Errorf("pew from asset has %d samples, expected about %d", got, expected)
	}

	// Cues without an asset still fall back to synthesis.
	if cues[Move].Len() != testRate.N(opts.Tones[Move].Duration) {
		t.Errorf("move cue was not synthesized")
	}
}

func TestLoadCuesRejectsCorruptAsset(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, Win+".wav"), []byte("not a wav file"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.AssetsDir = dir
	if _, err := loadCues(testRate, opts); err == nil {
		t.Error("expected error for corrupt wav asset")
	}
}

func TestSynthesizeFadesOut(t *testing.T) {
	s, err := synthesize(testRate, Tone{Freq: 440, Duration: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("synthesize() failed: %v", err)
	}

	samples := make([][2]float64, testRate.N(50*time.Millisecond))
	n, _ := s.Stream(samples)
	if n != len(samples) {
		t.Fatalf("streamed %d samples, expected %d", n, len(samples))
	}

	// The final sample sits at the end of the release ramp.
	last := samples[n-1][0]
	if last > 0.01 || last < -0.01 {
		t.Errorf("last sample = %f, expected near silence", last)
	}

	if n, ok := s.Stream(samples); n != 0 || ok {
		t.Errorf("Stream() after end = (%d, %v), expected (0, false)", n, ok)
	}
}

func TestWithVolume(t *testing.T) {
	s := beep.Take(10, beep.Silence(-1))
	if withVolume(s, 1) != s {
		t.Error("full volume should not wrap the streamer")
	}

	v, ok := withVolume(s, 0).(*effects.Volume)
	if !ok || !v.Silent {
		t.Error("zero volume should produce a silent volume effect")
	}

	v, ok = withVolume(s, 0.5).(*effects.Volume)
	if !ok || v.Volume != -1 {
		t.Errorf("half volume should be -1 in base 2, got %+v", v)
	}
}

func TestMixerIgnoresUnknownCue(t *testing.T) {
	m := &Mixer{
		rate:   testRate,
		cues:   map[string]*beep.Buffer{},
		logger: log.New(io.Discard),
	}

	m.Play("nope")

	done := make(chan struct{})
	go func() {
		m.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait() blocked after an unknown cue")
	}
}

func TestOpenDisabledIsSilent(t *testing.T) {
	p := Open(false, DefaultOptions(), log.New(io.Discard))
	if _, ok := p.(Silent); !ok {
		t.Fatalf("Open(false) = %T, expected Silent", p)
	}
	p.Play(Startup)
	p.Wait()
}

func TestNewMixerRejectsBadRate(t *testing.T) {
	opts := DefaultOptions()
	opts.SampleRate = 0
	if _, err := NewMixer(opts, log.New(io.Discard)); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func writeTone(t *testing.T, path string, rate beep.SampleRate, n int) {
	t.Helper()

	sine, err := generators.SineTone(rate, 440)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(n, sine), format); err != nil {
		t.Fatalf("wav.Encode() failed: %v", err)
	}
}
