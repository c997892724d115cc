// Package audio plays short collision clicks.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/ggielly/suicideballs/config"
)

// Kind identifies a click sound.
type Kind int

const (
	KindWall Kind = iota
	KindBall
	numKinds
)

// click is a sine burst with a linear decay, so it does not pop at the end.
type click struct {
	tone     beep.Streamer
	position int
	total    int
}

func newClick(freq float64, duration time.Duration, rate beep.SampleRate) (*click, error) {
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("click tone %.0f Hz: %w", freq, err)
	}
	return &click{tone: tone, total: rate.N(duration)}, nil
}

func (c *click) Stream(samples [][2]float64) (n int, ok bool) {
	left := c.total - c.position
	if left <= 0 {
		return 0, false
	}
	if len(samples) > left {
		samples = samples[:left]
	}
	n, _ = c.tone.Stream(samples)
	for i := 0; i < n; i++ {
		decay := 1 - float64(c.position+i)/float64(c.total)
		samples[i][0] *= decay
		samples[i][1] *= decay
	}
	c.position += n
	return n, n > 0
}

func (c *click) Err() error { return nil }

// Clicker mixes rate-limited clicks into the speaker.
// A nil or disabled Clicker ignores every call.
type Clicker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	freq        [numKinds]float64
	duration    time.Duration
	minInterval time.Duration
	last        [numKinds]time.Time
	now         func() time.Time
	play        func(beep.Streamer)
	release     func()
	opened      bool
}

// New creates a clicker from the audio config without touching the sound device.
func New(cfg config.AudioConfig) *Clicker {
	c := &Clicker{
		mixer:       &beep.Mixer{},
		rate:        beep.SampleRate(cfg.SampleRate),
		duration:    time.Duration(cfg.ClickMs) * time.Millisecond,
		minInterval: time.Duration(cfg.MinIntervalMs) * time.Millisecond,
		now:         time.Now,
	}
	c.freq[KindWall] = cfg.WallFreq
	c.freq[KindBall] = cfg.BallFreq
	c.play = func(s beep.Streamer) {
		speaker.Lock()
		c.mixer.Add(s)
		speaker.Unlock()
	}
	c.release = func() {
		speaker.Clear()
		speaker.Close()
	}
	return c
}

// Open initializes the speaker and starts the mixer.
func (c *Clicker) Open() error {
	if err := speaker.Init(c.rate, c.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.opened = true
	return nil
}

// Close drops queued clicks and releases the output device.
// Closing twice is a no-op.
func (c *Clicker) Close() {
	if c == nil || !c.opened {
		return
	}
	c.release()
	c.opened = false
}

// Play queues a click of the given kind unless one played too recently.
// It reports whether a click was queued.
func (c *Clicker) Play(k Kind) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.last[k].IsZero() && now.Sub(c.last[k]) < c.minInterval {
		return false
	}
	c.last[k] = now

	tone, err := newClick(c.freq[k], c.duration, c.rate)
	if err != nil {
		return false
	}
	c.play(&effects.Volume{Streamer: beep.Take(tone.total, tone), Base: 2, Volume: -2})
	return true
}

// Collisions plays one click per kind that had at least one hit this frame.
func (c *Clicker) Collisions(wallHits, ballHits int) {
	if wallHits > 0 {
		c.Play(KindWall)
	}
	if ballHits > 0 {
		c.Play(KindBall)
	}
}
