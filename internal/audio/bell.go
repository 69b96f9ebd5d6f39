// Package audio rings a short bell melody when the countdown reaches zero.
package audio

import (
	"io"
	"log"
	"math"
	"math/cmplx"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/fft"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	decay  = 2.5
	volume = 0.25
)

// partials of a struck bell, as ratio to the fundamental and relative level
var partials = [...]struct{ ratio, gain float64 }{
	{1, 1},
	{2, 0.5},
	{2.76, 0.35},
	{5.4, 0.15},
}

// Note is one strike of the melody.
type Note struct {
	Freq  float64
	Onset float64 // seconds after Strike
}

// Jingle is the opening phrase of "Jingle Bells".
var Jingle = []Note{
	{659.25, 0}, {659.25, 0.25}, {659.25, 0.5},
	{659.25, 1.0}, {659.25, 1.25}, {659.25, 1.5},
	{659.25, 2.0}, {783.99, 2.25}, {523.25, 2.5}, {587.33, 2.75}, {659.25, 3.0},
}

type voice struct {
	freq float64
	age  float64 // seconds; negative until the onset
}

// Bell synthesizes the melody into a portaudio output stream. Strike may be
// called from any goroutine.
type Bell struct {
	Stream *portaudio.Stream
	logger *log.Logger

	mu     sync.Mutex
	voices []voice

	// Output analysis, guarded by mu
	buffer          []complex128
	bass, mid, high float64

	FilterState [2]float64
	DelayLine   [2][]float64
	DelayHead   int

	Active bool
}

func NewBell(logger *log.Logger) *Bell {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	// 0.3 second delay for a small hall
	delayLen := int(float64(SampleRate) * 0.3)
	return &Bell{
		logger:    logger,
		buffer:    make([]complex128, BufferSize),
		DelayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Start opens an output-only stream on the default device.
func (b *Bell) Start() error {
	if err := portaudio.Initialize(); err != nil {
		b.logger.Printf("Audio init: %v", err)
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, b.Process)
	if err != nil {
		b.logger.Printf("Audio stream: %v", err)
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		b.logger.Printf("Audio start: %v", err)
		stream.Close()
		portaudio.Terminate()
		return err
	}
	b.Stream = stream
	b.Active = true
	return nil
}

func (b *Bell) Stop() {
	if !b.Active {
		return
	}
	if b.Stream != nil {
		b.Stream.Stop()
		b.Stream.Close()
	}
	portaudio.Terminate()
	b.Active = false
}

// Strike queues the melody.
func (b *Bell) Strike() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range Jingle {
		b.voices = append(b.voices, voice{freq: n.Freq, age: -n.Onset})
	}
}

// Ringing reports whether any note is still audible or waiting.
func (b *Bell) Ringing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.voices) > 0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

// Process fills one stereo buffer. It is the stream callback.
func (b *Bell) Process(out [][]float32) {
	dt := 1.0 / float64(SampleRate)

	b.mu.Lock()
	for i := range out[0] {
		sample := 0.0
		for v := range b.voices {
			vc := &b.voices[v]
			if vc.age >= 0 {
				env := math.Exp(-vc.age * decay)
				for _, p := range partials {
					sample += p.gain * env * math.Sin(2*math.Pi*vc.freq*p.ratio*vc.age)
				}
			}
			vc.age += dt
		}

		var outL, outR float64
		outL, b.FilterState[0] = lpf(sample, 4000, dt, b.FilterState[0])
		outR, b.FilterState[1] = lpf(sample, 3500, dt, b.FilterState[1])

		delayL := b.DelayLine[0][b.DelayHead]
		delayR := b.DelayLine[1][b.DelayHead]
		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1
		b.DelayLine[0][b.DelayHead] = mixL * 0.5
		b.DelayLine[1][b.DelayHead] = mixR * 0.5
		b.DelayHead = (b.DelayHead + 1) % len(b.DelayLine[0])

		out[0][i] = float32(mixL * volume)
		out[1][i] = float32(mixR * volume)
	}

	// drop voices that have faded below hearing
	live := b.voices[:0]
	for _, vc := range b.voices {
		if vc.age < 0 || math.Exp(-vc.age*decay) > 1e-3 {
			live = append(live, vc)
		}
	}
	b.voices = live
	b.analyze(out[0])
	b.mu.Unlock()
}

// analyze splits the left channel into smoothed bass/mid/high levels.
// The caller holds mu.
func (b *Bell) analyze(samples []float32) {
	n := min(len(samples), BufferSize)
	for i := 0; i < BufferSize; i++ {
		v := 0.0
		if i < n {
			window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(BufferSize-1)))
			v = float64(samples[i]) * window
		}
		b.buffer[i] = complex(v, 0)
	}
	spectrum := fft.FFT(b.buffer)

	bassSum, midSum, highSum := 0.0, 0.0, 0.0
	for i := 0; i < BufferSize/2; i++ {
		mag := cmplx.Abs(spectrum[i])
		switch {
		case i < 12:
			bassSum += mag
		case i < 46:
			midSum += mag
		case i < 460:
			highSum += mag
		}
	}

	b.bass = b.bass*0.8 + math.Min(bassSum/50, 1)*0.2
	b.mid = b.mid*0.8 + math.Min(midSum/50, 1)*0.2
	b.high = b.high*0.8 + math.Min(highSum/50, 1)*0.2
}

// Bands returns the smoothed bass, mid and high levels.
func (b *Bell) Bands() (bass, mid, high float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bass, b.mid, b.high
}

// Level is the overall smoothed output level in [0, 1].
func (b *Bell) Level() float64 {
	bass, mid, high := b.Bands()
	return (bass + mid + high) / 3
}
