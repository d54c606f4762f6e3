// Package audio sonifies a running simulation as an ambient pad whose
// timbre follows the flow: kinetic energy opens the filter, the mean
// flow speed drives the breathing rate.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Gm7 add9 stack: G2, Bb2, D3, F3, A3.
var padFreqs = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

type Processor struct {
	stream *portaudio.Stream

	time        float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	mu     sync.Mutex
	energy float64
	speed  float64

	energySmooth float64
	speedSmooth  float64

	active bool
}

func NewProcessor() *Processor {
	// 0.6 second delay line for a large-room tail
	delayLen := int(float64(SampleRate) * 0.6)

	return &Processor{
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Start opens the default output device and begins playback.
func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}

	a.stream = stream
	a.active = true
	return nil
}

func (a *Processor) Stop() {
	if a.stream != nil {
		a.stream.Stop()
		a.stream.Close()
		a.stream = nil
	}
	portaudio.Terminate()
	a.active = false
}

func (a *Processor) Active() bool { return a.active }

// UpdateFlow feeds the latest frame's kinetic energy and peak speed.
// Safe to call from the simulation loop while audio renders.
func (a *Processor) UpdateFlow(energy, speed float64) {
	a.mu.Lock()
	a.energy = energy
	a.speed = speed
	a.mu.Unlock()
}

// triangle is smooth and flute-like, no harsh buzz.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low pass.
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (a *Processor) process(out [][]float32) {
	a.mu.Lock()
	targetEnergy := a.energy
	targetSpeed := a.speed
	a.mu.Unlock()

	// Slow morphing so buffer boundaries never click.
	a.energySmooth = a.energySmooth*0.995 + targetEnergy*0.005
	a.speedSmooth = a.speedSmooth*0.995 + targetSpeed*0.005

	// Energy opens the filter: 300 Hz at rest up to 1200 Hz.
	cutoff := 300.0 + math.Min(a.energySmooth/5.0, 900.0)
	// Flow speed quickens the LFO breathing.
	lfoRate := 0.2 + math.Min(a.speedSmooth*0.05, 1.0)

	dt := 1.0 / float64(SampleRate)
	vol := 0.252

	for i := 0; i < len(out[0]); i++ {
		sampleL := 0.0
		sampleR := 0.0

		for j, f := range padFreqs {
			oscL := triangle(a.time * (f * 0.999))
			oscR := triangle(a.time * (f * 1.001))

			g := 1.0 / float64(len(padFreqs))
			lfo := math.Sin(a.time*lfoRate + float64(j))

			sampleL += oscL * g * (0.7 + 0.3*lfo)
			sampleR += oscR * g * (0.7 + 0.3*lfo)
		}

		var outL, outR float64
		outL, a.filterState[0] = lpf(sampleL, cutoff, dt, a.filterState[0])
		outR, a.filterState[1] = lpf(sampleR, cutoff, dt, a.filterState[1])

		delayL := a.delayLine[0][a.delayHead]
		delayR := a.delayLine[1][a.delayHead]

		// Ping-pong cross feedback smears the stereo image.
		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1

		a.delayLine[0][a.delayHead] = mixL * 0.7
		a.delayLine[1][a.delayHead] = mixR * 0.7

		a.delayHead = (a.delayHead + 1) % len(a.delayLine[0])

		out[0][i] = float32(mixL * vol)
		out[1][i] = float32(mixR * vol)

		a.time += dt
	}
}
