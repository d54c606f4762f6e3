package audio

import (
	"math"
	"testing"
)

func TestTriangle(t *testing.T) {
	cases := []struct {
		phase, want float64
	}{
		{0.0, 1.0},
		{0.25, 0.0},
		{0.5, -1.0},
		{0.75, 0.0},
		{1.0, 1.0},
		{1.25, 0.0},
	}
	for _, c := range cases {
		if got := triangle(c.phase); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("triangle(%v) = %v, want %v", c.phase, got, c.want)
		}
	}
}

func TestLPFConverges(t *testing.T) {
	state := 0.0
	out := 0.0
	dt := 1.0 / float64(SampleRate)
	for i := 0; i < SampleRate; i++ {
		out, state = lpf(1.0, 500.0, dt, state)
	}
	if math.Abs(out-1.0) > 1e-3 {
		t.Errorf("filter output %v after 1s of DC, want ~1.0", out)
	}
}

func TestLPFBounded(t *testing.T) {
	state := 0.0
	dt := 1.0 / float64(SampleRate)
	for i := 0; i < 1000; i++ {
		sample := 1.0
		if i%2 == 1 {
			sample = -1.0
		}
		var out float64
		out, state = lpf(sample, 300.0, dt, state)
		if math.Abs(out) > 1.0 {
			t.Fatalf("filter output %v exceeds input range", out)
		}
	}
}

func TestProcessFillsBuffers(t *testing.T) {
	p := NewProcessor()
	p.UpdateFlow(100.0, 2.0)

	out := [][]float32{make([]float32, 256), make([]float32, 256)}
	for call := 0; call < 20; call++ {
		p.process(out)
	}

	nonzero := 0
	for ch := 0; ch < 2; ch++ {
		for _, v := range out[ch] {
			if v != 0 {
				nonzero++
			}
			if abs32 := float64(v); math.Abs(abs32) > 1.0 {
				t.Fatalf("sample %v out of range", v)
			}
		}
	}
	if nonzero == 0 {
		t.Error("processed buffers contain only silence")
	}
}

func TestProcessAdvancesTime(t *testing.T) {
	p := NewProcessor()
	out := [][]float32{make([]float32, 128), make([]float32, 128)}
	p.process(out)

	want := 128.0 / float64(SampleRate)
	if math.Abs(p.time-want) > 1e-9 {
		t.Errorf("time advanced to %v after one buffer, want %v", p.time, want)
	}
}

func TestUpdateFlowSmoothing(t *testing.T) {
	p := NewProcessor()
	p.UpdateFlow(100.0, 0.0)

	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	p.process(out)

	// One buffer blends 0.5% of the target in.
	if math.Abs(p.energySmooth-0.5) > 1e-9 {
		t.Errorf("energySmooth = %v after one buffer, want 0.5", p.energySmooth)
	}

	for i := 0; i < 2000; i++ {
		p.process(out)
	}
	if p.energySmooth < 99.0 {
		t.Errorf("energySmooth = %v after 2000 buffers, want near 100", p.energySmooth)
	}
}

func TestNewProcessorDelayLine(t *testing.T) {
	p := NewProcessor()
	wantLen := int(float64(SampleRate) * 0.6)
	for ch := 0; ch < 2; ch++ {
		if len(p.delayLine[ch]) != wantLen {
			t.Errorf("delay line %d has %d samples, want %d", ch, len(p.delayLine[ch]), wantLen)
		}
	}
	if p.Active() {
		t.Error("new processor reports active before Start")
	}
}
