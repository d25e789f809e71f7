package main

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestToneGenerator_SplitFillsMatchSingleFill(t *testing.T) {
	const totalFrames = 20000
	const channels = 2

	whole := mustToneGenerator(t, 48000, channels, TONE_FREQUENCY)
	want := make([]float32, totalFrames*channels)
	if got := whole.Fill(want); got != totalFrames {
		t.Fatalf("single fill wrote %d frames, want %d", got, totalFrames)
	}

	split := mustToneGenerator(t, 48000, channels, TONE_FREQUENCY)
	got := make([]float32, 0, totalFrames*channels)
	rng := rand.New(rand.NewPCG(40, 48000))
	remaining := totalFrames
	for remaining > 0 {
		n := min(1+rng.IntN(700), remaining)
		chunk := make([]float32, n*channels)
		if wrote := split.Fill(chunk); wrote != n {
			t.Fatalf("chunk fill wrote %d frames, want %d", wrote, n)
		}
		got = append(got, chunk...)
		remaining -= n
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d differs: split=%v single=%v", i, got[i], want[i])
		}
	}
	if split.Phase() != whole.Phase() {
		t.Fatalf("phase after split fills = %d, single fill = %d", split.Phase(), whole.Phase())
	}
}

func TestToneGenerator_SingleFrameFillsMatchSingleFill(t *testing.T) {
	whole := mustToneGenerator(t, 44100, 1, TONE_FREQUENCY)
	want := make([]float32, 3000)
	whole.Fill(want)

	stepped := mustToneGenerator(t, 44100, 1, TONE_FREQUENCY)
	one := make([]float32, 1)
	for i := range want {
		stepped.Fill(one)
		if one[0] != want[i] {
			t.Fatalf("frame %d: got %v, want %v", i, one[0], want[i])
		}
	}
}

func TestToneGenerator_PeriodSamplesRounds(t *testing.T) {
	tests := []struct {
		sampleRate int
		frequency  float64
		want       uint64
	}{
		{48000, 40, 1200},
		{44100, 40, 1103}, // 1102.5 rounds away from zero
		{44100, 441, 100},
		{22050, 7, 3150},
	}
	for _, tt := range tests {
		cfg := WaveformConfig{SampleRate: tt.sampleRate, ChannelCount: 1, Frequency: tt.frequency}
		if got := cfg.PeriodSamples(); got != tt.want {
			t.Errorf("PeriodSamples(%d Hz, %v Hz) = %d, want %d", tt.sampleRate, tt.frequency, got, tt.want)
		}
	}
}

func TestToneGenerator_WrapsEveryPeriod(t *testing.T) {
	tg := mustToneGenerator(t, 44100, 1, TONE_FREQUENCY)
	period := int(tg.PeriodSamples())

	buf := make([]float32, period)
	tg.Fill(buf)
	if tg.Phase() != 0 {
		t.Fatalf("phase after one period = %d, want 0", tg.Phase())
	}

	next := make([]float32, 1)
	tg.Fill(next)
	if next[0] != buf[0] {
		t.Fatalf("value after wrap = %v, want value at counter 0 (%v)", next[0], buf[0])
	}
	if buf[0] != 0 {
		t.Fatalf("value at counter 0 = %v, want sin(0) = 0", buf[0])
	}
}

func TestToneGenerator_MatchesReferenceSine(t *testing.T) {
	const sampleRate = 48000
	tg := mustToneGenerator(t, sampleRate, 1, TONE_FREQUENCY)
	period := int(tg.PeriodSamples())

	buf := make([]float32, period*3)
	tg.Fill(buf)
	for i, got := range buf {
		n := i % period
		want := math.Sin(2 * math.Pi * TONE_FREQUENCY * float64(n) / sampleRate)
		if math.Abs(float64(got)-want) > 1e-5 {
			t.Fatalf("frame %d: got %v, want %v", i, got, want)
		}
	}

	// Sign pattern: positive half cycle first, negative second
	if buf[period/4] <= 0 || buf[3*period/4] >= 0 {
		t.Fatalf("unexpected sign pattern: quarter=%v three-quarter=%v", buf[period/4], buf[3*period/4])
	}
}

func TestToneGenerator_DuplicatesAcrossChannels(t *testing.T) {
	const channels = 6
	tg := mustToneGenerator(t, 48000, channels, TONE_FREQUENCY)

	buf := make([]float32, 500*channels)
	tg.Fill(buf)
	for frame := 0; frame < 500; frame++ {
		base := buf[frame*channels]
		for ch := 1; ch < channels; ch++ {
			if buf[frame*channels+ch] != base {
				t.Fatalf("frame %d channel %d = %v, channel 0 = %v", frame, ch, buf[frame*channels+ch], base)
			}
		}
	}
}

func TestToneGenerator_PhaseStaysInRange(t *testing.T) {
	tg := mustToneGenerator(t, 44100, 2, TONE_FREQUENCY)
	period := tg.PeriodSamples()
	rng := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		buf := make([]float32, 2*(1+rng.IntN(4096)))
		tg.Fill(buf)
		if p := tg.Phase(); p >= period {
			t.Fatalf("phase %d outside [0, %d)", p, period)
		}
	}
}

func TestToneGenerator_LeavesPartialFrameUntouched(t *testing.T) {
	tg := mustToneGenerator(t, 48000, 2, TONE_FREQUENCY)
	buf := []float32{9, 9, 9, 9, 9}
	if got := tg.Fill(buf); got != 2 {
		t.Fatalf("Fill wrote %d frames, want 2", got)
	}
	if buf[4] != 9 {
		t.Fatalf("trailing partial frame was overwritten: %v", buf[4])
	}
	if tg.Phase() != 2 {
		t.Fatalf("phase = %d, want 2", tg.Phase())
	}
}

func TestToneGenerator_FillDoesNotAllocate(t *testing.T) {
	tg := mustToneGenerator(t, 48000, 2, TONE_FREQUENCY)
	buf := make([]float32, 1024)
	allocs := testing.AllocsPerRun(100, func() {
		tg.Fill(buf)
	})
	if allocs != 0 {
		t.Fatalf("Fill allocated %.1f times per run, want 0", allocs)
	}
}

func TestWaveformConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     WaveformConfig
		wantErr bool
	}{
		{"default", WaveformConfig{48000, 2, 40}, false},
		{"mono", WaveformConfig{44100, 1, 40}, false},
		{"zero rate", WaveformConfig{0, 2, 40}, true},
		{"no channels", WaveformConfig{48000, 0, 40}, true},
		{"too many channels", WaveformConfig{48000, MAX_CHANNEL_COUNT + 1, 40}, true},
		{"zero frequency", WaveformConfig{48000, 2, 0}, true},
		{"above nyquist", WaveformConfig{48000, 2, 24001}, true},
		{"nan frequency", WaveformConfig{48000, 2, math.NaN()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
