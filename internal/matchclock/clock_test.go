package matchclock

import "testing"

func TestClockOnlyAdvancesWhileRunning(t *testing.T) {
	c := New()

	c.Tick()
	c.Tick()
	if got := c.Elapsed(); got != 0 {
		t.Fatalf("paused clock advanced: elapsed=%d", got)
	}

	c.Start()
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	if got := c.Elapsed(); got != 5 {
		t.Fatalf("elapsed=%d, want 5", got)
	}

	c.Pause()
	c.Tick()
	if got := c.Elapsed(); got != 5 {
		t.Fatalf("elapsed advanced while paused: %d", got)
	}

	// Idempotent start/pause.
	c.Start()
	c.Start()
	c.Tick()
	c.Pause()
	c.Pause()
	if got := c.Elapsed(); got != 6 {
		t.Fatalf("elapsed=%d, want 6", got)
	}
}

func TestClockMonotonic(t *testing.T) {
	c := New()
	c.Start()
	prev := 0
	for i := 0; i < 100; i++ {
		if i%7 == 0 {
			c.Pause()
		}
		if i%11 == 0 {
			c.Start()
		}
		c.Tick()
		if c.Elapsed() < prev {
			t.Fatalf("elapsed decreased from %d to %d", prev, c.Elapsed())
		}
		prev = c.Elapsed()
	}
}

func TestClockReset(t *testing.T) {
	c := New()
	c.Start()
	for i := 0; i < 30; i++ {
		c.Tick()
	}
	c.Reset()
	if c.Elapsed() != 0 || c.Running() {
		t.Fatalf("reset left elapsed=%d running=%v", c.Elapsed(), c.Running())
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59, "00:59"},
		{60, "01:00"},
		{125, "02:05"},
		{600, "10:00"},
		{3000, "50:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestClockTicksFormatScenario(t *testing.T) {
	c := New()
	c.Start()
	for i := 0; i < 125; i++ {
		c.Tick()
	}
	if got := FormatTime(c.Elapsed()); got != "02:05" {
		t.Fatalf("after 125 ticks FormatTime = %q, want 02:05", got)
	}
}
