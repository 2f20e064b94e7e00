package render

import (
	"strconv"
	"testing"
	"time"
)

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	d, ok := Remaining(now.Add(90*time.Second), now)
	if !ok {
		t.Fatal("expected remaining time for a future target")
	}
	if d != 90*time.Second {
		t.Errorf("expected 90s remaining, got %v", d)
	}

	if _, ok := Remaining(now, now); ok {
		t.Error("target equal to now must count as expired")
	}
	if _, ok := Remaining(now.Add(-time.Hour), now); ok {
		t.Error("past target must count as expired")
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want Components
	}{
		{"hour minute second", 3661 * time.Second, Components{0, 1, 1, 1}},
		{"zero", 0, Components{0, 0, 0, 0}},
		{"days roll over", (2*86400 + 3*3600 + 4*60 + 5) * time.Second, Components{2, 3, 4, 5}},
		{"just under a day", (86400 - 1) * time.Second, Components{0, 23, 59, 59}},
		{"sub-second discarded", 1500 * time.Millisecond, Components{0, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decompose(tt.d)
			if got != tt.want {
				t.Errorf("Decompose(%v) = %+v, want %+v", tt.d, got, tt.want)
			}
		})
	}
}

func TestDecomposeIdentity(t *testing.T) {
	for _, secs := range []int{0, 1, 59, 60, 3599, 3600, 86399, 86400, 1234567} {
		c := Decompose(time.Duration(secs) * time.Second)
		got := c.Days*86400 + c.Hours*3600 + c.Minutes*60 + c.Seconds
		if got != secs {
			t.Errorf("components of %ds sum to %ds", secs, got)
		}
	}
}

func TestRenderSubstitution(t *testing.T) {
	r := Renderer{Expired: "done"}
	d := (1*86400 + 2*3600 + 3*60 + 4) * time.Second

	got := r.Render(d, true, "{days}d {hours}h {minutes}m {seconds}s left")
	want := "1d 2h 3m 4s left"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderLeavesLiteralsAlone(t *testing.T) {
	r := Renderer{Expired: "done"}
	tpl := "<code>{days}|{hours}|{minutes}|{seconds}</code> {unknown} {days }"
	got := r.Render(61*time.Second, true, tpl)
	want := "<code>0|0|1|1</code> {unknown} {days }"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderExpired(t *testing.T) {
	r := Renderer{Expired: "time is up"}
	got := r.Render(0, false, "{days} {hours} {minutes} {seconds}")
	if got != "time is up" {
		t.Errorf("expected fixed expiry text, got %q", got)
	}
}

func TestRenderCustomDigits(t *testing.T) {
	r := Renderer{
		Digits:  func(n int) string { return "<" + strconv.Itoa(n) + ">" },
		Expired: "done",
	}
	got := r.Render(3661*time.Second, true, "{days}/{hours}/{minutes}/{seconds}")
	want := "<0>/<1>/<1>/<1>"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}
