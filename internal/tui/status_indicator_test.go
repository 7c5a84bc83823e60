package tui

import (
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

func TestFmtElapsedCompact(t *testing.T) {
	cases := []struct {
		seconds  uint64
		expected string
	}{
		{seconds: 0, expected: "0s"},
		{seconds: 59, expected: "59s"},
		{seconds: 60, expected: "1m 00s"},
		{seconds: 3*60 + 5, expected: "3m 05s"},
		{seconds: 3600, expected: "1h 00m 00s"},
		{seconds: 25*3600 + 2*60 + 3, expected: "25h 02m 03s"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if got := fmtElapsedCompact(tc.seconds); got != tc.expected {
				t.Fatalf("fmtElapsedCompact(%d) = %q, want %q", tc.seconds, got, tc.expected)
			}
		})
	}
}

func TestStatusIndicatorTimerFollowsSend(t *testing.T) {
	base := time.Unix(0, 0)
	now := base
	widget := NewStatusIndicatorWidget(StatusIndicatorOptions{Clock: func() time.Time { return now }})

	widget.SetState(StatusThinking)
	now = base.Add(1 * time.Second)
	widget.SetState(StatusWaiting)
	now = base.Add(4 * time.Second)
	if got := widget.ElapsedSeconds(); got != 4 {
		t.Fatalf("elapsed while waiting = %d, want 4", got)
	}

	widget.SetState(StatusError)
	now = base.Add(10 * time.Second)
	if got := widget.ElapsedSeconds(); got != 4 {
		t.Fatalf("elapsed should freeze on error, got %d", got)
	}

	widget.SetState(StatusThinking)
	now = base.Add(12 * time.Second)
	if got := widget.ElapsedSeconds(); got != 2 {
		t.Fatalf("new send should restart the timer, got %d", got)
	}
}

func TestStatusIndicatorRender(t *testing.T) {
	now := time.Unix(0, 0)
	widget := NewStatusIndicatorWidget(StatusIndicatorOptions{
		State: StatusWaiting,
		Clock: func() time.Time { return now },
	})

	line, ok := widget.Render(80, "•")
	if !ok {
		t.Fatalf("expected a status line")
	}
	expected := "• Waiting for reply (0s)"
	if got := line.Text(); got != expected {
		t.Fatalf("unexpected render output %q, want %q", got, expected)
	}
}

func TestStatusIndicatorRenderClampsToWidth(t *testing.T) {
	widget := NewStatusIndicatorWidget(StatusIndicatorOptions{State: StatusThinking})
	line, ok := widget.Render(10, "•")
	if !ok {
		t.Fatalf("expected a status line")
	}
	if width := runewidth.StringWidth(line.Text()); width > 10 {
		t.Fatalf("rendered width %d exceeds area width %d", width, 10)
	}
}

func TestStatusIndicatorDesiredHeight(t *testing.T) {
	widget := NewStatusIndicatorWidget(StatusIndicatorOptions{State: StatusIdle})
	if h := widget.DesiredHeight(); h != 0 {
		t.Fatalf("idle status should report height 0, got %d", h)
	}
	if _, ok := widget.Render(40, "•"); ok {
		t.Fatalf("idle status should not render")
	}
	widget.SetState(StatusWaiting)
	if h := widget.DesiredHeight(); h != 1 {
		t.Fatalf("waiting status should report height 1, got %d", h)
	}
}
