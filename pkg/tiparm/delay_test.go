package tiparm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agenthands/tiparm/pkg/tiparm"
)

func TestSplitDelays(t *testing.T) {
	tests := []struct {
		in   string
		want []tiparm.Segment
	}{
		{"", nil},
		{"plain", []tiparm.Segment{{Text: "plain"}}},
		{"costs $5", []tiparm.Segment{{Text: "costs $5"}}},
		{"\x1b[H$<5>", []tiparm.Segment{{Text: "\x1b[H", Delay: 5 * time.Millisecond}}},
		{"a$<2.5*>b", []tiparm.Segment{
			{Text: "a", Delay: 2500 * time.Microsecond, Proportional: true},
			{Text: "b"},
		}},
		{"$<10/>x$<1*/>", []tiparm.Segment{
			{Delay: 10 * time.Millisecond, Mandatory: true},
			{Text: "x", Delay: time.Millisecond, Proportional: true, Mandatory: true},
		}},
	}

	for _, tt := range tests {
		got, err := tiparm.SplitDelays(tt.in)
		if err != nil {
			t.Fatalf("SplitDelays(%q): %v", tt.in, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("SplitDelays(%q): expected %+v, got %+v", tt.in, tt.want, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitDelays(%q) segment %d: expected %+v, got %+v", tt.in, i, tt.want[i], got[i])
			}
		}
	}
}

func TestSplitDelaysMalformed(t *testing.T) {
	for _, in := range []string{"$<", "$<5", "$<>", "$<*>", "$<abc>", "$<-1>", "$<1e3>", "$<5x>"} {
		if _, err := tiparm.SplitDelays(in); !errors.Is(err, tiparm.ErrDelay) {
			t.Errorf("SplitDelays(%q): expected ErrDelay, got %v", in, err)
		}
	}
}

func TestStripDelays(t *testing.T) {
	got, err := tiparm.StripDelays("\x1b[2J$<50>\x1b[H$<5/>")
	if err != nil {
		t.Fatal(err)
	}
	if got != "\x1b[2J\x1b[H" {
		t.Errorf("unexpected stripped output %q", got)
	}
}

func TestWriteSegments(t *testing.T) {
	var buf bytes.Buffer
	segs := []tiparm.Segment{{Text: "a", Delay: time.Millisecond}, {Text: "b"}}
	if err := tiparm.WriteSegments(context.Background(), &buf, segs); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "ab" {
		t.Errorf("expected ab, got %q", buf.String())
	}
}

func TestWriteSegmentsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	segs := []tiparm.Segment{{Text: "a", Delay: time.Hour}, {Text: "b"}}
	if err := tiparm.WriteSegments(ctx, &buf, segs); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if buf.String() != "a" {
		t.Errorf("expected output up to the delay, got %q", buf.String())
	}
}
