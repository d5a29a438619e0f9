package tiparm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrDelay is matched by malformed $<...> padding markers.
var ErrDelay = errors.New("tiparm: malformed delay")

// Segment is rendered output followed by the pause requested after it.
type Segment struct {
	Text  string
	Delay time.Duration

	// Proportional is set by '*': the delay scales with affected lines.
	Proportional bool
	// Mandatory is set by '/': the pause is required even with xon/xoff.
	Mandatory bool
}

// SplitDelays cuts rendered output at its $<N> padding markers. N is in
// milliseconds with an optional tenth, e.g. $<5>, $<2.5*>, $<10/>.
func SplitDelays(s string) ([]Segment, error) {
	var (
		segs []Segment
		text strings.Builder
	)
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 >= len(s) || s[i+1] != '<' {
			text.WriteByte(s[i])
			continue
		}
		end := strings.IndexByte(s[i+2:], '>')
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated marker at offset %d", ErrDelay, i)
		}
		seg, err := parseDelay(s[i+2 : i+2+end])
		if err != nil {
			return nil, fmt.Errorf("%w at offset %d", err, i)
		}
		seg.Text = text.String()
		text.Reset()
		segs = append(segs, seg)
		i += end + 2
	}
	if text.Len() > 0 {
		segs = append(segs, Segment{Text: text.String()})
	}
	return segs, nil
}

func parseDelay(body string) (Segment, error) {
	var seg Segment
	number := strings.TrimRight(body, "*/")
	for _, flag := range body[len(number):] {
		if flag == '*' {
			seg.Proportional = true
		} else {
			seg.Mandatory = true
		}
	}
	if number == "" {
		return seg, fmt.Errorf("%w: missing delay value", ErrDelay)
	}
	ms, err := strconv.ParseFloat(number, 64)
	if err != nil || strings.Trim(number, "0123456789.") != "" || strings.Count(number, ".") > 1 {
		return seg, fmt.Errorf("%w: invalid delay value %q", ErrDelay, number)
	}
	seg.Delay = time.Duration(ms * float64(time.Millisecond))
	return seg, nil
}

// StripDelays removes padding markers and returns only the output text.
func StripDelays(s string) (string, error) {
	segs, err := SplitDelays(s)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(seg.Text)
	}
	return b.String(), nil
}

// WriteSegments writes each segment and waits out its delay. It stops early
// when ctx is cancelled.
func WriteSegments(ctx context.Context, w io.Writer, segs []Segment) error {
	for _, seg := range segs {
		if seg.Text != "" {
			if _, err := io.WriteString(w, seg.Text); err != nil {
				return err
			}
		}
		if seg.Delay <= 0 {
			continue
		}
		timer := time.NewTimer(seg.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
