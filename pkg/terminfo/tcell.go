package terminfo

import (
	"errors"
	"fmt"

	tinfo "github.com/gdamore/tcell/v2/terminfo"
	_ "github.com/gdamore/tcell/v2/terminfo/extended"
)

// TcellSource reads the terminal descriptions compiled into tcell.
type TcellSource struct{}

func (TcellSource) Lookup(term string) (*Entry, error) {
	ti, err := tinfo.LookupTerminfo(term)
	if err != nil {
		if errors.Is(err, tinfo.ErrTermNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTerminal, term)
		}
		return nil, err
	}
	return fromTcell(ti), nil
}

func fromTcell(ti *tinfo.Terminfo) *Entry {
	caps := map[string]string{
		"cup":   ti.SetCursor,
		"setaf": ti.SetFg,
		"setab": ti.SetBg,
		"clear": ti.Clear,
		"bold":  ti.Bold,
		"dim":   ti.Dim,
		"sitm":  ti.Italic,
		"smul":  ti.Underline,
		"blink": ti.Blink,
		"rev":   ti.Reverse,
		"sgr0":  ti.AttrOff,
		"smcup": ti.EnterCA,
		"rmcup": ti.ExitCA,
		"cnorm": ti.ShowCursor,
		"civis": ti.HideCursor,
		"op":    ti.ResetFgBg,
		"smkx":  ti.EnterKeypad,
		"rmkx":  ti.ExitKeypad,
		"smacs": ti.EnterAcs,
		"rmacs": ti.ExitAcs,
		"ich1":  ti.InsertChar,
		"smxx":  ti.StrikeThrough,
	}
	for name, s := range caps {
		if s == "" {
			delete(caps, name)
		}
	}
	return &Entry{Name: ti.Name, Capabilities: caps}
}
