//go:build ignore

// diagnose renders the common capabilities of every listed terminal and
// logs the ones that fail to diagnose.log.
//
//	go run scripts/diagnose.go xterm-256color screen linux
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/agenthands/tiparm/pkg/terminfo"
	"github.com/agenthands/tiparm/pkg/tiparm"
)

// Sample arguments per capability; capabilities not listed take none.
var sampleArgs = map[string][][]any{
	"cup":   {{0, 0}, {23, 79}, {199, 999}},
	"setaf": {{0}, {7}, {8}, {15}, {16}, {255}},
	"setab": {{0}, {7}, {8}, {15}, {16}, {255}},
}

func main() {
	terms := os.Args[1:]
	if len(terms) == 0 {
		terms = []string{"xterm-256color", "xterm", "screen-256color", "tmux-256color", "linux", "vt100", "rxvt-unicode-256color"}
	}

	fmt.Println("DIAGNOSING CAPABILITY RENDERING...")
	logFile, err := os.Create("diagnose.log")
	if err != nil {
		panic(err)
	}
	defer logFile.Close()

	cache := tiparm.NewCache()
	source := terminfo.TcellSource{}
	total, failed := 0, 0

	for _, term := range terms {
		entry, err := source.Lookup(term)
		if err != nil {
			fmt.Fprintf(logFile, "TERM: %s\nERROR: %v\n-------------------\n", term, err)
			failed++
			continue
		}
		for _, name := range entry.Names() {
			runs := sampleArgs[name]
			if runs == nil {
				runs = [][]any{nil}
			}
			for _, args := range runs {
				total++
				out, err := entry.Render(cache, name, args...)
				if err == nil {
					_, err = tiparm.StripDelays(out)
				}
				if err != nil {
					failed++
					raw, _ := entry.Capability(name)
					fmt.Fprintf(logFile, "TERM: %s\nCAP: %s %q ARGS: %v\nERROR: %v\n-------------------\n", term, name, raw, args, err)
				}
			}
		}
	}

	fmt.Printf("%d renders across %s, %d failures logged to diagnose.log\n", total, strings.Join(terms, ", "), failed)
}
