package tiparm_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/agenthands/tiparm/pkg/tiparm"
	"github.com/agenthands/tiparm/pkg/vm"
)

func TestRender(t *testing.T) {
	got, err := tiparm.Render("\x1b[%i%p1%d;%p2%dH", 23, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != "\x1b[24;5H" {
		t.Errorf("expected cursor address, got %q", got)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := tiparm.Render("%p1%z"); !errors.Is(err, tiparm.ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
	if _, err := tiparm.Render("%p1%p2%/", 1, 0); !errors.Is(err, tiparm.ErrArithmetic) {
		t.Errorf("expected ErrArithmetic, got %v", err)
	}
	if _, err := tiparm.Render("%p3%d", 1); !errors.Is(err, tiparm.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}

func TestCompileReuse(t *testing.T) {
	prog, err := tiparm.Compile("%p1%02x")
	if err != nil {
		t.Fatal(err)
	}
	for n, want := range map[int]string{0: "00", 10: "0a", 255: "ff"} {
		if got, err := prog.Run(n); err != nil || got != want {
			t.Errorf("Run(%d): expected %q, got %q (%v)", n, want, got, err)
		}
	}
}

func TestCache(t *testing.T) {
	c := tiparm.NewCache()
	first, err := c.Get("%p1%d")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Get("%p1%d")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("expected the cached program to be reused")
	}

	if _, err := c.Get("%q"); !errors.Is(err, tiparm.ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("failed compiles must not be cached, have %d entries", c.Len())
	}

	got, err := c.Render("%p1%d-%p2%d", 3, 4)
	if err != nil || got != "3-4" {
		t.Errorf("expected 3-4, got %q (%v)", got, err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("expected an empty cache after Purge, got %d", c.Len())
	}
}

func TestCacheStatics(t *testing.T) {
	c := tiparm.NewCache(vm.WithStatics(vm.NewStatics()))
	if _, err := c.Render("%p1%PZ", 42); err != nil {
		t.Fatal(err)
	}
	got, err := c.Render("%gZ%d")
	if err != nil || got != "42" {
		t.Errorf("expected 42 from session variable, got %q (%v)", got, err)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := tiparm.NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				src := fmt.Sprintf("%%p1%%{%d}%%+%%d", j%5)
				want := fmt.Sprint(n + j%5)
				if got, err := c.Render(src, n); err != nil || got != want {
					t.Errorf("%q(%d): expected %q, got %q (%v)", src, n, want, got, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	if c.Len() != 5 {
		t.Errorf("expected 5 cached programs, got %d", c.Len())
	}
}

func BenchmarkCacheRender(b *testing.B) {
	c := tiparm.NewCache()
	const setaf = "\x1b[%?%p1%{8}%<%t3%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e38;5;%p1%d%;m"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Render(setaf, i&0xff); err != nil {
			b.Fatal(err)
		}
	}
}
