package lexer_test

import (
	"errors"
	"testing"

	"github.com/agenthands/tiparm/pkg/compiler/lexer"
)

func TestScannerZeroAlloc(t *testing.T) {
	src := "\x1b[%?%p1%{8}%<%t3%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e38;5;%p1%d%;m"
	s := lexer.NewScanner(src)

	allocs := testing.AllocsPerRun(10, func() {
		s.Reset(src)
		for {
			tok, err := s.Next()
			if err != nil || tok.Kind == lexer.KindEOF {
				break
			}
		}
	})

	if allocs > 0 {
		t.Errorf("expected 0 allocations, got %f", allocs)
	}
}

func TestExtractNoEscapes(t *testing.T) {
	for _, src := range []string{"", "plain text", "\x1b[H\x1b[2J"} {
		tokens, err := lexer.Extract(src)
		if err != nil {
			t.Fatalf("Extract(%q): %v", src, err)
		}
		if len(tokens) != 0 {
			t.Errorf("Extract(%q): expected no tokens, got %v", src, tokens)
		}
	}
}

func TestExtractKinds(t *testing.T) {
	tests := []struct {
		src  string
		want []lexer.Kind
	}{
		{"%%", []lexer.Kind{lexer.KindLiteral}},
		{"%c%s%l", []lexer.Kind{lexer.KindPopChar, lexer.KindPopString, lexer.KindStringLength}},
		{"%+%-%*%/%m", []lexer.Kind{lexer.KindAdd, lexer.KindSub, lexer.KindMul, lexer.KindDiv, lexer.KindMod}},
		{"%&%|%^", []lexer.Kind{lexer.KindBitAnd, lexer.KindBitOr, lexer.KindBitXor}},
		{"%=%>%<%A%O", []lexer.Kind{lexer.KindEqual, lexer.KindGreaterThan, lexer.KindLessThan, lexer.KindLogicalAnd, lexer.KindLogicalOr}},
		{"%!%~%i", []lexer.Kind{lexer.KindLogicalNot, lexer.KindBitNot, lexer.KindIncrement}},
		{"%p1%Pa%gZ", []lexer.Kind{lexer.KindPushParam, lexer.KindSetVariable, lexer.KindGetVariable}},
		{"%{42}%{-3}%'x'%[abc]", []lexer.Kind{lexer.KindIntConstant, lexer.KindIntConstant, lexer.KindCharConstant, lexer.KindCharList}},
		{"%d%o%x%X%02d%3x%.2s%:-10s%#o% d", []lexer.Kind{
			lexer.KindFormatting, lexer.KindFormatting, lexer.KindFormatting, lexer.KindFormatting, lexer.KindFormatting,
			lexer.KindFormatting, lexer.KindFormatting, lexer.KindFormatting, lexer.KindFormatting, lexer.KindFormatting,
		}},
		{"%?%p1%t1%e2%;", []lexer.Kind{lexer.KindConditional}},
	}

	for _, tt := range tests {
		tokens, err := lexer.Extract(tt.src)
		if err != nil {
			t.Fatalf("Extract(%q): %v", tt.src, err)
		}
		if len(tokens) != len(tt.want) {
			t.Fatalf("Extract(%q): expected %d tokens, got %d (%v)", tt.src, len(tt.want), len(tokens), tokens)
		}
		for i, want := range tt.want {
			if tokens[i].Kind != want {
				t.Errorf("Extract(%q) token %d: expected %v, got %v", tt.src, i, want, tokens[i].Kind)
			}
		}
	}
}

func TestExtractOffsetsAndText(t *testing.T) {
	src := "\x1b[%i%p1%d;%p2%dH"
	tokens, err := lexer.Extract(src)
	if err != nil {
		t.Fatal(err)
	}

	want := []lexer.Token{
		{Text: "%i", Offset: 2, Kind: lexer.KindIncrement},
		{Text: "%p1", Offset: 4, Kind: lexer.KindPushParam},
		{Text: "%d", Offset: 7, Kind: lexer.KindFormatting},
		{Text: "%p2", Offset: 10, Kind: lexer.KindPushParam},
		{Text: "%d", Offset: 13, Kind: lexer.KindFormatting},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d: expected %+v, got %+v", i, want[i], tokens[i])
		}
		if src[tokens[i].Offset:tokens[i].End()] != tokens[i].Text {
			t.Errorf("token %d text does not match its source span", i)
		}
	}
}

func TestExtractColonMinusIsFlag(t *testing.T) {
	tokens, err := lexer.Extract("%:-5d%-")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %v", tokens)
	}
	if tokens[0].Kind != lexer.KindFormatting || tokens[0].Text != "%:-5d" {
		t.Errorf("expected formatting %%:-5d, got %+v", tokens[0])
	}
	if tokens[1].Kind != lexer.KindSub {
		t.Errorf("expected subtraction, got %v", tokens[1].Kind)
	}
}

func TestExtractNestedConditional(t *testing.T) {
	src := "a%?%p1%t%?%p2%tX%eY%;%eZ%;b%d"
	tokens, err := lexer.Extract(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %v", tokens)
	}
	if tokens[0].Text != "%?%p1%t%?%p2%tX%eY%;%eZ%;" || tokens[0].Offset != 1 {
		t.Errorf("conditional span wrong: %+v", tokens[0])
	}
	if tokens[1].Offset != 27 {
		t.Errorf("expected trailing %%d at 27, got %d", tokens[1].Offset)
	}
}

func TestExtractConditionalCharConstants(t *testing.T) {
	tokens, err := lexer.Extract("%?%p1%';'%=%t;%e:%;")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 1 || tokens[0].Kind != lexer.KindConditional {
		t.Fatalf("expected one conditional, got %v", tokens)
	}
}

func TestExtractSyntaxErrors(t *testing.T) {
	bad := []string{
		"%",
		"abc%",
		"%p",
		"%p0",
		"%pa",
		"%P1",
		"%g",
		"%{12",
		"%{}",
		"%{1a}",
		"%'",
		"%'a",
		"%'ab'",
		"%[abc",
		"%[]",
		"%z",
		"%e",
		"%5",
		"%:5d",
		"%:+d",
		"%.3",
		"%?%p1%t1",
		"%?%p1%t%?1%;",
	}
	for _, src := range bad {
		_, err := lexer.Extract(src)
		if err == nil {
			t.Errorf("Extract(%q): expected syntax error", src)
			continue
		}
		if !errors.Is(err, lexer.ErrSyntax) {
			t.Errorf("Extract(%q): expected ErrSyntax, got %v", src, err)
		}
		var se *lexer.SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Extract(%q): expected *SyntaxError, got %T", src, err)
		}
	}
}

func TestSyntaxErrorOffset(t *testing.T) {
	_, err := lexer.Extract("ok%d bad%q")
	var se *lexer.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Offset != 8 {
		t.Errorf("expected offset 8, got %d", se.Offset)
	}
}

func TestKindClassifiers(t *testing.T) {
	if !lexer.KindAdd.IsBinary() || !lexer.KindLogicalOr.IsBinary() || lexer.KindLogicalNot.IsBinary() {
		t.Errorf("IsBinary misclassifies operators")
	}
	if !lexer.KindBitNot.IsUnary() || lexer.KindSub.IsUnary() {
		t.Errorf("IsUnary misclassifies operators")
	}
	if !lexer.KindFormatting.Produces() || lexer.KindPushParam.Produces() {
		t.Errorf("Produces misclassifies operators")
	}
	if lexer.KindIncrement.String() != "AddOneToFirstTwoNumericResults" {
		t.Errorf("unexpected name %q", lexer.KindIncrement.String())
	}
	if lexer.Kind(200).String() != "Unknown" {
		t.Errorf("out of range kinds must be Unknown")
	}
}

func FuzzExtract(f *testing.F) {
	f.Add("\x1b[%i%p1%d;%p2%dH")
	f.Add("%?%p1%{8}%<%t3%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e38;5;%p1%d%;")
	f.Add("%'a'%[xyz]%{-12}%:-3.2s")

	f.Fuzz(func(t *testing.T, src string) {
		tokens, err := lexer.Extract(src)
		if err != nil {
			if !errors.Is(err, lexer.ErrSyntax) {
				t.Fatalf("unexpected error class: %v", err)
			}
			return
		}
		prev := -1
		for _, tok := range tokens {
			if tok.Offset <= prev {
				t.Fatalf("tokens out of order: %v", tokens)
			}
			if src[tok.Offset:tok.End()] != tok.Text {
				t.Fatalf("token %+v does not match source", tok)
			}
			prev = tok.Offset
		}
	})
}
