package lexer

// Kind represents the operator category of an extracted token.
type Kind uint8

const (
	KindEOF          Kind = iota
	KindLiteral           // %%
	KindFormatting        // %[[:]flags][width[.precision]][doxXs]
	KindPopChar           // %c
	KindPopString         // %s
	KindPushParam         // %p[1-9]
	KindSetVariable       // %P[a-zA-Z]
	KindGetVariable       // %g[a-zA-Z]
	KindCharConstant      // %'c'
	KindCharList          // %[...]
	KindIntConstant       // %{nn}
	KindStringLength      // %l
	KindAdd               // %+
	KindSub               // %-
	KindMul               // %*
	KindDiv               // %/
	KindMod               // %m
	KindBitAnd            // %&
	KindBitOr             // %|
	KindBitXor            // %^
	KindEqual             // %=
	KindGreaterThan       // %>
	KindLessThan          // %<
	KindLogicalAnd        // %A
	KindLogicalOr         // %O
	KindLogicalNot        // %!
	KindBitNot            // %~
	KindIncrement         // %i
	KindConditional       // %? ... %;
)

var kindNames = [...]string{
	KindEOF:          "EOF",
	KindLiteral:      "Literal",
	KindFormatting:   "Formatting",
	KindPopChar:      "PopChar",
	KindPopString:    "PopString",
	KindPushParam:    "PushParam",
	KindSetVariable:  "SetVariable",
	KindGetVariable:  "GetVariable",
	KindCharConstant: "CharConstant",
	KindCharList:     "CharList",
	KindIntConstant:  "IntConstant",
	KindStringLength: "StringLength",
	KindAdd:          "Add",
	KindSub:          "Sub",
	KindMul:          "Mul",
	KindDiv:          "Div",
	KindMod:          "Mod",
	KindBitAnd:       "BitAnd",
	KindBitOr:        "BitOr",
	KindBitXor:       "BitXor",
	KindEqual:        "Equal",
	KindGreaterThan:  "GreaterThan",
	KindLessThan:     "LessThan",
	KindLogicalAnd:   "LogicalAnd",
	KindLogicalOr:    "LogicalOr",
	KindLogicalNot:   "LogicalComplement",
	KindBitNot:       "BitComplement",
	KindIncrement:    "AddOneToFirstTwoNumericResults",
	KindConditional:  "Conditional",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsBinary reports whether the operator pops two operands.
func (k Kind) IsBinary() bool {
	return k >= KindAdd && k <= KindLogicalOr
}

// IsUnary reports whether the operator pops one operand and pushes one result.
func (k Kind) IsUnary() bool {
	return k == KindLogicalNot || k == KindBitNot
}

// Produces reports whether evaluating the token yields visible text.
func (k Kind) Produces() bool {
	switch k {
	case KindLiteral, KindFormatting, KindPopChar, KindPopString, KindConditional:
		return true
	}
	return false
}

// singleOps maps the one-character designators to their kind.
var singleOps = map[byte]Kind{
	'%': KindLiteral,
	'c': KindPopChar,
	's': KindPopString,
	'l': KindStringLength,
	'+': KindAdd,
	'-': KindSub,
	'*': KindMul,
	'/': KindDiv,
	'm': KindMod,
	'&': KindBitAnd,
	'|': KindBitOr,
	'^': KindBitXor,
	'=': KindEqual,
	'<': KindLessThan,
	'>': KindGreaterThan,
	'A': KindLogicalAnd,
	'O': KindLogicalOr,
	'!': KindLogicalNot,
	'~': KindBitNot,
	'i': KindIncrement,
}

// Token is one %-escape pointing back to the capability source.
type Token struct {
	Text   string
	Offset int
	Kind   Kind
}

// End returns the offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}
