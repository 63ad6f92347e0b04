package multi

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	multiLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "EscOpen", Pattern: `\[\[`},
		{Name: "EscClose", Pattern: `\]\]`},
		{Name: "Tag", Pattern: `\[[^\[\]]*\]`},
		{Name: "Text", Pattern: `[^\[\]]+`},
	})

	escOpenType  = mustTokenType("EscOpen")
	escCloseType = mustTokenType("EscClose")
	tagTokenType = mustTokenType("Tag")
)

// Tokenizer produces MULTI values from markup one at a time. Lexing is lazy:
// nothing past the returned value has been examined.
type Tokenizer struct {
	lex    lexer.Lexer
	peeked *lexer.Token
	err    error
}

// NewTokenizer returns a tokenizer over the MULTI string ms.
func NewTokenizer(ms string) *Tokenizer {
	lex, err := multiLexer.LexString("", ms)
	return &Tokenizer{lex: lex, err: err}
}

// Next returns the next value, or io.EOF when the message is exhausted.
// Adjacent text runs and bracket escapes are merged into one Text value.
func (t *Tokenizer) Next() (Value, error) {
	if t.err != nil {
		return nil, t.err
	}
	tok, err := t.next()
	if err != nil {
		return nil, t.fail(err)
	}
	if tok.EOF() {
		t.err = io.EOF
		return nil, io.EOF
	}
	if tok.Type == tagTokenType {
		v, err := decodeTag(tok)
		if err != nil {
			return nil, t.fail(err)
		}
		return v, nil
	}
	var b strings.Builder
	b.WriteString(unescape(tok))
	for {
		nt, err := t.next()
		if err != nil {
			return nil, t.fail(err)
		}
		if nt.EOF() || nt.Type == tagTokenType {
			t.peeked = &nt
			break
		}
		b.WriteString(unescape(nt))
	}
	return Text{Text: b.String()}, nil
}

// Parse tokenizes a whole message.
func Parse(ms string) ([]Value, error) {
	t := NewTokenizer(ms)
	var values []Value
	for {
		v, err := t.Next()
		if err == io.EOF {
			return values, nil
		}
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
}

func (t *Tokenizer) next() (lexer.Token, error) {
	if t.peeked != nil {
		tok := *t.peeked
		t.peeked = nil
		return tok, nil
	}
	return t.lex.Next()
}

// fail latches err so that later calls keep reporting it.
func (t *Tokenizer) fail(err error) error {
	if _, ok := err.(*ParseError); !ok {
		pe := &ParseError{Err: fmt.Errorf("%w: %v", ErrSyntax, err)}
		if p, ok := err.(interface{ Position() lexer.Position }); ok {
			pe.Pos = p.Position()
		}
		err = pe
	}
	t.err = err
	return err
}

func unescape(tok lexer.Token) string {
	switch tok.Type {
	case escOpenType:
		return "["
	case escCloseType:
		return "]"
	}
	return tok.Value
}

func mustTokenType(name string) lexer.TokenType {
	symbols := multiLexer.Symbols()
	tt, ok := symbols[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}

// tagNames is ordered so that longer names match before their prefixes.
var tagNames = []string{
	"/fl", "/ms", "/sc",
	"cb", "cf", "cr", "fl", "fo", "f", "g", "hc", "jl", "jp",
	"ms", "mv", "nl", "np", "pb", "pt", "sc", "tr",
}

func decodeTag(tok lexer.Token) (Value, error) {
	body := tok.Value[1 : len(tok.Value)-1]
	lower := strings.ToLower(body)
	for _, name := range tagNames {
		if !strings.HasPrefix(lower, name) {
			continue
		}
		v, err := decodeParams(name, body[len(name):])
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Tag: tok.Value, Err: err}
		}
		return v, nil
	}
	return nil, &ParseError{Pos: tok.Pos, Tag: tok.Value, Err: &UnsupportedTagError{Tag: lower}}
}

func decodeParams(name, params string) (Value, error) {
	switch name {
	case "cb":
		c, err := parseOptColor(params)
		return ColorBackground{Color: c}, err
	case "cf":
		c, err := parseOptColor(params)
		return ColorForeground{Color: c}, err
	case "pb":
		c, err := parseOptColor(params)
		return PageBackground{Color: c}, err
	case "cr":
		return parseColorRectangle(params)
	case "f":
		return parseField(params)
	case "fl":
		return Flash{Params: params}, nil
	case "/fl":
		return FlashEnd{}, requireEmpty(params)
	case "fo":
		return parseFont(params)
	case "g":
		return parseGraphic(params)
	case "hc":
		n, err := strconv.ParseUint(params, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedTagValue, err)
		}
		return HexadecimalCharacter{Code: uint16(n)}, nil
	case "jl":
		if params == "" {
			return JustificationLine{}, nil
		}
		n, err := parseRange(params, int(LineOther), int(LineFull))
		if err != nil {
			return nil, err
		}
		j := LineJustification(n)
		return JustificationLine{Just: &j}, nil
	case "jp":
		if params == "" {
			return JustificationPage{}, nil
		}
		n, err := parseRange(params, int(PageOther), int(PageBottom))
		if err != nil {
			return nil, err
		}
		j := PageJustification(n)
		return JustificationPage{Just: &j}, nil
	case "ms":
		return ManufacturerSpecific{Params: params}, nil
	case "/ms":
		return ManufacturerSpecificEnd{Params: params}, nil
	case "mv":
		return MovingText{Params: params}, nil
	case "nl":
		if params == "" {
			return NewLine{}, nil
		}
		n, err := parseRange(params, 0, 9)
		if err != nil {
			return nil, err
		}
		return NewLine{Spacing: &n}, nil
	case "np":
		return NewPage{}, requireEmpty(params)
	case "pt":
		return parsePageTime(params)
	case "sc":
		n, err := parseRange(params, 0, 99)
		if err != nil {
			return nil, err
		}
		return SpacingCharacter{Spacing: n}, nil
	case "/sc":
		return SpacingCharacterEnd{}, requireEmpty(params)
	case "tr":
		r, err := parseRect(splitParams(params))
		if err != nil {
			return nil, err
		}
		return TextRectangle{Rect: r}, nil
	}
	return nil, &UnsupportedTagError{Tag: name}
}

func requireEmpty(params string) error {
	if params != "" {
		return fmt.Errorf("%w: unexpected parameters %q", ErrSyntax, params)
	}
	return nil
}

func splitParams(params string) []string {
	if params == "" {
		return nil
	}
	return strings.Split(params, ",")
}

func parseRange(s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSyntax, s)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %d not in %d-%d", ErrUnsupportedTagValue, n, lo, hi)
	}
	return n, nil
}

func parseOptColor(params string) (*Color, error) {
	if params == "" {
		return nil, nil
	}
	c, err := parseColor(splitParams(params))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func parseColor(parts []string) (Color, error) {
	switch len(parts) {
	case 1:
		n, err := parseRange(parts[0], 0, 255)
		if err != nil {
			return Color{}, err
		}
		return Legacy(uint8(n)), nil
	case 3:
		var rgb [3]uint8
		for i, p := range parts {
			n, err := parseRange(p, 0, 255)
			if err != nil {
				return Color{}, err
			}
			rgb[i] = uint8(n)
		}
		return RGB(rgb[0], rgb[1], rgb[2]), nil
	}
	return Color{}, fmt.Errorf("%w: bad color %q", ErrSyntax, strings.Join(parts, ","))
}

func parseRect(parts []string) (Rectangle, error) {
	if len(parts) != 4 {
		return Rectangle{}, fmt.Errorf("%w: rectangle needs 4 values", ErrSyntax)
	}
	var v [4]int
	for i, p := range parts {
		n, err := parseRange(p, 1, 65535)
		if err != nil {
			return Rectangle{}, err
		}
		v[i] = n
	}
	return NewRectangle(v[0], v[1], v[2], v[3]), nil
}

func parseColorRectangle(params string) (Value, error) {
	parts := splitParams(params)
	if len(parts) != 5 && len(parts) != 7 {
		return nil, fmt.Errorf("%w: bad color rectangle %q", ErrSyntax, params)
	}
	r, err := parseRect(parts[:4])
	if err != nil {
		return nil, err
	}
	c, err := parseColor(parts[4:])
	if err != nil {
		return nil, err
	}
	return ColorRectangle{Rect: r, Color: c}, nil
}

func parseField(params string) (Value, error) {
	parts := splitParams(params)
	if len(parts) < 1 || len(parts) > 2 {
		return nil, fmt.Errorf("%w: bad field %q", ErrSyntax, params)
	}
	id, err := parseRange(parts[0], 1, 99)
	if err != nil {
		return nil, err
	}
	f := Field{ID: id}
	if len(parts) == 2 {
		if f.Width, err = parseRange(parts[1], 0, 99); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parseVersion(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: bad version id %q", ErrSyntax, s)
	}
	return uint16(n), nil
}

func parseFont(params string) (Value, error) {
	parts := splitParams(params)
	switch len(parts) {
	case 0:
		return Font{}, nil
	case 1, 2:
	default:
		return nil, fmt.Errorf("%w: bad font %q", ErrSyntax, params)
	}
	n, err := parseRange(parts[0], 1, 255)
	if err != nil {
		return nil, err
	}
	f := FontRef{Number: uint8(n)}
	if len(parts) == 2 {
		if f.Version, err = parseVersion(parts[1]); err != nil {
			return nil, err
		}
		f.HasVer = true
	}
	return Font{Font: &f}, nil
}

func parseGraphic(params string) (Value, error) {
	parts := splitParams(params)
	if len(parts) != 1 && len(parts) != 3 && len(parts) != 4 {
		return nil, fmt.Errorf("%w: bad graphic %q", ErrSyntax, params)
	}
	n, err := parseRange(parts[0], 1, 255)
	if err != nil {
		return nil, err
	}
	g := Graphic{Number: uint8(n)}
	if len(parts) >= 3 {
		x, err := parseRange(parts[1], 1, 65535)
		if err != nil {
			return nil, err
		}
		y, err := parseRange(parts[2], 1, 65535)
		if err != nil {
			return nil, err
		}
		g.Pos = &Point{X: x, Y: y}
	}
	if len(parts) == 4 {
		if g.Version, err = parseVersion(parts[3]); err != nil {
			return nil, err
		}
		g.HasVer = true
	}
	return g, nil
}

// parsePageTime decodes "", "N", "NoM" and "oM".
func parsePageTime(params string) (Value, error) {
	on, off, hasOff := strings.Cut(strings.ToLower(params), "o")
	var pt PageTime
	if on != "" {
		n, err := parseRange(on, 0, 255)
		if err != nil {
			return nil, err
		}
		pt.On = &n
	}
	if hasOff && off != "" {
		n, err := parseRange(off, 0, 255)
		if err != nil {
			return nil, err
		}
		pt.Off = &n
	}
	return pt, nil
}
