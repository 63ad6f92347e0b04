package multi

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Error kinds shared by the tokenizer, render state and layout.
var (
	// ErrUnsupportedTag is returned for tags a sign cannot implement.
	ErrUnsupportedTag = errors.New("unsupported tag")

	// ErrUnsupportedTagValue is returned when a tag value violates the sign's constraints.
	ErrUnsupportedTagValue = errors.New("unsupported tag value")

	// ErrTextTooBig is returned when text does not fit the text rectangle.
	ErrTextTooBig = errors.New("text too big")

	// ErrOther is returned for failures outside the categories above,
	// such as a color the scheme cannot represent.
	ErrOther = errors.New("other error")

	// ErrSyntax is returned for malformed markup.
	ErrSyntax = errors.New("syntax error")
)

// UnsupportedTagError names the rejected tag. It matches ErrUnsupportedTag.
type UnsupportedTagError struct {
	Tag string
}

func (e *UnsupportedTagError) Error() string {
	return fmt.Sprintf("unsupported tag: %s", e.Tag)
}

func (e *UnsupportedTagError) Unwrap() error { return ErrUnsupportedTag }

// ParseError reports where in the message lexing or tag decoding failed.
type ParseError struct {
	Pos lexer.Position
	Tag string
	Err error
}

func (e *ParseError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s: %s: %v", e.Pos, e.Tag, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
