package annotation

import (
	"fmt"
	"strconv"
	"strings"
)

// ParamType is the tag of a Param.
type ParamType uint8

const (
	None ParamType = iota
	String
	Number
	Bool
)

func (t ParamType) String() string {
	switch t {
	case String:
		return "String"
	case Number:
		return "Number"
	case Bool:
		return "Bool"
	}
	return "None"
}

// Param is a positional annotation argument.
type Param struct {
	Type ParamType
	Str  string
	Num  float64
	Bool bool
}

func StringParam(s string) Param  { return Param{Type: String, Str: s} }
func NumberParam(n float64) Param { return Param{Type: Number, Num: n} }
func BoolParam(b bool) Param      { return Param{Type: Bool, Bool: b} }

func (p Param) String() string {
	switch p.Type {
	case String:
		return strconv.Quote(p.Str)
	case Number:
		return strconv.FormatFloat(p.Num, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(p.Bool)
	}
	return "none"
}

// Action is a parsed annotation.
type Action struct {
	Name   string
	Params []Param
	// Trailing is the first token found after the closing parenthesis.
	// Such content is ignored.
	Trailing *Token
}

// SyntaxError reports a malformed annotation.
type SyntaxError struct {
	Line, Col int
	// Found is nil when the input ended early.
	Found    *Token
	Expected []Kind
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Msg)
	}
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	found := "EOF"
	if e.Found != nil {
		found = e.Found.String()
	}
	return fmt.Sprintf("line %d, col %d: expected %s, found %s",
		e.Line, e.Col, strings.Join(names, " or "), found)
}

type parser struct {
	lex *Lexer
	// end of the last token, reported on EOF
	line, col int
}

// Parse parses an annotation without its leading "@".
func Parse(src string) (*Action, error) {
	p := &parser{lex: NewLexer(src), line: 1, col: 1}
	return p.parse()
}

// skipSpaces moves to the next non-space token.
func (p *parser) skipSpaces() (bool, error) {
	for {
		ok, err := p.lex.Next()
		if err != nil || !ok {
			return false, err
		}
		tok := p.lex.Token()
		p.line, p.col = tok.Line, tok.Col+len(tok.Text)
		if tok.Kind != KindSpace {
			return true, nil
		}
	}
}

func (p *parser) eof(expected ...Kind) error {
	return &SyntaxError{Line: p.line, Col: p.col, Expected: expected}
}

func (p *parser) unexpected(expected ...Kind) error {
	tok := p.lex.Token()
	return &SyntaxError{Line: tok.Line, Col: tok.Col, Found: &tok, Expected: expected}
}

func (p *parser) parse() (*Action, error) {
	ok, err := p.skipSpaces()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.eof(KindIdent)
	}
	if p.lex.Token().Kind != KindIdent {
		return nil, p.unexpected(KindIdent)
	}
	a := &Action{Name: p.lex.Token().Text}

	if ok, err = p.skipSpaces(); err != nil || !ok {
		return a, err
	}
	if p.lex.Token().Kind != KindLParen {
		return nil, p.unexpected(KindLParen)
	}

	for {
		if ok, err = p.skipSpaces(); err != nil {
			return nil, err
		} else if !ok {
			return nil, p.eof(KindRParen, KindNumber, KindString)
		}

		tok := p.lex.Token()
		if tok.Kind == KindRParen {
			break
		}
		param, err := literal(tok)
		if err != nil {
			return nil, err
		}
		if param.Type == None {
			return nil, p.unexpected(KindRParen, KindNumber, KindString, KindBool)
		}
		a.Params = append(a.Params, param)

		if ok, err = p.skipSpaces(); err != nil {
			return nil, err
		} else if !ok {
			return nil, p.eof(KindComma, KindRParen)
		}
		if kind := p.lex.Token().Kind; kind == KindRParen {
			break
		} else if kind != KindComma {
			return nil, p.unexpected(KindComma, KindRParen)
		}
	}

	if ok, err = p.skipSpaces(); err != nil {
		return nil, err
	} else if ok {
		tok := p.lex.Token()
		a.Trailing = &tok
	}
	return a, nil
}

func literal(tok Token) (Param, error) {
	switch tok.Kind {
	case KindString:
		return StringParam(tok.Text[1 : len(tok.Text)-1]), nil
	case KindNumber:
		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return Param{}, &SyntaxError{Line: tok.Line, Col: tok.Col, Found: &tok, Msg: err.Error()}
		}
		return NumberParam(n), nil
	case KindBool:
		return BoolParam(tok.Text == "true"), nil
	}
	return Param{}, nil
}
