// Package annotation parses the "@action(args...)" mini language used in
// meta layer names.
//
//	@sub("arm")
//	@event("OnHit", 2)
//	@boxCollider("hitbox", false)
package annotation

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the kind of a lexical token.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindIdent
	KindComma
	KindLParen
	KindRParen
	KindSpace
)

var kindNames = [...]string{
	KindString: "string",
	KindNumber: "number",
	KindBool:   "bool",
	KindIdent:  "id",
	KindComma:  "comma",
	KindLParen: "left_bracket",
	KindRParen: "right_bracket",
	KindSpace:  "space",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

type rule struct {
	kind Kind
	re   *regexp.Regexp
}

// Rules are tried in order; the first non-empty match wins.
var rules = []rule{
	{KindString, regexp.MustCompile(`^"[^"]*"`)},
	{KindNumber, regexp.MustCompile(`^(?:[-+]?\d+\.\d+(?:[eE][-+]?\d+)?|[-+]?\d+)`)},
	{KindBool, regexp.MustCompile(`^(?:true|false)`)},
	{KindIdent, regexp.MustCompile(`^[a-zA-Z0-9_\-]+`)},
	{KindComma, regexp.MustCompile(`^,`)},
	{KindLParen, regexp.MustCompile(`^\(`)},
	{KindRParen, regexp.MustCompile(`^\)`)},
	{KindSpace, regexp.MustCompile(`^\s*`)},
}

// Token is a lexical token with its 1-based position.
type Token struct {
	Kind Kind
	Text string
	Line int
	Col  int
}

func (t Token) String() string {
	return fmt.Sprintf("%v:%s", t.Kind, t.Text)
}

// Lexer splits its input into tokens line by line. Empty lines are skipped.
type Lexer struct {
	lines []string
	line  int
	col   int
	rest  string
	tok   Token
	done  bool
}

func NewLexer(src string) *Lexer {
	l := &Lexer{lines: strings.Split(src, "\n")}
	l.nextLine()
	return l
}

func (l *Lexer) nextLine() {
	for l.line < len(l.lines) {
		l.rest = strings.TrimSuffix(l.lines[l.line], "\r")
		l.line++
		l.col = 1
		if l.rest != "" {
			return
		}
	}
	l.done = true
}

// Next advances to the next token. It returns false at the end of input.
func (l *Lexer) Next() (bool, error) {
	if l.done {
		return false, nil
	}
	for _, r := range rules {
		n := len(r.re.FindString(l.rest))
		if n == 0 {
			continue
		}
		l.tok = Token{Kind: r.kind, Text: l.rest[:n], Line: l.line, Col: l.col}
		l.col += n
		l.rest = l.rest[n:]
		if l.rest == "" {
			l.nextLine()
		}
		return true, nil
	}
	return false, &SyntaxError{
		Line: l.line,
		Col:  l.col,
		Msg:  fmt.Sprintf("unable to match against any tokens: %q", l.rest),
	}
}

// Token returns the current token.
func (l *Lexer) Token() Token {
	return l.tok
}
