package annotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		src    string
		name   string
		params []Param
	}{
		{`attack(1, "hit", true)`, "attack", []Param{NumberParam(1), StringParam("hit"), BoolParam(true)}},
		{`sub("arm")`, "sub", []Param{StringParam("arm")}},
		{`pivot`, "pivot", nil},
		{`  pivot  `, "pivot", nil},
		{`event()`, "event", nil},
		{`event( "OnStep" ,  -2.5e1 )`, "event", []Param{StringParam("OnStep"), NumberParam(-25)}},
		{`boxCollider("hitbox", false)`, "boxCollider", []Param{StringParam("hitbox"), BoolParam(false)}},
		{`n(+7, 0.25, "")`, "n", []Param{NumberParam(7), NumberParam(0.25), StringParam("")}},
		{`sub_target-2("a b")`, "sub_target-2", []Param{StringParam("a b")}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			a, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.name, a.Name)
			assert.Equal(t, tt.params, a.Params)
			assert.Nil(t, a.Trailing)
		})
	}
}

func TestParseTrailing(t *testing.T) {
	a, err := Parse(`sub("arm") extra`)
	require.NoError(t, err)
	assert.Equal(t, []Param{StringParam("arm")}, a.Params)
	require.NotNil(t, a.Trailing)
	assert.Equal(t, KindIdent, a.Trailing.Kind)
	assert.Equal(t, "extra", a.Trailing.Text)
	assert.Equal(t, 12, a.Trailing.Col)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src      string
		col      int
		found    bool
		expected []Kind
	}{
		// unterminated parameter list
		{`sub("name"`, 11, false, []Kind{KindComma, KindRParen}},
		{`sub(`, 5, false, []Kind{KindRParen, KindNumber, KindString}},
		// bare identifiers are not literals
		{`sub(name)`, 5, true, []Kind{KindRParen, KindNumber, KindString, KindBool}},
		{`sub("a" "b")`, 9, true, []Kind{KindComma, KindRParen}},
		{`sub "a"`, 5, true, []Kind{KindLParen}},
		{`"sub"`, 1, true, []Kind{KindIdent}},
		{``, 1, false, []Kind{KindIdent}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, 1, se.Line)
			assert.Equal(t, tt.col, se.Col)
			assert.Equal(t, tt.found, se.Found != nil)
			assert.Equal(t, tt.expected, se.Expected)
		})
	}
}

func TestParseUnknownCharacter(t *testing.T) {
	_, err := Parse(`sub("a"; 1)`)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 8, se.Col)
	assert.Contains(t, se.Error(), "unable to match")
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := Parse(`sub("name"`)
	require.EqualError(t, err, "line 1, col 11: expected comma or right_bracket, found EOF")

	_, err = Parse(`sub(name)`)
	require.EqualError(t, err, "line 1, col 5: expected right_bracket or number or string or bool, found id:name")
}

func TestLexerSkipsEmptyLines(t *testing.T) {
	lex := NewLexer("\n\nsub\n(1)")
	var kinds []Kind
	var lines []int
	for {
		ok, err := lex.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		kinds = append(kinds, lex.Token().Kind)
		lines = append(lines, lex.Token().Line)
	}
	assert.Equal(t, []Kind{KindIdent, KindLParen, KindNumber, KindRParen}, kinds)
	assert.Equal(t, []int{3, 4, 4, 4}, lines)
}

func TestLexerRuleOrder(t *testing.T) {
	lex := NewLexer(`12ab truex`)
	var toks []string
	for {
		ok, err := lex.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		toks = append(toks, lex.Token().String())
	}
	assert.Equal(t, []string{"number:12", "id:ab", "space: ", "bool:true", "id:x"}, toks)
}
