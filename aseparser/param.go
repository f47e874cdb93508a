package aseparser

import (
	"fmt"

	"github.com/setanarut/metasprite/aseparser/annotation"
)

// ParamError reports a missing or mistyped meta layer parameter.
type ParamError struct {
	Layer    string
	Index    int
	Expected annotation.ParamType
	Got      annotation.ParamType
}

func (e *ParamError) Error() string {
	if e.Got == annotation.None {
		return fmt.Sprintf("layer %q: no parameter #%d", e.Layer, e.Index)
	}
	return fmt.Sprintf("layer %q: type mismatch at parameter #%d, expected %v, got %v",
		e.Layer, e.Index, e.Expected, e.Got)
}

// ParamCount returns the number of annotation parameters.
func (l *Layer) ParamCount() int {
	return len(l.Params)
}

// ParamType returns the type of parameter i, None if it is missing.
func (l *Layer) ParamType(i int) annotation.ParamType {
	if i < 0 || i >= len(l.Params) {
		return annotation.None
	}
	return l.Params[i].Type
}

func (l *Layer) param(i int, t annotation.ParamType) (annotation.Param, error) {
	if got := l.ParamType(i); got != t {
		return annotation.Param{}, &ParamError{Layer: l.Name, Index: i, Expected: t, Got: got}
	}
	return l.Params[i], nil
}

func (l *Layer) ParamString(i int) (string, error) {
	p, err := l.param(i, annotation.String)
	return p.Str, err
}

func (l *Layer) ParamNumber(i int) (float64, error) {
	p, err := l.param(i, annotation.Number)
	return p.Num, err
}

// ParamInt truncates a Number parameter toward zero.
func (l *Layer) ParamInt(i int) (int, error) {
	p, err := l.param(i, annotation.Number)
	return int(p.Num), err
}

func (l *Layer) ParamBool(i int) (bool, error) {
	p, err := l.param(i, annotation.Bool)
	return p.Bool, err
}
