// Package expression evaluates expr-lang expressions for the Expression
// condition and Evaluate variable node kinds. Programs are compiled once
// per (source, mode) and cached process-wide; the environment is rebuilt
// per evaluation because it closes over live world state.
package expression

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type compileMode uint8

const (
	compileModeAny compileMode = iota
	compileModeBool
)

type programCacheKey struct {
	expression string
	mode       compileMode
}

var programCache sync.Map // map[programCacheKey]*vm.Program

// Env is the variable environment one evaluation sees: data-input
// values, world helper functions and the built-in helpers.
type Env struct {
	vars map[string]any
}

func NewEnv() *Env {
	return &Env{vars: make(map[string]any)}
}

// Set binds a name to a value or function. Functions become callable
// from expressions.
func (e *Env) Set(name string, v any) *Env {
	e.vars[name] = v
	return e
}

// SetAll binds every entry of the map.
func (e *Env) SetAll(m map[string]any) *Env {
	for k, v := range m {
		e.vars[k] = v
	}
	return e
}

func (e *Env) build() map[string]any {
	env := make(map[string]any, len(e.vars)+2)
	for k, v := range e.vars {
		env[k] = v
	}
	env["uuid"] = helperUUID
	env["ulid"] = helperULID
	return env
}

// Eval compiles (or reuses) the expression and runs it against the
// environment.
func (e *Env) Eval(src string) (any, error) {
	if e == nil {
		return nil, ErrNilEnv
	}
	if src == "" {
		return nil, ErrEmptyExpression
	}
	env := e.build()
	program, err := compile(src, compileModeAny, env)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, NewRunError(src, err)
	}
	return out, nil
}

// EvalBool runs the expression compiled in boolean mode.
func (e *Env) EvalBool(src string) (bool, error) {
	if e == nil {
		return false, ErrNilEnv
	}
	if src == "" {
		return false, ErrEmptyExpression
	}
	env := e.build()
	program, err := compile(src, compileModeBool, env)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, NewRunError(src, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, NewRunError(src, ErrNotBool)
	}
	return b, nil
}

// EvalString runs the expression and renders the result as text.
func (e *Env) EvalString(src string) (string, error) {
	out, err := e.Eval(src)
	if err != nil {
		return "", err
	}
	return Stringify(out), nil
}

func compile(src string, mode compileMode, env map[string]any) (*vm.Program, error) {
	key := programCacheKey{expression: src, mode: mode}
	if cached, ok := programCache.Load(key); ok {
		return cached.(*vm.Program), nil
	}

	options := []expr.Option{expr.Env(env)}
	switch mode {
	case compileModeBool:
		options = append(options, expr.AsBool())
	default:
		options = append(options, expr.AsAny())
	}

	program, err := expr.Compile(src, options...)
	if err != nil {
		return nil, NewCompileError(src, err)
	}
	programCache.Store(key, program)
	return program, nil
}

// Stringify renders an evaluation result the way message templates
// expect: no quotes around strings, integers without exponents.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
