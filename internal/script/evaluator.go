package script

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/steelseries/golisp"
	"go.uber.org/zap"

	"github.com/jask/jaskcalc/internal/logger"
)

// Evaluator runs user code inside a Scope. Evaluation is serialized by the
// caller; a Scope must not be shared by concurrent runs.
type Evaluator struct{}

// NewEvaluator returns an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Run parses and evaluates source in scope. name is used for error reports.
// Any failure, including a panic inside the interpreter, comes back as *Error.
func (e *Evaluator) Run(ctx context.Context, name, source string, scope *Scope) (err error) {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	if scope == nil {
		return &Error{Script: name, Err: errNoScope}
	}
	ctx = logger.With(ctx, zap.String("script", name))
	log := logger.FromContext(ctx)

	prev := scope.ctx
	scope.ctx = ctx
	defer func() {
		scope.ctx = prev
		if r := recover(); r != nil {
			log.Error("script panicked", zap.Any("panic", r))
			err = &Error{Script: name, Err: fmt.Errorf("%v", r), Stack: stackLines(debug.Stack())}
		}
	}()

	if line, ok := strayClose(source); ok {
		perr := fmt.Errorf("parse: unexpected ')' on line %d", line)
		log.Debug("script parse failed", zap.Error(perr))
		return &Error{Script: name, Err: perr}
	}
	code, perr := golisp.Parse("(begin " + source + "\n)")
	if perr != nil {
		log.Debug("script parse failed", zap.Error(perr))
		return &Error{Script: name, Err: fmt.Errorf("parse: %w", perr)}
	}
	if _, everr := golisp.Eval(code, scope.frame); everr != nil {
		log.Debug("script failed", zap.Error(everr))
		return &Error{Script: name, Err: everr}
	}
	log.Debug("script finished")
	return nil
}

// strayClose reports the line of the first ')' that has no matching '('.
// Strings, comments and character literals are skipped.
func strayClose(source string) (int, bool) {
	depth, line := 0, 1
	inString, escaped, inComment := false, false, false
	for i := 0; i < len(source); i++ {
		c := source[i]
		if c == '\n' {
			line++
			inComment = false
		}
		switch {
		case inComment:
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == ';':
			inComment = true
		case c == '"':
			inString = true
		case c == '#' && i+1 < len(source) && source[i+1] == '\\':
			i += 2
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return line, true
			}
		}
	}
	return 0, false
}

// stackLines keeps the function lines of a goroutine dump.
func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		if line == "" || strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "goroutine ") {
			continue
		}
		out = append(out, line)
	}
	return out
}
