package where

import (
	"io"

	"heron/pkg/ast"
	"heron/pkg/refs"
	"heron/pkg/vm"

	"github.com/sirupsen/logrus"
)

// Compiler wraps the free Split/CompileLoops functions with injectable
// trace logging of term placement and loop compilation, following the
// "library takes a logger" idiom used throughout this module. The free
// functions remain usable directly for callers that don't need logging.
type Compiler struct {
	Logger *logrus.Logger
}

// NewCompiler returns a Compiler. A nil logger gets a discard logger.
func NewCompiler(logger *logrus.Logger) *Compiler {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Compiler{Logger: logger}
}

// Split behaves like the free Split function, additionally tracing each
// term's chosen cursor.
func (c *Compiler) Split(whereExpr ast.Expression, joins []JoinClause, r refs.List, minOpenCursor int) (ProcessedWhereClause, error) {
	terms, err := Split(whereExpr, joins, r, minOpenCursor)
	if err != nil {
		c.Logger.WithError(err).Trace("where: split failed")
		return nil, err
	}
	for _, term := range terms {
		c.Logger.WithFields(logrus.Fields{
			"cursor": term.EvaluateAtCursor,
			"expr":   term.Expr.String(),
		}).Trace("where: term placed")
	}
	return terms, nil
}

// CompileLoops behaves like the free CompileLoops function, additionally
// tracing how many loops it's compiling against.
func (c *Compiler) CompileLoops(b *vm.Builder, r refs.List, clause ProcessedWhereClause, loops []Loop) error {
	c.Logger.WithField("loops", len(loops)).Trace("where: compiling loops")
	return CompileLoops(b, r, clause, loops)
}
