// Package where is the WHERE/ON compiler of spec §2, §4.4-§4.6: splits a
// WHERE clause and join ON clauses into independent conjuncts, places each
// at the cursor it should be evaluated at, and compiles each conjunct into
// short-circuit branch instructions via the shared vm.Builder.
package where

import "github.com/pkg/errors"

// ErrUnsupportedFeature is returned for an AST shape the condition
// compiler doesn't implement: BETWEEN, IS/IS NOT, GLOB/MATCH/REGEXP (spec
// §4.5, §7). Callers should surface it as an actionable diagnostic rather
// than retry.
var ErrUnsupportedFeature = errors.New("unsupported feature")

// ErrNotScalar is returned when translateExpr is asked to materialize an
// expression shape that has no value of its own (AND/OR, a bare
// comparison used as an operand, ...).
var ErrNotScalar = errors.New("not a scalar expression")
