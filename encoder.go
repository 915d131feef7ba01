package yulsmt

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/immutable"
	"github.com/benbjohnson/yulsmt/ast"
	"go.uber.org/zap"
)

// Encoder translates Yul code in SSA form into SMT assertions.
//
// An encoder is constructed for a single pass over a region of code. It
// exclusively owns its solver session, which is released by Close(). It is
// not safe for concurrent use.
type Encoder struct {
	solver  Solver
	dialect Dialect

	// Current generation of each tracked variable (ast.YulName -> int).
	versions *immutable.SortedMap

	// Conjunction of branch predicates in effect. Nil when unrestricted.
	pathCondition Expr

	// Fresh symbol counter used by UniqueName().
	varCounter int

	// Names of symbols known to denote values within [0, 2^256).
	inRange map[string]struct{}

	assertions []Expr
	stats      Stats

	// Dialect-specific semantics of builtin instructions.
	// Must be set before encoding.
	Builtins BuiltinEncoder

	// Sort given to program variables & literals. Defaults to IntSort.
	DefaultSort Sort

	// If true, an assignment whose value cannot be encoded leaves the
	// variable unconstrained instead of returning ErrUnsupported. Calls to
	// user-defined functions are replaced by fresh words.
	UnknownOnUnsupported bool

	Logger *zap.Logger
}

// NewEncoder returns a new instance of Encoder which takes ownership of solver.
func NewEncoder(solver Solver, dialect Dialect) *Encoder {
	return &Encoder{
		solver:   solver,
		dialect:  dialect,
		versions: immutable.NewSortedMap(&yulNameComparer{}),
		inRange:  make(map[string]struct{}),
		Logger:   zap.NewNop(),
	}
}

// Close releases the solver session.
func (e *Encoder) Close() error {
	return e.solver.Close()
}

// Solver returns the underlying solver session.
func (e *Encoder) Solver() Solver { return e.solver }

// Dialect returns the dialect builtins are resolved against.
func (e *Encoder) Dialect() Dialect { return e.dialect }

// Stats returns statistics for the encoding session.
func (e *Encoder) Stats() Stats { return e.stats }

// Sort returns the sort of program variables.
func (e *Encoder) Sort() Sort {
	if e.DefaultSort.Kind == 0 {
		return IntSort
	}
	return e.DefaultSort
}

// Assertions returns all assertions added to the solver, in order.
// Assertions made by Check() are scoped to the check and not included.
func (e *Encoder) Assertions() []Expr {
	a := make([]Expr, len(e.assertions))
	copy(a, e.assertions)
	return a
}

// EncodeExpression converts a Yul expression into a symbolic expression.
//
// Tracked variables read their current generation. Identifiers that are not
// tracked (e.g. function parameters) are modeled as fresh unknown words.
func (e *Encoder) EncodeExpression(expr ast.Expression) (Expr, error) {
	switch expr := expr.(type) {
	case *ast.Identifier:
		if _, ok := e.Generation(expr.Name); ok {
			return e.CurrentVariableExpression(expr.Name), nil
		}
		return e.NewRestrictedVariable(nil)
	case *ast.Literal:
		v, err := LiteralValue(expr)
		if err != nil {
			return nil, err
		}
		return e.toSort(v), nil
	case *ast.FunctionCall:
		return e.encodeFunctionCall(expr)
	default:
		return nil, fmt.Errorf("yulsmt: unexpected expression type: %T", expr)
	}
}

func (e *Encoder) encodeFunctionCall(call *ast.FunctionCall) (Expr, error) {
	name := call.FunctionName.Name

	b, ok := e.dialect.Builtin(name)
	if !ok {
		// User-defined functions return an arbitrary word when unknowns are
		// allowed.
		err := e.unsupported(&UnsupportedError{Name: string(name), Reason: "user-defined function"})
		if !e.UnknownOnUnsupported {
			return nil, err
		}
		return e.NewRestrictedVariable(nil)
	} else if !b.HasInstruction {
		return nil, e.unsupported(&UnsupportedError{Name: string(name), Reason: "not a builtin instruction"})
	} else if b.Returns != 1 {
		return nil, e.unsupported(&UnsupportedError{Name: string(name), Reason: fmt.Sprintf("returns %d values", b.Returns)})
	} else if len(call.Arguments) != b.Parameters {
		return nil, fmt.Errorf("yulsmt: %s: expected %d arguments, got %d", name, b.Parameters, len(call.Arguments))
	}

	// Arguments are evaluated right to left, as in Yul.
	args := make([]Expr, len(call.Arguments))
	for i := len(call.Arguments) - 1; i >= 0; i-- {
		arg, err := e.EncodeExpression(call.Arguments[i])
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	assert(e.Builtins != nil, "encoder has no builtin encoder")
	result, err := e.Builtins.EncodeEVMBuiltin(e, b.Instruction, args)
	if errors.Is(err, ErrUnsupported) {
		return nil, e.unsupported(err)
	} else if err != nil {
		return nil, err
	}

	if ExprSort(result).IsNumeric() {
		return e.Wrap(result)
	}
	return result, nil
}

func (e *Encoder) unsupported(err error) error {
	e.stats.UnsupportedN++
	e.Logger.Debug("unsupported operation", zap.Error(err))
	return err
}

// toSort converts an integer constant into the encoder's variable sort.
func (e *Encoder) toSort(v Expr) Expr {
	if s := e.Sort(); s.Kind == SortBV && ExprSort(v) == IntSort {
		return NewInt2BVExpr(v, s.Width)
	}
	return v
}

// EncodeBlock encodes each statement of the block in order.
func (e *Encoder) EncodeBlock(block *ast.Block) error {
	for _, stmt := range block.Statements {
		if err := e.EncodeStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// EncodeStatement encodes a single statement.
//
// Expression statements do not change any tracked variable and are skipped.
func (e *Encoder) EncodeStatement(stmt ast.Statement) error {
	switch stmt := stmt.(type) {
	case *ast.VariableDeclaration:
		return e.EncodeVariableDeclaration(stmt)
	case *ast.Assignment:
		return e.EncodeVariableAssignment(stmt)
	case *ast.If:
		return e.encodeIf(stmt)
	case *ast.Block:
		return e.EncodeBlock(stmt)
	case *ast.ExpressionStatement:
		return nil
	default:
		return fmt.Errorf("yulsmt: unexpected statement type: %T", stmt)
	}
}

// encodeIf encodes the body under the branch predicate and then merges each
// variable reassigned in the body into a new generation:
//
//	v' == ite(pred, v_body, v_before)
func (e *Encoder) encodeIf(stmt *ast.If) error {
	cond, err := e.EncodeExpression(stmt.Condition)
	if errors.Is(err, ErrUnsupported) && e.UnknownOnUnsupported {
		if cond, err = e.newRestrictedVariable(e.Sort(), nil); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	pred := BooleanCondition(cond)

	before := e.versions
	restore := e.EnterPathCondition(pred)
	err = e.EncodeBlock(stmt.Body)
	restore()
	if err != nil {
		return err
	}

	for itr := before.Iterator(); !itr.Done(); {
		k, v := itr.Next()
		name, prev := k.(ast.YulName), v.(int)
		if gen, _ := e.Generation(name); gen == prev {
			continue
		}

		bodyValue := e.CurrentVariableExpression(name)
		prevValue := e.VariableExpressionAtIndex(name, prev)
		merged := e.newGeneration(name)
		if err := e.AddAssertion(NewBinaryExpr(EQ, merged, NewIteExpr(pred, bodyValue, prevValue))); err != nil {
			return err
		}
	}
	return nil
}

// Check checks the satisfiability of the current assertions together with
// the path condition and exprs. The extra assertions are removed afterward.
//
// The model is only returned for satisfiable results. An Unknown result is
// returned as-is and is not an error.
func (e *Encoder) Check(exprs ...Expr) (result CheckResult, model Model, err error) {
	t := time.Now()
	defer func() {
		e.stats.CheckN++
		e.stats.CheckTime += time.Since(t)
	}()

	if err := e.solver.Push(); err != nil {
		return Unknown, nil, err
	}
	defer func() {
		if perr := e.solver.Pop(); perr != nil && err == nil {
			err = perr
		}
	}()

	if e.pathCondition != nil {
		exprs = append([]Expr{e.pathCondition}, exprs...)
	}
	for _, expr := range exprs {
		assert(ExprSort(expr) == BoolSort, "check: non-boolean expression: %s", expr)
		if err := e.solver.Assert(expr); err != nil {
			return Unknown, nil, err
		}
	}

	if result, err = e.solver.Check(); err != nil {
		return Unknown, nil, err
	}
	e.Logger.Debug("check", zap.Stringer("result", result), zap.Int("assertions", len(e.assertions)+len(exprs)))

	switch result {
	case Satisfiable:
		if model, err = e.solver.Model(); err != nil {
			return result, nil, err
		}
	case Unknown:
		e.stats.UnknownN++
	}
	return result, model, nil
}

// Stats represents statistics for an encoding session.
type Stats struct {
	AssertN      int // assertions added
	VariableN    int // fresh symbols allocated
	CheckN       int // satisfiability checks
	UnknownN     int // checks with unknown result
	UnsupportedN int // operations that could not be encoded
	CheckTime    time.Duration
}

// yulNameComparer compares two Yul names. Implements immutable.Comparer.
type yulNameComparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b, and
// returns 0 if a is equal to b. Panic if a or b is not an ast.YulName.
func (c *yulNameComparer) Compare(a, b interface{}) int {
	if i, j := a.(ast.YulName), b.(ast.YulName); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}
