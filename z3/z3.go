package z3

import (
	"fmt"
	"math/big"
	"time"
	"unsafe"

	"github.com/benbjohnson/yulsmt"
)

/*
#cgo LDFLAGS: -lz3
#include <z3.h>
#include <stdlib.h>
#include <stdio.h>
*/
import "C"

// Ensure solver implements interface.
var _ yulsmt.Solver = (*Solver)(nil)

// Solver represents an incremental solver session that uses an embedded Z3 solver.
type Solver struct {
	ctx    *Context
	raw    C.Z3_solver
	stats  Stats
	reason string

	// Declared symbols, used to extract models.
	vars map[string]yulsmt.Sort

	// Maximum time per check. Zero disables the timeout.
	Timeout time.Duration
}

// NewSolver returns a new instance of Solver.
func NewSolver() (*Solver, error) {
	ctx := NewContext()

	raw := C.Z3_mk_solver(ctx.raw)
	if err := ctx.err("Z3_mk_solver"); err != nil {
		ctx.Close()
		return nil, err
	}
	C.Z3_solver_inc_ref(ctx.raw, raw)

	return &Solver{
		ctx:  ctx,
		raw:  raw,
		vars: make(map[string]yulsmt.Sort),
	}, nil
}

// Close releases the solver and deletes the underlying Z3 context.
func (s *Solver) Close() error {
	C.Z3_solver_dec_ref(s.ctx.raw, s.raw)
	return s.ctx.Close()
}

// Stats returns statistics for the solver.
func (s *Solver) Stats() Stats {
	return s.stats
}

// ReasonUnknown returns the reason Z3 gave for the last unknown result.
func (s *Solver) ReasonUnknown() string {
	return s.reason
}

// Assert adds a boolean constraint to the current scope.
func (s *Solver) Assert(expr yulsmt.Expr) error {
	ast, err := s.toAST(expr)
	if err != nil {
		return err
	}
	C.Z3_solver_assert(s.ctx.raw, s.raw, ast)
	return s.ctx.err("Z3_solver_assert")
}

// Push opens a new assertion scope.
func (s *Solver) Push() error {
	C.Z3_solver_push(s.ctx.raw, s.raw)
	return s.ctx.err("Z3_solver_push")
}

// Pop removes the most recent assertion scope.
func (s *Solver) Pop() error {
	C.Z3_solver_pop(s.ctx.raw, s.raw, 1)
	return s.ctx.err("Z3_solver_pop")
}

// Check checks the satisfiability of all assertions in scope.
func (s *Solver) Check() (yulsmt.CheckResult, error) {
	t := time.Now()
	defer func() {
		s.stats.SolveN++
		s.stats.SolveTime += time.Since(t)
	}()

	if err := s.applyTimeout(); err != nil {
		return yulsmt.Unknown, err
	}

	ret := C.Z3_solver_check(s.ctx.raw, s.raw)
	if err := s.ctx.err("Z3_solver_check"); err != nil {
		return yulsmt.Unknown, err
	}

	switch ret {
	case C.Z3_L_TRUE:
		return yulsmt.Satisfiable, nil
	case C.Z3_L_FALSE:
		return yulsmt.Unsatisfiable, nil
	default:
		s.reason = C.GoString(C.Z3_solver_get_reason_unknown(s.ctx.raw, s.raw))
		return yulsmt.Unknown, nil
	}
}

func (s *Solver) applyTimeout() error {
	if s.Timeout <= 0 {
		return nil
	}

	params := C.Z3_mk_params(s.ctx.raw)
	C.Z3_params_inc_ref(s.ctx.raw, params)
	defer C.Z3_params_dec_ref(s.ctx.raw, params)

	name := C.CString("timeout")
	defer C.free(unsafe.Pointer(name))
	C.Z3_params_set_uint(s.ctx.raw, params, C.Z3_mk_string_symbol(s.ctx.raw, name), C.uint(s.Timeout.Milliseconds()))

	C.Z3_solver_set_params(s.ctx.raw, s.raw, params)
	return s.ctx.err("Z3_solver_set_params")
}

// Model returns the values of all declared symbols from the last satisfiable check.
func (s *Solver) Model() (yulsmt.Model, error) {
	model := C.Z3_solver_get_model(s.ctx.raw, s.raw)
	if err := s.ctx.err("Z3_solver_get_model"); err != nil {
		return nil, err
	}
	C.Z3_model_inc_ref(s.ctx.raw, model)
	defer C.Z3_model_dec_ref(s.ctx.raw, model)

	m := make(yulsmt.Model, len(s.vars))
	for name, sort := range s.vars {
		value, err := s.eval(model, yulsmt.NewVariableExpr(name, sort))
		if err != nil {
			return nil, err
		}
		m[name] = value
	}
	return m, nil
}

// eval evaluates a variable against the model, completing it if unassigned.
func (s *Solver) eval(model C.Z3_model, v *yulsmt.VariableExpr) (*yulsmt.ConstantExpr, error) {
	ast, err := s.toAST(v)
	if err != nil {
		return nil, err
	}

	var out C.Z3_ast
	C.Z3_model_eval(s.ctx.raw, model, ast, C.bool(true), &out)
	if err := s.ctx.err("Z3_model_eval"); err != nil {
		return nil, err
	}

	if v.Sort.Kind == yulsmt.SortBool {
		return yulsmt.NewBoolConstantExpr(C.Z3_get_bool_value(s.ctx.raw, out) == C.Z3_L_TRUE), nil
	}

	str := C.GoString(C.Z3_get_numeral_string(s.ctx.raw, out))
	if err := s.ctx.err("Z3_get_numeral_string"); err != nil {
		return nil, err
	}
	value, ok := new(big.Int).SetString(str, 10)
	if !ok {
		return nil, fmt.Errorf("z3: invalid numeral for %s: %q", v.Name, str)
	}
	return yulsmt.NewConstantExpr(value, v.Sort), nil
}

// toAST converts an expression to a Z3 AST, declaring any new variables.
func (s *Solver) toAST(expr yulsmt.Expr) (C.Z3_ast, error) {
	switch expr := expr.(type) {
	case *yulsmt.ConstantExpr:
		return s.ctx.toConstantAST(expr)
	case *yulsmt.VariableExpr:
		if prev, ok := s.vars[expr.Name]; ok && prev != expr.Sort {
			return nil, fmt.Errorf("z3: variable %s redeclared with sort %s, previously %s", expr.Name, expr.Sort, prev)
		}
		s.vars[expr.Name] = expr.Sort
		return s.ctx.makeConst(expr.Name, expr.Sort)
	case *yulsmt.NotExpr:
		return s.toNotAST(expr)
	case *yulsmt.IteExpr:
		return s.toIteAST(expr)
	case *yulsmt.Int2BVExpr:
		src, err := s.toAST(expr.Expr)
		if err != nil {
			return nil, err
		}
		return C.Z3_mk_int2bv(s.ctx.raw, C.uint(expr.Width), src), s.ctx.err("Z3_mk_int2bv")
	case *yulsmt.BV2IntExpr:
		src, err := s.toAST(expr.Expr)
		if err != nil {
			return nil, err
		}
		return C.Z3_mk_bv2int(s.ctx.raw, src, C.bool(false)), s.ctx.err("Z3_mk_bv2int")
	case *yulsmt.BinaryExpr:
		return s.toBinaryAST(expr)
	default:
		return nil, fmt.Errorf("z3.Solver.toAST: invalid expression type: %T", expr)
	}
}

func (s *Solver) toNotAST(expr *yulsmt.NotExpr) (C.Z3_ast, error) {
	src, err := s.toAST(expr.Expr)
	if err != nil {
		return nil, err
	}

	// If boolean, use boolean NOT operation.
	if yulsmt.ExprSort(expr.Expr).Kind == yulsmt.SortBool {
		return C.Z3_mk_not(s.ctx.raw, src), s.ctx.err("Z3_mk_not")
	}
	return C.Z3_mk_bvnot(s.ctx.raw, src), s.ctx.err("Z3_mk_bvnot")
}

func (s *Solver) toIteAST(expr *yulsmt.IteExpr) (C.Z3_ast, error) {
	cond, err := s.toAST(expr.Cond)
	if err != nil {
		return nil, err
	}
	then, err := s.toAST(expr.Then)
	if err != nil {
		return nil, err
	}
	els, err := s.toAST(expr.Else)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_ite(s.ctx.raw, cond, then, els), s.ctx.err("Z3_mk_ite")
}

func (s *Solver) toBinaryAST(expr *yulsmt.BinaryExpr) (C.Z3_ast, error) {
	lhs, err := s.toAST(expr.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := s.toAST(expr.RHS)
	if err != nil {
		return nil, err
	}

	switch yulsmt.ExprSort(expr.LHS).Kind {
	case yulsmt.SortBool:
		return s.ctx.toBoolBinaryAST(expr.Op, lhs, rhs)
	case yulsmt.SortInt:
		return s.ctx.toIntBinaryAST(expr.Op, lhs, rhs)
	default:
		return s.ctx.toBVBinaryAST(expr.Op, lhs, rhs)
	}
}

// Context represents a Z3 context object that is used for constructing expressions.
type Context struct {
	raw C.Z3_context
}

// NewContext returns a new instance of Context.
func NewContext() *Context {
	config := C.Z3_mk_config()
	defer C.Z3_del_config(config)

	raw := C.Z3_mk_context(config)
	C.Z3_set_error_handler(raw, nil)
	C.Z3_set_ast_print_mode(raw, C.Z3_PRINT_SMTLIB2_COMPLIANT)
	return &Context{raw: raw}
}

// Close deletes the underlying Z3 context.
func (ctx *Context) Close() error {
	C.Z3_del_context(ctx.raw)
	return nil
}

// err returns the error for the last API call. Returns nil if last call was successful.
func (ctx *Context) err(op string) error {
	if code := C.Z3_get_error_code(ctx.raw); code != C.Z3_OK {
		return &Error{Code: int(code), Op: op, Message: C.GoString(C.Z3_get_error_msg(ctx.raw, code))}
	}
	return nil
}

func (ctx *Context) toConstantAST(expr *yulsmt.ConstantExpr) (C.Z3_ast, error) {
	if expr.Sort.Kind == yulsmt.SortBool {
		if expr.IsTrue() {
			return C.Z3_mk_true(ctx.raw), ctx.err("Z3_mk_true")
		}
		return C.Z3_mk_false(ctx.raw), ctx.err("Z3_mk_false")
	}

	t, err := ctx.makeSort(expr.Sort)
	if err != nil {
		return nil, err
	}
	cvalue := C.CString(expr.Value.String())
	defer C.free(unsafe.Pointer(cvalue))
	return C.Z3_mk_numeral(ctx.raw, cvalue, t), ctx.err("Z3_mk_numeral")
}

func (ctx *Context) toBoolBinaryAST(op yulsmt.BinaryOp, lhs, rhs C.Z3_ast) (C.Z3_ast, error) {
	args := [2]C.Z3_ast{lhs, rhs}
	switch op {
	case yulsmt.AND:
		return C.Z3_mk_and(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_and")
	case yulsmt.OR:
		return C.Z3_mk_or(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_or")
	case yulsmt.XOR:
		return C.Z3_mk_xor(ctx.raw, lhs, rhs), ctx.err("Z3_mk_xor")
	case yulsmt.IMPLIES:
		return C.Z3_mk_implies(ctx.raw, lhs, rhs), ctx.err("Z3_mk_implies")
	case yulsmt.EQ:
		return C.Z3_mk_iff(ctx.raw, lhs, rhs), ctx.err("Z3_mk_iff")
	default:
		return nil, fmt.Errorf("z3.Context.toBoolBinaryAST: unexpected operation: %s", op)
	}
}

func (ctx *Context) toIntBinaryAST(op yulsmt.BinaryOp, lhs, rhs C.Z3_ast) (C.Z3_ast, error) {
	args := [2]C.Z3_ast{lhs, rhs}
	switch op {
	case yulsmt.ADD:
		return C.Z3_mk_add(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_add")
	case yulsmt.SUB:
		return C.Z3_mk_sub(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_sub")
	case yulsmt.MUL:
		return C.Z3_mk_mul(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_mul")
	case yulsmt.DIV:
		return C.Z3_mk_div(ctx.raw, lhs, rhs), ctx.err("Z3_mk_div")
	case yulsmt.MOD:
		return C.Z3_mk_mod(ctx.raw, lhs, rhs), ctx.err("Z3_mk_mod")
	case yulsmt.EQ:
		return C.Z3_mk_eq(ctx.raw, lhs, rhs), ctx.err("Z3_mk_eq")
	case yulsmt.LT:
		return C.Z3_mk_lt(ctx.raw, lhs, rhs), ctx.err("Z3_mk_lt")
	case yulsmt.LE:
		return C.Z3_mk_le(ctx.raw, lhs, rhs), ctx.err("Z3_mk_le")
	default:
		return nil, fmt.Errorf("z3.Context.toIntBinaryAST: unexpected operation: %s", op)
	}
}

func (ctx *Context) toBVBinaryAST(op yulsmt.BinaryOp, lhs, rhs C.Z3_ast) (C.Z3_ast, error) {
	switch op {
	case yulsmt.ADD:
		return C.Z3_mk_bvadd(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvadd")
	case yulsmt.SUB:
		return C.Z3_mk_bvsub(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsub")
	case yulsmt.MUL:
		return C.Z3_mk_bvmul(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvmul")
	case yulsmt.DIV:
		return C.Z3_mk_bvudiv(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvudiv")
	case yulsmt.MOD:
		return C.Z3_mk_bvurem(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvurem")
	case yulsmt.SDIV:
		return C.Z3_mk_bvsdiv(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsdiv")
	case yulsmt.SREM:
		return C.Z3_mk_bvsrem(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsrem")
	case yulsmt.AND:
		return C.Z3_mk_bvand(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvand")
	case yulsmt.OR:
		return C.Z3_mk_bvor(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvor")
	case yulsmt.XOR:
		return C.Z3_mk_bvxor(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvxor")
	case yulsmt.SHL:
		return C.Z3_mk_bvshl(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvshl")
	case yulsmt.LSHR:
		return C.Z3_mk_bvlshr(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvlshr")
	case yulsmt.ASHR:
		return C.Z3_mk_bvashr(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvashr")
	case yulsmt.EQ:
		return C.Z3_mk_eq(ctx.raw, lhs, rhs), ctx.err("Z3_mk_eq")
	case yulsmt.LT:
		return C.Z3_mk_bvult(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvult")
	case yulsmt.LE:
		return C.Z3_mk_bvule(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvule")
	case yulsmt.SLT:
		return C.Z3_mk_bvslt(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvslt")
	case yulsmt.SLE:
		return C.Z3_mk_bvsle(ctx.raw, lhs, rhs), ctx.err("Z3_mk_bvsle")
	default:
		return nil, fmt.Errorf("z3.Context.toBVBinaryAST: unexpected operation: %s", op)
	}
}

func (ctx *Context) makeSort(sort yulsmt.Sort) (C.Z3_sort, error) {
	switch sort.Kind {
	case yulsmt.SortBool:
		return C.Z3_mk_bool_sort(ctx.raw), ctx.err("Z3_mk_bool_sort")
	case yulsmt.SortInt:
		return C.Z3_mk_int_sort(ctx.raw), ctx.err("Z3_mk_int_sort")
	case yulsmt.SortBV:
		return C.Z3_mk_bv_sort(ctx.raw, C.uint(sort.Width)), ctx.err("Z3_mk_bv_sort")
	default:
		return nil, fmt.Errorf("z3.Context.makeSort: invalid sort: %s", sort)
	}
}

// makeConst returns the symbol with the given name and sort.
func (ctx *Context) makeConst(name string, sort yulsmt.Sort) (C.Z3_ast, error) {
	t, err := ctx.makeSort(sort)
	if err != nil {
		return nil, err
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	nameSymbol := C.Z3_mk_string_symbol(ctx.raw, cname)

	return C.Z3_mk_const(ctx.raw, nameSymbol, t), ctx.err("Z3_mk_const")
}

// Error represents an error from the Z3 API.
type Error struct {
	Code    int
	Op      string
	Message string
}

// Error returns the error as a string.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message, e.Code)
}

// Possible error codes.
const (
	ErrorCodeOK = iota
	ErrorCodeSortError
	ErrorCodeIOB
	ErrorCodeInvalidArg
	ErrorCodeParserError
	ErrorCodeNoParser
	ErrorCodeInvalidPattern
	ErrorCodeMemoutFail
	ErrorCodeFileAccessError
	ErrorCodeInternalFatal
	ErrorCodeInvalidUsage
	ErrorCodeDecRefError
	ErrorCodeException
)

// Stats represents statistics for a solver session.
type Stats struct {
	SolveN    int
	SolveTime time.Duration
}
