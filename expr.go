package yulsmt

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/holiman/uint256"
)

// SortKind represents the kind of value an expression denotes.
type SortKind int

const (
	SortBool SortKind = iota + 1
	SortInt
	SortBV
)

// Sort represents the type of a symbolic expression.
type Sort struct {
	Kind  SortKind
	Width uint // bitvectors only
}

// Standard sorts.
var (
	BoolSort = Sort{Kind: SortBool}
	IntSort  = Sort{Kind: SortInt}
	WordSort = BVSort(WordWidth)
)

// BVSort returns a bitvector sort of the given width.
func BVSort(width uint) Sort {
	assert(width > 0, "invalid bitvector width: %d", width)
	return Sort{Kind: SortBV, Width: width}
}

// IsNumeric returns true if the sort is an integer or bitvector sort.
func (s Sort) IsNumeric() bool {
	return s.Kind == SortInt || s.Kind == SortBV
}

// String returns the SMT-LIB name of the sort.
func (s Sort) String() string {
	switch s.Kind {
	case SortBool:
		return "Bool"
	case SortInt:
		return "Int"
	case SortBV:
		return fmt.Sprintf("(_ BitVec %d)", s.Width)
	default:
		return fmt.Sprintf("Sort<%d>", s.Kind)
	}
}

// Expr represents an immutable symbolic expression.
type Expr interface {
	expr()
	String() string
}

func (*BinaryExpr) expr()   {}
func (*BV2IntExpr) expr()   {}
func (*ConstantExpr) expr() {}
func (*Int2BVExpr) expr()   {}
func (*IteExpr) expr()      {}
func (*NotExpr) expr()      {}
func (*VariableExpr) expr() {}

// ExprSort returns the sort of the expression.
func ExprSort(expr Expr) Sort {
	switch expr := expr.(type) {
	case *ConstantExpr:
		return expr.Sort
	case *VariableExpr:
		return expr.Sort
	case *BinaryExpr:
		if expr.Op.IsCompare() {
			return BoolSort
		}
		return ExprSort(expr.LHS)
	case *NotExpr:
		return ExprSort(expr.Expr)
	case *IteExpr:
		return ExprSort(expr.Then)
	case *Int2BVExpr:
		return BVSort(expr.Width)
	case *BV2IntExpr:
		return IntSort
	default:
		panic(fmt.Sprintf("unexpected expression type: %T", expr))
	}
}

// BinaryOp represents a binary expression operation.
//
// The meaning of an operation depends on the sort of its operands. For
// example, DIV is integer division on Int and unsigned division on bitvectors.
type BinaryOp int

// BinaryExpr operations.
const (
	arithmetic_op_begin = BinaryOp(iota)
	ADD
	SUB
	MUL
	DIV
	MOD
	SDIV
	SREM
	AND
	OR
	XOR
	IMPLIES
	SHL
	LSHR
	ASHR
	arithmetic_op_end

	compare_op_begin
	EQ
	NE
	LT
	LE
	GT
	GE
	SLT
	SLE
	SGT
	SGE
	compare_op_end
)

var binaryOps = [...]string{
	ADD:     "add",
	SUB:     "sub",
	MUL:     "mul",
	DIV:     "div",
	MOD:     "mod",
	SDIV:    "sdiv",
	SREM:    "srem",
	AND:     "and",
	OR:      "or",
	XOR:     "xor",
	IMPLIES: "implies",
	SHL:     "shl",
	LSHR:    "lshr",
	ASHR:    "ashr",
	EQ:      "eq",
	NE:      "ne",
	LT:      "lt",
	LE:      "le",
	GT:      "gt",
	GE:      "ge",
	SLT:     "slt",
	SLE:     "sle",
	SGT:     "sgt",
	SGE:     "sge",
}

// String returns the string representation of the operation.
func (op BinaryOp) String() string {
	if op >= 0 && op < BinaryOp(len(binaryOps)) && binaryOps[op] != "" {
		return binaryOps[op]
	}
	return fmt.Sprintf("BinaryOp<%d>", op)
}

// IsCompare returns true if op is a comparison operator.
func (op BinaryOp) IsCompare() bool {
	return op > compare_op_begin && op < compare_op_end
}

// supports returns true if op is defined on operands of sort s.
func (op BinaryOp) supports(s Sort) bool {
	switch op {
	case EQ, NE:
		return true
	case AND, OR, XOR:
		return s.Kind == SortBool || s.Kind == SortBV
	case IMPLIES:
		return s.Kind == SortBool
	case ADD, SUB, MUL, DIV, MOD, LT, LE, GT, GE:
		return s.IsNumeric()
	case SDIV, SREM, SHL, LSHR, ASHR, SLT, SLE, SGT, SGE:
		return s.Kind == SortBV
	default:
		return false
	}
}

// smtName returns the SMT-LIB function symbol for op applied to sort s.
func (op BinaryOp) smtName(s Sort) string {
	if s.Kind == SortBV {
		switch op {
		case ADD:
			return "bvadd"
		case SUB:
			return "bvsub"
		case MUL:
			return "bvmul"
		case DIV:
			return "bvudiv"
		case MOD:
			return "bvurem"
		case SDIV:
			return "bvsdiv"
		case SREM:
			return "bvsrem"
		case AND:
			return "bvand"
		case OR:
			return "bvor"
		case XOR:
			return "bvxor"
		case SHL:
			return "bvshl"
		case LSHR:
			return "bvlshr"
		case ASHR:
			return "bvashr"
		case LT:
			return "bvult"
		case LE:
			return "bvule"
		case SLT:
			return "bvslt"
		case SLE:
			return "bvsle"
		}
	}

	switch op {
	case ADD:
		return "+"
	case SUB:
		return "-"
	case MUL:
		return "*"
	case DIV:
		return "div"
	case MOD:
		return "mod"
	case AND:
		return "and"
	case OR:
		return "or"
	case XOR:
		return "xor"
	case IMPLIES:
		return "=>"
	case EQ:
		return "="
	case LT:
		return "<"
	case LE:
		return "<="
	}
	return op.String()
}

// BinaryExpr represents an operation on two expressions.
type BinaryExpr struct {
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

// NewBinaryExpr returns a new expression applying op to lhs & rhs.
//
// Operands must share a sort. Constant operands are folded and derived
// comparisons are normalized so that only EQ, LT, LE, SLT & SLE are stored.
func NewBinaryExpr(op BinaryOp, lhs, rhs Expr) Expr {
	s := ExprSort(lhs)
	assert(s == ExprSort(rhs), "binary expr sort mismatch: op=%s %s != %s", op, s, ExprSort(rhs))
	assert(op.supports(s), "binary op %s not defined on sort %s", op, s)

	switch op {
	case NE:
		return NewNotExpr(NewBinaryExpr(EQ, lhs, rhs))
	case GT:
		return NewBinaryExpr(LT, rhs, lhs) // reverse
	case GE:
		return NewBinaryExpr(LE, rhs, lhs) // reverse
	case SGT:
		return NewBinaryExpr(SLT, rhs, lhs) // reverse
	case SGE:
		return NewBinaryExpr(SLE, rhs, lhs) // reverse
	}

	// Compute constant if both sides are constant.
	if lhs, ok := lhs.(*ConstantExpr); ok {
		if rhs, ok := rhs.(*ConstantExpr); ok {
			if c, ok := foldBinary(op, lhs, rhs); ok {
				return c
			}
		}
	}

	switch op {
	case ADD:
		return newAddExpr(lhs, rhs)
	case SUB:
		return newSubExpr(lhs, rhs)
	case MUL:
		return newMulExpr(lhs, rhs)
	case AND:
		return newAndExpr(lhs, rhs)
	case OR:
		return newOrExpr(lhs, rhs)
	case IMPLIES:
		return newImpliesExpr(lhs, rhs)
	case EQ:
		if ExprEqual(lhs, rhs) {
			return NewBoolConstantExpr(true)
		}
	}
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

// String returns the SMT-LIB representation of the expression.
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op.smtName(ExprSort(e.LHS)), e.LHS, e.RHS)
}

// newAddExpr returns the expression representing the sum of lhs & rhs.
func newAddExpr(lhs, rhs Expr) Expr {
	// Move constant expression to left hand side.
	if !IsConstantExpr(lhs) && IsConstantExpr(rhs) {
		lhs, rhs = rhs, lhs
	}
	if lhs, ok := lhs.(*ConstantExpr); ok && lhs.IsZero() {
		return rhs
	}
	return &BinaryExpr{Op: ADD, LHS: lhs, RHS: rhs}
}

// newSubExpr returns an expression representing the difference of lhs & rhs.
func newSubExpr(lhs, rhs Expr) Expr {
	// Subtracting a value from itself is zero.
	if ExprEqual(lhs, rhs) {
		return NewConstantExpr(new(big.Int), ExprSort(lhs))
	}
	if rhs, ok := rhs.(*ConstantExpr); ok && rhs.IsZero() {
		return lhs
	}
	return &BinaryExpr{Op: SUB, LHS: lhs, RHS: rhs}
}

// newMulExpr returns an expression that represents the product of lhs & rhs.
func newMulExpr(lhs, rhs Expr) Expr {
	// If constant is on right side, swap to left side.
	if IsConstantExpr(rhs) && !IsConstantExpr(lhs) {
		lhs, rhs = rhs, lhs
	}

	// Optimize for multiplication with a constant 1 or 0.
	if lhs, ok := lhs.(*ConstantExpr); ok {
		if lhs.IsOne() {
			return rhs
		} else if lhs.IsZero() {
			return lhs
		}
	}
	return &BinaryExpr{Op: MUL, LHS: lhs, RHS: rhs}
}

// newAndExpr returns the conjunction (or bitwise AND) of lhs & rhs.
func newAndExpr(lhs, rhs Expr) Expr {
	if ExprSort(lhs).Kind == SortBool {
		if IsConstantExpr(lhs) && !IsConstantExpr(rhs) {
			lhs, rhs = rhs, lhs
		}
		if rhs, ok := rhs.(*ConstantExpr); ok {
			if rhs.IsTrue() {
				return lhs
			}
			return rhs
		}
	}
	return &BinaryExpr{Op: AND, LHS: lhs, RHS: rhs}
}

// newOrExpr returns the disjunction (or bitwise OR) of lhs & rhs.
func newOrExpr(lhs, rhs Expr) Expr {
	if ExprSort(lhs).Kind == SortBool {
		if IsConstantExpr(lhs) && !IsConstantExpr(rhs) {
			lhs, rhs = rhs, lhs
		}
		if rhs, ok := rhs.(*ConstantExpr); ok {
			if rhs.IsTrue() {
				return rhs
			}
			return lhs
		}
	}
	return &BinaryExpr{Op: OR, LHS: lhs, RHS: rhs}
}

// newImpliesExpr returns the implication lhs => rhs.
func newImpliesExpr(lhs, rhs Expr) Expr {
	if lhs, ok := lhs.(*ConstantExpr); ok {
		if lhs.IsTrue() {
			return rhs
		}
		return NewBoolConstantExpr(true)
	}
	if rhs, ok := rhs.(*ConstantExpr); ok && rhs.IsTrue() {
		return rhs
	}
	return &BinaryExpr{Op: IMPLIES, LHS: lhs, RHS: rhs}
}

// foldBinary computes op on two constants. Returns false if the result is
// not defined by a constant (e.g. integer division by zero).
func foldBinary(op BinaryOp, lhs, rhs *ConstantExpr) (*ConstantExpr, bool) {
	switch lhs.Sort.Kind {
	case SortBool:
		return foldBoolBinary(op, lhs.IsTrue(), rhs.IsTrue())
	case SortInt:
		return foldIntBinary(op, lhs.Value, rhs.Value)
	case SortBV:
		if lhs.Sort.Width != WordWidth {
			return nil, false
		}
		x, _ := uint256.FromBig(lhs.Value)
		y, _ := uint256.FromBig(rhs.Value)
		return foldWordBinary(op, x, y)
	default:
		return nil, false
	}
}

func foldBoolBinary(op BinaryOp, x, y bool) (*ConstantExpr, bool) {
	switch op {
	case AND:
		return NewBoolConstantExpr(x && y), true
	case OR:
		return NewBoolConstantExpr(x || y), true
	case XOR:
		return NewBoolConstantExpr(x != y), true
	case IMPLIES:
		return NewBoolConstantExpr(!x || y), true
	case EQ:
		return NewBoolConstantExpr(x == y), true
	default:
		return nil, false
	}
}

func foldIntBinary(op BinaryOp, x, y *big.Int) (*ConstantExpr, bool) {
	z := new(big.Int)
	switch op {
	case ADD:
		z.Add(x, y)
	case SUB:
		z.Sub(x, y)
	case MUL:
		z.Mul(x, y)
	case DIV:
		if y.Sign() == 0 {
			return nil, false
		}
		z.Div(x, y) // euclidean, as in SMT-LIB
	case MOD:
		if y.Sign() == 0 {
			return nil, false
		}
		z.Mod(x, y)
	case EQ:
		return NewBoolConstantExpr(x.Cmp(y) == 0), true
	case LT:
		return NewBoolConstantExpr(x.Cmp(y) < 0), true
	case LE:
		return NewBoolConstantExpr(x.Cmp(y) <= 0), true
	default:
		return nil, false
	}
	return NewIntConstantExpr(z), true
}

// foldWordBinary computes op on two 256-bit words using SMT-LIB bitvector
// semantics, including the fixed results for division by zero.
func foldWordBinary(op BinaryOp, x, y *uint256.Int) (*ConstantExpr, bool) {
	z := new(uint256.Int)
	switch op {
	case ADD:
		z.Add(x, y)
	case SUB:
		z.Sub(x, y)
	case MUL:
		z.Mul(x, y)
	case DIV:
		if y.IsZero() {
			z.SetAllOne()
		} else {
			z.Div(x, y)
		}
	case MOD:
		if y.IsZero() {
			z.Set(x)
		} else {
			z.Mod(x, y)
		}
	case SDIV:
		if y.IsZero() {
			if x.Sign() < 0 {
				z.SetOne()
			} else {
				z.SetAllOne()
			}
		} else {
			z.SDiv(x, y)
		}
	case SREM:
		if y.IsZero() {
			z.Set(x)
		} else {
			z.SMod(x, y)
		}
	case AND:
		z.And(x, y)
	case OR:
		z.Or(x, y)
	case XOR:
		z.Xor(x, y)
	case SHL:
		if y.LtUint64(WordWidth) {
			z.Lsh(x, uint(y.Uint64()))
		}
	case LSHR:
		if y.LtUint64(WordWidth) {
			z.Rsh(x, uint(y.Uint64()))
		}
	case ASHR:
		if y.LtUint64(WordWidth) {
			z.SRsh(x, uint(y.Uint64()))
		} else if x.Sign() < 0 {
			z.SetAllOne()
		}
	case EQ:
		return NewBoolConstantExpr(x.Eq(y)), true
	case LT:
		return NewBoolConstantExpr(x.Lt(y)), true
	case LE:
		return NewBoolConstantExpr(!x.Gt(y)), true
	case SLT:
		return NewBoolConstantExpr(x.Slt(y)), true
	case SLE:
		return NewBoolConstantExpr(!x.Sgt(y)), true
	default:
		return nil, false
	}
	return NewConstantExpr(z.ToBig(), WordSort), true
}

// NotExpr represents a logical not of a boolean or a bitwise not of a bitvector.
type NotExpr struct {
	Expr Expr
}

// NewNotExpr returns a new instance of NotExpr.
func NewNotExpr(expr Expr) Expr {
	s := ExprSort(expr)
	assert(s.Kind == SortBool || s.Kind == SortBV, "not: invalid sort %s", s)

	switch expr := expr.(type) {
	case *ConstantExpr:
		if s.Kind == SortBool {
			return NewBoolConstantExpr(!expr.IsTrue())
		}
		mask := new(big.Int).Lsh(big.NewInt(1), s.Width)
		mask.Sub(mask, big.NewInt(1))
		return NewConstantExpr(new(big.Int).Xor(expr.Value, mask), s)
	case *NotExpr:
		return expr.Expr
	}
	return &NotExpr{Expr: expr}
}

// String returns the SMT-LIB representation of the expression.
func (e *NotExpr) String() string {
	if ExprSort(e.Expr).Kind == SortBV {
		return fmt.Sprintf("(bvnot %s)", e.Expr)
	}
	return fmt.Sprintf("(not %s)", e.Expr)
}

// IteExpr represents an if-then-else term.
type IteExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

// NewIteExpr returns a new instance of IteExpr.
func NewIteExpr(cond, then, els Expr) Expr {
	assert(ExprSort(cond) == BoolSort, "ite: non-boolean condition: %s", ExprSort(cond))
	assert(ExprSort(then) == ExprSort(els), "ite: branch sort mismatch: %s != %s", ExprSort(then), ExprSort(els))

	if cond, ok := cond.(*ConstantExpr); ok {
		if cond.IsTrue() {
			return then
		}
		return els
	}
	if ExprEqual(then, els) {
		return then
	}
	return &IteExpr{Cond: cond, Then: then, Else: els}
}

// String returns the SMT-LIB representation of the expression.
func (e *IteExpr) String() string {
	return fmt.Sprintf("(ite %s %s %s)", e.Cond, e.Then, e.Else)
}

// Int2BVExpr converts an integer into a bitvector of the given width,
// reducing it modulo 2^width.
type Int2BVExpr struct {
	Expr  Expr
	Width uint
}

// NewInt2BVExpr returns a new instance of Int2BVExpr.
func NewInt2BVExpr(expr Expr, width uint) Expr {
	assert(ExprSort(expr) == IntSort, "int2bv: non-integer operand: %s", ExprSort(expr))

	switch expr := expr.(type) {
	case *ConstantExpr:
		m := new(big.Int).Lsh(big.NewInt(1), width)
		return NewConstantExpr(new(big.Int).Mod(expr.Value, m), BVSort(width))
	case *BV2IntExpr:
		if ExprSort(expr.Expr).Width == width {
			return expr.Expr
		}
	}
	return &Int2BVExpr{Expr: expr, Width: width}
}

// String returns the SMT-LIB representation of the expression.
func (e *Int2BVExpr) String() string {
	return fmt.Sprintf("((_ int2bv %d) %s)", e.Width, e.Expr)
}

// BV2IntExpr converts a bitvector into its unsigned integer value.
type BV2IntExpr struct {
	Expr Expr
}

// NewBV2IntExpr returns a new instance of BV2IntExpr.
func NewBV2IntExpr(expr Expr) Expr {
	assert(ExprSort(expr).Kind == SortBV, "bv2int: non-bitvector operand: %s", ExprSort(expr))

	if expr, ok := expr.(*ConstantExpr); ok {
		return NewIntConstantExpr(expr.Value)
	}
	return &BV2IntExpr{Expr: expr}
}

// String returns the SMT-LIB representation of the expression.
func (e *BV2IntExpr) String() string {
	return fmt.Sprintf("(bv2nat %s)", e.Expr)
}

// VariableExpr represents a free solver symbol.
type VariableExpr struct {
	Name string
	Sort Sort
}

// NewVariableExpr returns a new instance of VariableExpr.
func NewVariableExpr(name string, sort Sort) *VariableExpr {
	return &VariableExpr{Name: name, Sort: sort}
}

// String returns the SMT-LIB symbol for the variable.
func (e *VariableExpr) String() string {
	return smtSymbol(e.Name)
}

// ConstantExpr represents an arbitrary precision constant of a given sort.
// Boolean constants use the values 0 & 1.
type ConstantExpr struct {
	Value *big.Int
	Sort  Sort
}

// NewConstantExpr returns a new instance of ConstantExpr. The value is copied.
func NewConstantExpr(value *big.Int, sort Sort) *ConstantExpr {
	if sort.Kind == SortBV {
		assert(value.Sign() >= 0 && value.BitLen() <= int(sort.Width), "bitvector constant out of range: %s", value)
	}
	return &ConstantExpr{Value: new(big.Int).Set(value), Sort: sort}
}

// NewIntConstantExpr returns an integer constant expression.
func NewIntConstantExpr(value *big.Int) *ConstantExpr {
	return NewConstantExpr(value, IntSort)
}

// NewInt64ConstantExpr is an ease of use function for small integer constants.
func NewInt64ConstantExpr(value int64) *ConstantExpr {
	return NewConstantExpr(big.NewInt(value), IntSort)
}

// NewBoolConstantExpr is an ease of use function for creating constant boolean expressions.
func NewBoolConstantExpr(value bool) *ConstantExpr {
	if value {
		return &ConstantExpr{Value: big.NewInt(1), Sort: BoolSort}
	}
	return &ConstantExpr{Value: big.NewInt(0), Sort: BoolSort}
}

// String returns the SMT-LIB representation of the expression.
func (e *ConstantExpr) String() string {
	switch e.Sort.Kind {
	case SortBool:
		if e.IsTrue() {
			return "true"
		}
		return "false"
	case SortBV:
		return fmt.Sprintf("(_ bv%s %d)", e.Value, e.Sort.Width)
	default:
		if e.Value.Sign() < 0 {
			return fmt.Sprintf("(- %s)", new(big.Int).Neg(e.Value))
		}
		return e.Value.String()
	}
}

// IsTrue returns true if this is a boolean true expression.
func (e *ConstantExpr) IsTrue() bool {
	return e.Sort.Kind == SortBool && e.Value.Sign() != 0
}

// IsFalse returns true if this is a boolean false expression.
func (e *ConstantExpr) IsFalse() bool {
	return e.Sort.Kind == SortBool && e.Value.Sign() == 0
}

// IsZero returns true if the value is zero.
func (e *ConstantExpr) IsZero() bool { return e.Value.Sign() == 0 }

// IsOne returns true if the value is one.
func (e *ConstantExpr) IsOne() bool { return e.Value.Cmp(big.NewInt(1)) == 0 }

// IsConstantExpr returns true if expr is a *ConstantExpr.
func IsConstantExpr(expr Expr) bool {
	_, ok := expr.(*ConstantExpr)
	return ok
}

// ExprEqual returns true if a & b are structurally identical.
func ExprEqual(a, b Expr) bool {
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *ConstantExpr:
		b, ok := b.(*ConstantExpr)
		return ok && a.Sort == b.Sort && a.Value.Cmp(b.Value) == 0
	case *VariableExpr:
		b, ok := b.(*VariableExpr)
		return ok && a.Sort == b.Sort && a.Name == b.Name
	case *BinaryExpr:
		b, ok := b.(*BinaryExpr)
		return ok && a.Op == b.Op && ExprEqual(a.LHS, b.LHS) && ExprEqual(a.RHS, b.RHS)
	case *NotExpr:
		b, ok := b.(*NotExpr)
		return ok && ExprEqual(a.Expr, b.Expr)
	case *IteExpr:
		b, ok := b.(*IteExpr)
		return ok && ExprEqual(a.Cond, b.Cond) && ExprEqual(a.Then, b.Then) && ExprEqual(a.Else, b.Else)
	case *Int2BVExpr:
		b, ok := b.(*Int2BVExpr)
		return ok && a.Width == b.Width && ExprEqual(a.Expr, b.Expr)
	case *BV2IntExpr:
		b, ok := b.(*BV2IntExpr)
		return ok && ExprEqual(a.Expr, b.Expr)
	default:
		return false
	}
}

// ExprVisitor represents a visitor of an expression tree.
type ExprVisitor interface {
	Visit(expr Expr) ExprVisitor
}

// WalkExpr traverses an expression tree in depth-first order. Children are
// not visited if Visit() returns a nil visitor.
func WalkExpr(v ExprVisitor, expr Expr) {
	if v = v.Visit(expr); v == nil {
		return
	}

	switch expr := expr.(type) {
	case *BinaryExpr:
		WalkExpr(v, expr.LHS)
		WalkExpr(v, expr.RHS)
	case *NotExpr:
		WalkExpr(v, expr.Expr)
	case *IteExpr:
		WalkExpr(v, expr.Cond)
		WalkExpr(v, expr.Then)
		WalkExpr(v, expr.Else)
	case *Int2BVExpr:
		WalkExpr(v, expr.Expr)
	case *BV2IntExpr:
		WalkExpr(v, expr.Expr)
	case *ConstantExpr, *VariableExpr:
		// nop
	default:
		panic(fmt.Sprintf("unexpected expression type: %T", expr))
	}
}

// FindVariables returns all free variables in the expressions, sorted by name.
func FindVariables(exprs ...Expr) []*VariableExpr {
	v := &variableExprVisitor{m: make(map[string]*VariableExpr)}
	for _, expr := range exprs {
		WalkExpr(v, expr)
	}

	a := make([]*VariableExpr, 0, len(v.m))
	for _, variable := range v.m {
		a = append(a, variable)
	}
	sort.Slice(a, func(i, j int) bool { return a[i].Name < a[j].Name })
	return a
}

type variableExprVisitor struct {
	m map[string]*VariableExpr
}

func (v *variableExprVisitor) Visit(expr Expr) ExprVisitor {
	if expr, ok := expr.(*VariableExpr); ok {
		if prev, ok := v.m[expr.Name]; ok {
			assert(prev.Sort == expr.Sort, "variable %s used with sorts %s and %s", expr.Name, prev.Sort, expr.Sort)
		}
		v.m[expr.Name] = expr
	}
	return v
}

// smtSymbol returns name as an SMT-LIB symbol, quoting it if required.
func smtSymbol(name string) string {
	if name == "" {
		return "||"
	}
	for i, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return "|" + name + "|"
			}
		case strings.ContainsRune("~!@$%^&*_-+=<>.?/", ch):
		default:
			return "|" + name + "|"
		}
	}
	return name
}
