package yulsmt

import (
	"math/big"
	"strconv"
)

// UniqueName returns a new symbol name. Names contain a "%", which is not
// valid in Yul identifiers, so they never collide with program variables.
func (e *Encoder) UniqueName() string {
	e.varCounter++
	return "expr%" + strconv.Itoa(e.varCounter)
}

// NewVariable returns a fresh unconstrained variable of the encoder's sort.
func (e *Encoder) NewVariable() Expr {
	return e.newVariable(e.Sort())
}

// NewBooleanVariable returns a fresh unconstrained boolean variable.
func (e *Encoder) NewBooleanVariable() Expr {
	return e.newVariable(BoolSort)
}

// NewRestrictedVariable returns a fresh variable of the encoder's sort
// constrained to [0, max]. A nil max restricts the variable to a valid word.
func (e *Encoder) NewRestrictedVariable(max *big.Int) (Expr, error) {
	return e.newRestrictedVariable(e.Sort(), max)
}

func (e *Encoder) newVariable(sort Sort) *VariableExpr {
	e.stats.VariableN++
	return NewVariableExpr(e.UniqueName(), sort)
}

func (e *Encoder) newRestrictedVariable(sort Sort, max *big.Int) (Expr, error) {
	if max == nil {
		max = maxWord
	}
	assert(max.Sign() >= 0, "restricted variable: negative bound: %s", max)

	v := e.newVariable(sort)
	switch sort.Kind {
	case SortInt:
		if err := e.assert(NewBinaryExpr(LE, NewInt64ConstantExpr(0), v)); err != nil {
			return nil, err
		}
		if err := e.assert(NewBinaryExpr(LE, v, NewIntConstantExpr(max))); err != nil {
			return nil, err
		}
	case SortBV:
		if max.BitLen() < int(sort.Width) {
			if err := e.assert(NewBinaryExpr(LE, v, NewConstantExpr(max, sort))); err != nil {
				return nil, err
			}
		}
	default:
		panic("restricted variable: non-numeric sort: " + sort.String())
	}

	if max.Cmp(maxWord) <= 0 {
		e.inRange[v.Name] = struct{}{}
	}
	return v, nil
}
