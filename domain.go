package yulsmt

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/benbjohnson/yulsmt/ast"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ConstantValue returns an integer constant expression for v.
func ConstantValue(v *big.Int) Expr {
	return NewIntConstantExpr(v)
}

// LiteralValue returns the integer value of a Yul literal.
//
// Numbers are decimal or hexadecimal and must fit in a word. Booleans are 1 or
// 0. Strings of up to 32 bytes are left-aligned in the word.
func LiteralValue(lit *ast.Literal) (Expr, error) {
	switch lit.Kind {
	case ast.NumberLiteral:
		v, ok := parseNumber(lit.Value)
		if !ok {
			return nil, fmt.Errorf("yulsmt: invalid number literal: %q", lit.Value)
		} else if v.Cmp(maxWord) > 0 {
			return nil, fmt.Errorf("yulsmt: number literal exceeds word size: %s", lit.Value)
		}
		return ConstantValue(v), nil
	case ast.BooleanLiteral:
		switch lit.Value {
		case "true":
			return NewInt64ConstantExpr(1), nil
		case "false":
			return NewInt64ConstantExpr(0), nil
		}
		return nil, fmt.Errorf("yulsmt: invalid boolean literal: %q", lit.Value)
	case ast.StringLiteral:
		if len(lit.Value) > 32 {
			return nil, ErrStringLiteralTooLong
		}
		b := common.RightPadBytes([]byte(lit.Value), 32)
		return ConstantValue(new(big.Int).SetBytes(b)), nil
	default:
		return nil, fmt.Errorf("yulsmt: unexpected literal kind: %s", lit.Kind)
	}
}

// parseNumber parses a decimal or "0x" hexadecimal Yul number.
func parseNumber(s string) (*big.Int, bool) {
	if !ast.IsNumber(s) {
		return nil, false
	} else if hex := strings.TrimPrefix(s, "0x"); hex != s {
		return new(big.Int).SetString(hex, 16)
	}
	return new(big.Int).SetString(s, 10)
}

// SignedToTwosComplement maps a signed integer in [-2^255, 2^255) to its
// two's complement word in [0, 2^256).
func SignedToTwosComplement(v Expr) Expr {
	assertIntSort("signedToTwosComplement", v)
	return NewIteExpr(
		NewBinaryExpr(GE, v, NewInt64ConstantExpr(0)),
		v,
		NewBinaryExpr(ADD, v, NewIntConstantExpr(wordModulus)),
	)
}

// TwosComplementToSigned maps a word in [0, 2^256) to the signed integer it
// represents in two's complement.
func TwosComplementToSigned(v Expr) Expr {
	assertIntSort("twosComplementToSigned", v)
	return NewIteExpr(
		NewBinaryExpr(LT, v, NewIntConstantExpr(signBit)),
		v,
		NewBinaryExpr(SUB, v, NewIntConstantExpr(wordModulus)),
	)
}

// TwosComplementToUpscaledUnsigned maps a word in [0, 2^256) to its signed
// value offset by 2^256, a value in [2^255, 3*2^255). Signed order of words
// is preserved as unsigned order of the results.
func TwosComplementToUpscaledUnsigned(v Expr) Expr {
	assertIntSort("twosComplementToUpscaledUnsigned", v)
	return NewIteExpr(
		NewBinaryExpr(LT, v, NewIntConstantExpr(signBit)),
		NewBinaryExpr(ADD, v, NewIntConstantExpr(wordModulus)),
		v,
	)
}

// Int2BV converts an integer expression to a 256-bit bitvector.
func Int2BV(v Expr) Expr {
	return NewInt2BVExpr(v, WordWidth)
}

// BV2Int converts a bitvector expression to its unsigned integer value.
func BV2Int(v Expr) Expr {
	return NewBV2IntExpr(v)
}

// BooleanValue converts a boolean expression into the integer 1 or 0.
func BooleanValue(b Expr) Expr {
	assert(ExprSort(b) == BoolSort, "booleanValue: non-boolean operand: %s", ExprSort(b))
	return NewIteExpr(b, NewInt64ConstantExpr(1), NewInt64ConstantExpr(0))
}

// BooleanCondition returns true if the numeric expression v is nonzero.
func BooleanCondition(v Expr) Expr {
	s := ExprSort(v)
	assert(s.IsNumeric(), "booleanCondition: non-numeric operand: %s", s)
	return NewBinaryExpr(NE, v, NewConstantExpr(new(big.Int), s))
}

func assertIntSort(name string, v Expr) {
	assert(ExprSort(v) == IntSort, "%s: non-integer operand: %s", name, ExprSort(v))
}

// Wrap reduces an integer value modulo 2^256.
//
// Constants are folded. Values already known to be in range are returned
// as-is. Otherwise the result is a fresh word r with value == m*2^256 + r for
// a fresh integer m. The defining constraint is not guarded by the path
// condition as it only relates fresh symbols. Bitvector values are returned
// unchanged.
func (e *Encoder) Wrap(value Expr) (Expr, error) {
	s := ExprSort(value)
	if s.Kind == SortBV {
		return value, nil
	}
	assert(s == IntSort, "wrap: non-numeric operand: %s", s)

	if c, ok := value.(*ConstantExpr); ok {
		z, _ := uint256.FromBig(c.Value)
		return NewIntConstantExpr(z.ToBig()), nil
	} else if e.isWord(value) {
		return value, nil
	}

	rest, err := e.newRestrictedVariable(IntSort, nil)
	if err != nil {
		return nil, err
	}
	multiplier := e.newVariable(IntSort)

	if err := e.assert(NewBinaryExpr(EQ, value, NewBinaryExpr(ADD,
		NewBinaryExpr(MUL, multiplier, NewIntConstantExpr(wordModulus)),
		rest,
	))); err != nil {
		return nil, err
	}
	return rest, nil
}

// isWord returns true if the integer expression is known to lie in [0, 2^256).
func (e *Encoder) isWord(expr Expr) bool {
	switch expr := expr.(type) {
	case *ConstantExpr:
		return expr.Value.Sign() >= 0 && expr.Value.Cmp(maxWord) <= 0
	case *VariableExpr:
		_, ok := e.inRange[expr.Name]
		return ok
	case *IteExpr:
		return e.isWord(expr.Then) && e.isWord(expr.Else)
	case *BV2IntExpr:
		return ExprSort(expr.Expr).Width <= WordWidth
	case *BinaryExpr:
		if expr.Op == MOD {
			if m, ok := expr.RHS.(*ConstantExpr); ok {
				return m.Value.Sign() > 0 && m.Value.Cmp(wordModulus) <= 0
			}
		}
	}
	return false
}
