// Package evm implements the semantics of EVM instructions for the encoder.
//
// IntegerEncoder models words as unbounded integers in [0, 2^256) and relies
// on the encoder to wrap arithmetic results. BitVectorEncoder models words as
// 256-bit bitvectors, where wrap-around is native.
package evm

import (
	"math/big"

	"github.com/benbjohnson/yulsmt"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
)

// NewEncoder returns an encoder for the EVM dialect whose program variables
// have the given sort. The encoder takes ownership of s.
func NewEncoder(s yulsmt.Solver, sort yulsmt.Sort) *yulsmt.Encoder {
	enc := yulsmt.NewEncoder(s, yulsmt.NewEVMDialect())
	enc.DefaultSort = sort
	if sort.Kind == yulsmt.SortBV {
		enc.Builtins = &BitVectorEncoder{}
	} else {
		enc.Builtins = &IntegerEncoder{}
	}
	return enc
}

// checkArgs panics if the number of arguments does not match the instruction.
func checkArgs(op vm.OpCode, args []yulsmt.Expr, n int) {
	if len(args) != n {
		panic("evm: " + op.String() + ": unexpected argument count")
	}
}

// constantWords returns the values of args as words if all are constants.
func constantWords(args ...yulsmt.Expr) ([]*uint256.Int, bool) {
	a := make([]*uint256.Int, len(args))
	for i, arg := range args {
		c, ok := arg.(*yulsmt.ConstantExpr)
		if !ok {
			return nil, false
		}
		a[i], _ = uint256.FromBig(c.Value)
	}
	return a, true
}

// foldExp returns base**exponent mod 2^256 for constant operands.
func foldExp(base, exponent yulsmt.Expr) (*big.Int, bool) {
	a, ok := constantWords(base, exponent)
	if !ok {
		return nil, false
	}
	return new(uint256.Int).Exp(a[0], a[1]).ToBig(), true
}

func intConst(v int64) yulsmt.Expr { return yulsmt.NewInt64ConstantExpr(v) }

func wordConst(v int64) yulsmt.Expr { return yulsmt.NewConstantExpr(big.NewInt(v), yulsmt.WordSort) }

func pow2(n uint) *big.Int { return new(big.Int).Lsh(big.NewInt(1), n) }

// arity is the number of arguments of each instruction with known semantics.
var arity = map[vm.OpCode]int{
	vm.ADD:        2,
	vm.SUB:        2,
	vm.MUL:        2,
	vm.DIV:        2,
	vm.SDIV:       2,
	vm.MOD:        2,
	vm.SMOD:       2,
	vm.ADDMOD:     3,
	vm.MULMOD:     3,
	vm.EXP:        2,
	vm.SIGNEXTEND: 2,
	vm.LT:         2,
	vm.GT:         2,
	vm.SLT:        2,
	vm.SGT:        2,
	vm.EQ:         2,
	vm.ISZERO:     1,
	vm.AND:        2,
	vm.OR:         2,
	vm.XOR:        2,
	vm.NOT:        1,
	vm.BYTE:       2,
	vm.SHL:        2,
	vm.SHR:        2,
	vm.SAR:        2,
}
