package evm

import (
	"github.com/benbjohnson/yulsmt"
	"github.com/ethereum/go-ethereum/core/vm"
)

// BitVectorEncoder encodes instructions over 256-bit bitvectors.
type BitVectorEncoder struct{}

// EncodeEVMBuiltin returns the bitvector expression for op applied to args.
func (*BitVectorEncoder) EncodeEVMBuiltin(enc *yulsmt.Encoder, op vm.OpCode, args []yulsmt.Expr) (yulsmt.Expr, error) {
	n, ok := arity[op]
	if !ok {
		return nil, yulsmt.Unsupported(op, "no bitvector semantics")
	}
	checkArgs(op, args, n)

	zero := wordConst(0)
	switch op {
	case vm.ADD:
		return yulsmt.NewBinaryExpr(yulsmt.ADD, args[0], args[1]), nil
	case vm.SUB:
		return yulsmt.NewBinaryExpr(yulsmt.SUB, args[0], args[1]), nil
	case vm.MUL:
		return yulsmt.NewBinaryExpr(yulsmt.MUL, args[0], args[1]), nil
	case vm.DIV:
		return yulsmt.NewIteExpr(isZeroWord(args[1]), zero, yulsmt.NewBinaryExpr(yulsmt.DIV, args[0], args[1])), nil
	case vm.MOD:
		return yulsmt.NewIteExpr(isZeroWord(args[1]), zero, yulsmt.NewBinaryExpr(yulsmt.MOD, args[0], args[1])), nil
	case vm.SDIV:
		return yulsmt.NewIteExpr(isZeroWord(args[1]), zero, yulsmt.NewBinaryExpr(yulsmt.SDIV, args[0], args[1])), nil
	case vm.SMOD:
		return yulsmt.NewIteExpr(isZeroWord(args[1]), zero, yulsmt.NewBinaryExpr(yulsmt.SREM, args[0], args[1])), nil
	case vm.ADDMOD, vm.MULMOD:
		// Computed on integers as the intermediate result needs 512 bits.
		x, y, m := yulsmt.BV2Int(args[0]), yulsmt.BV2Int(args[1]), yulsmt.BV2Int(args[2])
		v := yulsmt.NewBinaryExpr(yulsmt.ADD, x, y)
		if op == vm.MULMOD {
			v = yulsmt.NewBinaryExpr(yulsmt.MUL, x, y)
		}
		return yulsmt.NewIteExpr(isZeroWord(args[2]), zero, yulsmt.Int2BV(yulsmt.NewBinaryExpr(yulsmt.MOD, v, m))), nil
	case vm.EXP:
		if v, ok := foldExp(args[0], args[1]); ok {
			return yulsmt.NewConstantExpr(v, yulsmt.WordSort), nil
		}
		return nil, yulsmt.Unsupported(op, "non-constant operands")
	case vm.SIGNEXTEND:
		return signExtendWord(args[0], args[1]), nil

	case vm.LT:
		return wordBool(yulsmt.NewBinaryExpr(yulsmt.LT, args[0], args[1])), nil
	case vm.GT:
		return wordBool(yulsmt.NewBinaryExpr(yulsmt.GT, args[0], args[1])), nil
	case vm.SLT:
		return wordBool(yulsmt.NewBinaryExpr(yulsmt.SLT, args[0], args[1])), nil
	case vm.SGT:
		return wordBool(yulsmt.NewBinaryExpr(yulsmt.SGT, args[0], args[1])), nil
	case vm.EQ:
		return wordBool(yulsmt.NewBinaryExpr(yulsmt.EQ, args[0], args[1])), nil
	case vm.ISZERO:
		return wordBool(isZeroWord(args[0])), nil

	case vm.AND:
		return yulsmt.NewBinaryExpr(yulsmt.AND, args[0], args[1]), nil
	case vm.OR:
		return yulsmt.NewBinaryExpr(yulsmt.OR, args[0], args[1]), nil
	case vm.XOR:
		return yulsmt.NewBinaryExpr(yulsmt.XOR, args[0], args[1]), nil
	case vm.NOT:
		return yulsmt.NewNotExpr(args[0]), nil
	case vm.BYTE:
		return byteAt(args[0], args[1]), nil
	case vm.SHL:
		return yulsmt.NewBinaryExpr(yulsmt.SHL, args[1], args[0]), nil
	case vm.SHR:
		return yulsmt.NewBinaryExpr(yulsmt.LSHR, args[1], args[0]), nil
	case vm.SAR:
		return yulsmt.NewBinaryExpr(yulsmt.ASHR, args[1], args[0]), nil

	default:
		panic("evm: unhandled opcode: " + op.String())
	}
}

func isZeroWord(v yulsmt.Expr) yulsmt.Expr { return yulsmt.NewBinaryExpr(yulsmt.EQ, v, wordConst(0)) }

// wordBool converts a boolean into the word 1 or 0.
func wordBool(b yulsmt.Expr) yulsmt.Expr { return yulsmt.NewIteExpr(b, wordConst(1), wordConst(0)) }

// byteAt returns byte i of x, counting from the most significant byte.
// Indices of 32 or more yield zero.
func byteAt(i, x yulsmt.Expr) yulsmt.Expr {
	shift := yulsmt.NewBinaryExpr(yulsmt.MUL, yulsmt.NewBinaryExpr(yulsmt.SUB, wordConst(31), i), wordConst(8))
	b := yulsmt.NewBinaryExpr(yulsmt.AND, yulsmt.NewBinaryExpr(yulsmt.LSHR, x, shift), wordConst(0xff))
	return yulsmt.NewIteExpr(yulsmt.NewBinaryExpr(yulsmt.LT, i, wordConst(32)), b, wordConst(0))
}

// signExtendWord extends the sign bit of byte b of x, counting from the
// least significant byte. Indices of 31 or more leave x unchanged.
func signExtendWord(b, x yulsmt.Expr) yulsmt.Expr {
	shift := yulsmt.NewBinaryExpr(yulsmt.MUL, yulsmt.NewBinaryExpr(yulsmt.SUB, wordConst(31), b), wordConst(8))
	v := yulsmt.NewBinaryExpr(yulsmt.ASHR, yulsmt.NewBinaryExpr(yulsmt.SHL, x, shift), shift)
	return yulsmt.NewIteExpr(yulsmt.NewBinaryExpr(yulsmt.LT, b, wordConst(31)), v, x)
}
