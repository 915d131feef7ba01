package evm

import (
	"math/big"

	"github.com/benbjohnson/yulsmt"
	"github.com/ethereum/go-ethereum/core/vm"
)

// IntegerEncoder encodes instructions over unbounded integers. Arguments are
// integers in [0, 2^256). Results may fall outside the range and are wrapped
// by the encoder.
type IntegerEncoder struct{}

// EncodeEVMBuiltin returns the integer expression for op applied to args.
func (*IntegerEncoder) EncodeEVMBuiltin(enc *yulsmt.Encoder, op vm.OpCode, args []yulsmt.Expr) (yulsmt.Expr, error) {
	n, ok := arity[op]
	if !ok {
		return nil, yulsmt.Unsupported(op, "no integer semantics")
	}
	checkArgs(op, args, n)

	zero := intConst(0)
	switch op {
	case vm.ADD:
		return yulsmt.NewBinaryExpr(yulsmt.ADD, args[0], args[1]), nil
	case vm.SUB:
		return yulsmt.NewBinaryExpr(yulsmt.SUB, args[0], args[1]), nil
	case vm.MUL:
		return yulsmt.NewBinaryExpr(yulsmt.MUL, args[0], args[1]), nil
	case vm.DIV:
		return yulsmt.NewIteExpr(isZero(args[1]), zero, yulsmt.NewBinaryExpr(yulsmt.DIV, args[0], args[1])), nil
	case vm.MOD:
		return yulsmt.NewIteExpr(isZero(args[1]), zero, yulsmt.NewBinaryExpr(yulsmt.MOD, args[0], args[1])), nil
	case vm.SDIV:
		// -2^255 / -1 yields 2^255, which is already its own two's complement.
		return yulsmt.NewIteExpr(isZero(args[1]), zero, yulsmt.SignedToTwosComplement(
			signedDivision(yulsmt.TwosComplementToSigned(args[0]), yulsmt.TwosComplementToSigned(args[1])),
		)), nil
	case vm.SMOD:
		return yulsmt.NewIteExpr(isZero(args[1]), zero, yulsmt.SignedToTwosComplement(
			signedModulo(yulsmt.TwosComplementToSigned(args[0]), yulsmt.TwosComplementToSigned(args[1])),
		)), nil
	case vm.ADDMOD:
		return yulsmt.NewIteExpr(isZero(args[2]), zero, yulsmt.NewBinaryExpr(yulsmt.MOD, yulsmt.NewBinaryExpr(yulsmt.ADD, args[0], args[1]), args[2])), nil
	case vm.MULMOD:
		return yulsmt.NewIteExpr(isZero(args[2]), zero, yulsmt.NewBinaryExpr(yulsmt.MOD, yulsmt.NewBinaryExpr(yulsmt.MUL, args[0], args[1]), args[2])), nil
	case vm.EXP:
		if v, ok := foldExp(args[0], args[1]); ok {
			return yulsmt.NewIntConstantExpr(v), nil
		}
		return nil, yulsmt.Unsupported(op, "non-constant operands")
	case vm.SIGNEXTEND:
		return signExtendInt(op, args[0], args[1])

	case vm.LT:
		return yulsmt.BooleanValue(yulsmt.NewBinaryExpr(yulsmt.LT, args[0], args[1])), nil
	case vm.GT:
		return yulsmt.BooleanValue(yulsmt.NewBinaryExpr(yulsmt.GT, args[0], args[1])), nil
	case vm.SLT:
		return yulsmt.BooleanValue(yulsmt.NewBinaryExpr(yulsmt.LT, yulsmt.TwosComplementToSigned(args[0]), yulsmt.TwosComplementToSigned(args[1]))), nil
	case vm.SGT:
		return yulsmt.BooleanValue(yulsmt.NewBinaryExpr(yulsmt.GT, yulsmt.TwosComplementToSigned(args[0]), yulsmt.TwosComplementToSigned(args[1]))), nil
	case vm.EQ:
		return yulsmt.BooleanValue(yulsmt.NewBinaryExpr(yulsmt.EQ, args[0], args[1])), nil
	case vm.ISZERO:
		return yulsmt.BooleanValue(isZero(args[0])), nil

	case vm.AND:
		return yulsmt.NewIteExpr(
			yulsmt.NewBinaryExpr(yulsmt.AND, isBoolean(args[0]), isBoolean(args[1])),
			yulsmt.BooleanValue(yulsmt.NewBinaryExpr(yulsmt.AND, isOne(args[0]), isOne(args[1]))),
			bitwise(yulsmt.AND, args[0], args[1]),
		), nil
	case vm.OR:
		return yulsmt.NewIteExpr(
			yulsmt.NewBinaryExpr(yulsmt.AND, isBoolean(args[0]), isBoolean(args[1])),
			yulsmt.BooleanValue(yulsmt.NewBinaryExpr(yulsmt.OR, isOne(args[0]), isOne(args[1]))),
			bitwise(yulsmt.OR, args[0], args[1]),
		), nil
	case vm.XOR:
		return bitwise(yulsmt.XOR, args[0], args[1]), nil
	case vm.NOT:
		return yulsmt.NewBinaryExpr(yulsmt.SUB, yulsmt.NewIntConstantExpr(yulsmt.MaxWord()), args[0]), nil
	case vm.BYTE:
		return yulsmt.BV2Int(byteAt(yulsmt.Int2BV(args[0]), yulsmt.Int2BV(args[1]))), nil
	case vm.SHL:
		return bitwise(yulsmt.SHL, args[1], args[0]), nil
	case vm.SHR:
		return bitwise(yulsmt.LSHR, args[1], args[0]), nil
	case vm.SAR:
		return bitwise(yulsmt.ASHR, args[1], args[0]), nil

	default:
		panic("evm: unhandled opcode: " + op.String())
	}
}

// bitwise applies a bitvector operation to two integer words.
func bitwise(op yulsmt.BinaryOp, x, y yulsmt.Expr) yulsmt.Expr {
	return yulsmt.BV2Int(yulsmt.NewBinaryExpr(op, yulsmt.Int2BV(x), yulsmt.Int2BV(y)))
}

func isZero(v yulsmt.Expr) yulsmt.Expr { return yulsmt.NewBinaryExpr(yulsmt.EQ, v, intConst(0)) }

func isOne(v yulsmt.Expr) yulsmt.Expr { return yulsmt.NewBinaryExpr(yulsmt.EQ, v, intConst(1)) }

func isBoolean(v yulsmt.Expr) yulsmt.Expr { return yulsmt.NewBinaryExpr(yulsmt.OR, isZero(v), isOne(v)) }

func abs(v yulsmt.Expr) yulsmt.Expr {
	return yulsmt.NewIteExpr(yulsmt.NewBinaryExpr(yulsmt.GE, v, intConst(0)), v, yulsmt.NewBinaryExpr(yulsmt.SUB, intConst(0), v))
}

// signedDivision divides two signed integers rounding toward zero.
// The divisor must be nonzero.
func signedDivision(x, y yulsmt.Expr) yulsmt.Expr {
	q := yulsmt.NewBinaryExpr(yulsmt.DIV, abs(x), abs(y))
	sameSign := yulsmt.NewBinaryExpr(yulsmt.EQ,
		yulsmt.NewBinaryExpr(yulsmt.GE, x, intConst(0)),
		yulsmt.NewBinaryExpr(yulsmt.GE, y, intConst(0)),
	)
	return yulsmt.NewIteExpr(sameSign, q, yulsmt.NewBinaryExpr(yulsmt.SUB, intConst(0), q))
}

// signedModulo returns the remainder of signedDivision, which takes the sign
// of the dividend. The divisor must be nonzero.
func signedModulo(x, y yulsmt.Expr) yulsmt.Expr {
	r := yulsmt.NewBinaryExpr(yulsmt.MOD, abs(x), abs(y))
	return yulsmt.NewIteExpr(yulsmt.NewBinaryExpr(yulsmt.GE, x, intConst(0)), r, yulsmt.NewBinaryExpr(yulsmt.SUB, intConst(0), r))
}

// signExtendInt extends the sign bit of byte b of x. The byte index must be
// a constant.
func signExtendInt(op vm.OpCode, b, x yulsmt.Expr) (yulsmt.Expr, error) {
	c, ok := b.(*yulsmt.ConstantExpr)
	if !ok {
		return nil, yulsmt.Unsupported(op, "non-constant byte index")
	} else if c.Value.Cmp(big.NewInt(31)) >= 0 {
		return x, nil
	}

	bits := uint(c.Value.Uint64()+1) * 8
	low := yulsmt.NewBinaryExpr(yulsmt.MOD, x, yulsmt.NewIntConstantExpr(pow2(bits)))
	fill := new(big.Int).Sub(yulsmt.WordModulus(), pow2(bits))
	return yulsmt.NewIteExpr(
		yulsmt.NewBinaryExpr(yulsmt.LT, low, yulsmt.NewIntConstantExpr(pow2(bits-1))),
		low,
		yulsmt.NewBinaryExpr(yulsmt.ADD, low, yulsmt.NewIntConstantExpr(fill)),
	), nil
}
