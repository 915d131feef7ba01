package evm_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/benbjohnson/yulsmt"
	"github.com/benbjohnson/yulsmt/ast"
	"github.com/benbjohnson/yulsmt/evm"
	"github.com/benbjohnson/yulsmt/mock"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
)

// instructions lists each supported instruction with its reference semantics
// as implemented by the EVM.
var instructions = []struct {
	name string
	op   vm.OpCode
	fn   func(a []*uint256.Int) *uint256.Int
}{
	{"add", vm.ADD, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Add(a[0], a[1]) }},
	{"sub", vm.SUB, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Sub(a[0], a[1]) }},
	{"mul", vm.MUL, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Mul(a[0], a[1]) }},
	{"div", vm.DIV, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Div(a[0], a[1]) }},
	{"sdiv", vm.SDIV, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).SDiv(a[0], a[1]) }},
	{"mod", vm.MOD, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Mod(a[0], a[1]) }},
	{"smod", vm.SMOD, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).SMod(a[0], a[1]) }},
	{"addmod", vm.ADDMOD, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).AddMod(a[0], a[1], a[2]) }},
	{"mulmod", vm.MULMOD, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).MulMod(a[0], a[1], a[2]) }},
	{"exp", vm.EXP, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Exp(a[0], a[1]) }},
	{"signextend", vm.SIGNEXTEND, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).ExtendSign(a[1], a[0]) }},
	{"lt", vm.LT, func(a []*uint256.Int) *uint256.Int { return boolWord(a[0].Lt(a[1])) }},
	{"gt", vm.GT, func(a []*uint256.Int) *uint256.Int { return boolWord(a[0].Gt(a[1])) }},
	{"slt", vm.SLT, func(a []*uint256.Int) *uint256.Int { return boolWord(a[0].Slt(a[1])) }},
	{"sgt", vm.SGT, func(a []*uint256.Int) *uint256.Int { return boolWord(a[0].Sgt(a[1])) }},
	{"eq", vm.EQ, func(a []*uint256.Int) *uint256.Int { return boolWord(a[0].Eq(a[1])) }},
	{"iszero", vm.ISZERO, func(a []*uint256.Int) *uint256.Int { return boolWord(a[0].IsZero()) }},
	{"and", vm.AND, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).And(a[0], a[1]) }},
	{"or", vm.OR, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Or(a[0], a[1]) }},
	{"xor", vm.XOR, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Xor(a[0], a[1]) }},
	{"not", vm.NOT, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Not(a[0]) }},
	{"byte", vm.BYTE, func(a []*uint256.Int) *uint256.Int { return new(uint256.Int).Set(a[1]).Byte(a[0]) }},
	{"shl", vm.SHL, func(a []*uint256.Int) *uint256.Int {
		if !a[0].LtUint64(256) {
			return new(uint256.Int)
		}
		return new(uint256.Int).Lsh(a[1], uint(a[0].Uint64()))
	}},
	{"shr", vm.SHR, func(a []*uint256.Int) *uint256.Int {
		if !a[0].LtUint64(256) {
			return new(uint256.Int)
		}
		return new(uint256.Int).Rsh(a[1], uint(a[0].Uint64()))
	}},
	{"sar", vm.SAR, func(a []*uint256.Int) *uint256.Int {
		if !a[0].LtUint64(256) {
			if a[1].Sign() < 0 {
				return new(uint256.Int).SetAllOne()
			}
			return new(uint256.Int)
		}
		return new(uint256.Int).SRsh(a[1], uint(a[0].Uint64()))
	}},
}

var domains = []struct {
	name string
	sort yulsmt.Sort
}{
	{"Integer", yulsmt.IntSort},
	{"BitVector", yulsmt.WordSort},
}

// Instructions applied to literals fold to the value computed by the EVM.
func TestEncoder_ConstantFolding(t *testing.T) {
	for _, d := range domains {
		t.Run(d.name, func(t *testing.T) {
			for _, ins := range instructions {
				t.Run(ins.name, func(t *testing.T) {
					enc := evm.NewEncoder(mock.NewSolver(), d.sort)
					for _, args := range operands(arity(t, ins.name)) {
						call := ast.Call(ast.YulName(ins.name), literals(args)...)
						v, err := enc.EncodeExpression(call)
						if err != nil {
							t.Fatalf("%s: %s", call, err)
						}

						c, ok := v.(*yulsmt.ConstantExpr)
						if !ok {
							t.Fatalf("%s: expected constant, got %s", call, v)
						} else if c.Sort != d.sort {
							t.Fatalf("%s: unexpected sort: %s", call, c.Sort)
						} else if want := ins.fn(args).ToBig(); c.Value.Cmp(want) != 0 {
							t.Fatalf("%s: got %s, want %s", call, c.Value, want)
						}
					}
					if n := len(enc.Assertions()); n != 0 {
						t.Fatalf("unexpected assertion count: %d", n)
					}
				})
			}
		})
	}
}

// Instructions applied to symbols evaluate to the value computed by the EVM
// under every assignment of the symbols.
func TestEncoder_Symbolic(t *testing.T) {
	for _, d := range domains {
		t.Run(d.name, func(t *testing.T) {
			for _, ins := range instructions {
				if ins.op == vm.EXP {
					continue
				}

				t.Run(ins.name, func(t *testing.T) {
					enc := evm.NewEncoder(mock.NewSolver(), d.sort)
					n := arity(t, ins.name)

					for _, args := range operands(n) {
						model := make(yulsmt.Model)
						exprs := make([]yulsmt.Expr, n)
						for i, arg := range args {
							name := string(rune('a' + i))
							exprs[i] = yulsmt.NewVariableExpr(name, d.sort)
							model[name] = yulsmt.NewConstantExpr(arg.ToBig(), d.sort)
						}

						// The integer encoding requires a constant byte index.
						if ins.op == vm.SIGNEXTEND && d.sort == yulsmt.IntSort {
							exprs[0] = model["a"]
						}

						expr, err := enc.Builtins.EncodeEVMBuiltin(enc, ins.op, exprs)
						if err != nil {
							t.Fatal(err)
						}

						c, err := yulsmt.NewExprEvaluator(model).Evaluate(expr)
						if err != nil {
							t.Fatalf("%s%v: %s", ins.name, args, err)
						}

						got := c.Value
						if d.sort == yulsmt.IntSort {
							got = new(big.Int).Mod(got, yulsmt.WordModulus())
						}
						if want := ins.fn(args).ToBig(); got.Cmp(want) != 0 {
							t.Fatalf("%s%v: got %s, want %s", ins.name, args, got, want)
						}
					}
				})
			}
		})
	}
}

func TestEncoder_Unsupported(t *testing.T) {
	for _, d := range domains {
		t.Run(d.name, func(t *testing.T) {
			enc := evm.NewEncoder(mock.NewSolver(), d.sort)
			x := yulsmt.NewVariableExpr("x", d.sort)

			for _, tt := range []struct {
				op   vm.OpCode
				args []yulsmt.Expr
				name string
			}{
				{vm.SLOAD, []yulsmt.Expr{x}, "sload"},
				{vm.CALLER, nil, "caller"},
				{vm.KECCAK256, []yulsmt.Expr{x, x}, "keccak256"},
				{vm.EXP, []yulsmt.Expr{x, x}, "exp"},
			} {
				_, err := enc.Builtins.EncodeEVMBuiltin(enc, tt.op, tt.args)
				var e *yulsmt.UnsupportedError
				if !errors.Is(err, yulsmt.ErrUnsupported) {
					t.Fatalf("%s: unexpected error: %v", tt.op, err)
				} else if !errors.As(err, &e) || e.Name != tt.name {
					t.Fatalf("%s: unexpected error: %#v", tt.op, err)
				}
			}
		})
	}

	t.Run("SignExtendNonConstantIndex", func(t *testing.T) {
		enc := evm.NewEncoder(mock.NewSolver(), yulsmt.IntSort)
		x := yulsmt.NewVariableExpr("x", yulsmt.IntSort)
		if _, err := enc.Builtins.EncodeEVMBuiltin(enc, vm.SIGNEXTEND, []yulsmt.Expr{x, x}); !errors.Is(err, yulsmt.ErrUnsupported) {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestEncoder_ErrArgumentCount(t *testing.T) {
	enc := evm.NewEncoder(mock.NewSolver(), yulsmt.IntSort)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic")
		}
	}()
	_, _ = enc.Builtins.EncodeEVMBuiltin(enc, vm.ADD, []yulsmt.Expr{yulsmt.NewInt64ConstantExpr(1)})
}

func TestNewEncoder(t *testing.T) {
	if enc := evm.NewEncoder(mock.NewSolver(), yulsmt.IntSort); enc.Sort() != yulsmt.IntSort {
		t.Fatalf("unexpected sort: %s", enc.Sort())
	} else if _, ok := enc.Builtins.(*evm.IntegerEncoder); !ok {
		t.Fatalf("unexpected builtins: %T", enc.Builtins)
	}

	if enc := evm.NewEncoder(mock.NewSolver(), yulsmt.WordSort); enc.Sort() != yulsmt.WordSort {
		t.Fatalf("unexpected sort: %s", enc.Sort())
	} else if _, ok := enc.Builtins.(*evm.BitVectorEncoder); !ok {
		t.Fatalf("unexpected builtins: %T", enc.Builtins)
	}
}

// samples are operand values covering boundaries of the signed & unsigned ranges.
var samples = []*uint256.Int{
	uint256.NewInt(0),
	uint256.NewInt(1),
	uint256.NewInt(2),
	uint256.NewInt(7),
	uint256.NewInt(31),
	uint256.NewInt(32),
	uint256.NewInt(0xff),
	uint256.NewInt(0x100),
	uint256.NewInt(0x8080),
	new(uint256.Int).Lsh(uint256.NewInt(1), 255),
	new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 255), uint256.NewInt(1)),
	new(uint256.Int).Sub(new(uint256.Int).SetAllOne(), uint256.NewInt(1)),
	new(uint256.Int).SetAllOne(),
}

// operands returns every n-tuple of sample values. Triples use a subset.
func operands(n int) [][]*uint256.Int {
	values := samples
	if n > 2 {
		values = []*uint256.Int{samples[0], samples[1], samples[3], samples[9], samples[11], samples[12]}
	}

	tuples := [][]*uint256.Int{nil}
	for i := 0; i < n; i++ {
		var next [][]*uint256.Int
		for _, t := range tuples {
			for _, v := range values {
				next = append(next, append(append([]*uint256.Int{}, t...), v))
			}
		}
		tuples = next
	}
	return tuples
}

func literals(args []*uint256.Int) []ast.Expression {
	a := make([]ast.Expression, len(args))
	for i, arg := range args {
		a[i] = ast.NewNumberLiteral(arg.Hex())
	}
	return a
}

func arity(tb testing.TB, name string) int {
	tb.Helper()
	b, ok := yulsmt.NewEVMDialect().Builtin(ast.YulName(name))
	if !ok {
		tb.Fatalf("builtin not found: %s", name)
	}
	return b.Parameters
}

func boolWord(b bool) *uint256.Int {
	if b {
		return uint256.NewInt(1)
	}
	return uint256.NewInt(0)
}
