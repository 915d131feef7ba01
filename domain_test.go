package yulsmt_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/benbjohnson/yulsmt"
	"github.com/benbjohnson/yulsmt/ast"
	"github.com/google/go-cmp/cmp"
)

func TestLiteralValue(t *testing.T) {
	for _, tt := range []struct {
		name string
		lit  *ast.Literal
		want *big.Int
	}{
		{"Decimal", ast.NewNumberLiteral("42"), big.NewInt(42)},
		{"Hex", ast.NewNumberLiteral("0xff"), big.NewInt(255)},
		{"HexLeadingZeros", ast.NewNumberLiteral("0x0010"), big.NewInt(16)},
		{"Zero", ast.NewNumberLiteral("0"), big.NewInt(0)},
		{"Max", ast.NewNumberLiteral(yulsmt.MaxWord().String()), yulsmt.MaxWord()},
		{"True", ast.NewBoolLiteral(true), big.NewInt(1)},
		{"False", ast.NewBoolLiteral(false), big.NewInt(0)},
		{"Empty", ast.NewStringLiteral(""), big.NewInt(0)},
		{"String", ast.NewStringLiteral("abc"), new(big.Int).Lsh(big.NewInt(0x616263), 29*8)},
		{"String32", ast.NewStringLiteral(strings.Repeat("\x01", 32)), mustParseBig(t, "0x"+strings.Repeat("01", 32))},
	} {
		t.Run(tt.name, func(t *testing.T) {
			v, err := yulsmt.LiteralValue(tt.lit)
			if err != nil {
				t.Fatal(err)
			} else if diff := cmp.Diff(yulsmt.NewIntConstantExpr(tt.want), v, bigIntComparer); diff != "" {
				t.Fatal(diff)
			}
		})
	}

	t.Run("ErrStringLiteralTooLong", func(t *testing.T) {
		if _, err := yulsmt.LiteralValue(ast.NewStringLiteral(strings.Repeat("x", 33))); err != yulsmt.ErrStringLiteralTooLong {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrOutOfRange", func(t *testing.T) {
		if _, err := yulsmt.LiteralValue(ast.NewNumberLiteral(yulsmt.WordModulus().String())); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("ErrInvalid", func(t *testing.T) {
		for _, s := range []string{"", "0xzz", "-1", "1.5", "010", "00", "1_000", "0b11", "0o17", "0X1f", "0x"} {
			if _, err := yulsmt.LiteralValue(ast.NewNumberLiteral(s)); err == nil {
				t.Fatalf("expected error for %q", s)
			}
		}
	})
}

func TestTwosComplement(t *testing.T) {
	max := yulsmt.MaxWord()
	signBit := new(big.Int).Lsh(big.NewInt(1), 255)
	minSigned := new(big.Int).Neg(signBit)

	t.Run("SignedToTwosComplement", func(t *testing.T) {
		for _, tt := range []struct{ in, want *big.Int }{
			{big.NewInt(0), big.NewInt(0)},
			{big.NewInt(5), big.NewInt(5)},
			{big.NewInt(-1), max},
			{minSigned, signBit},
		} {
			got := yulsmt.SignedToTwosComplement(yulsmt.NewIntConstantExpr(tt.in))
			if diff := cmp.Diff(yulsmt.NewIntConstantExpr(tt.want), got, bigIntComparer); diff != "" {
				t.Errorf("%s: %s", tt.in, diff)
			}
		}
	})

	t.Run("TwosComplementToSigned", func(t *testing.T) {
		for _, tt := range []struct{ in, want *big.Int }{
			{big.NewInt(0), big.NewInt(0)},
			{big.NewInt(5), big.NewInt(5)},
			{max, big.NewInt(-1)},
			{signBit, minSigned},
			{new(big.Int).Sub(signBit, big.NewInt(1)), new(big.Int).Sub(signBit, big.NewInt(1))},
		} {
			got := yulsmt.TwosComplementToSigned(yulsmt.NewIntConstantExpr(tt.in))
			if diff := cmp.Diff(yulsmt.NewIntConstantExpr(tt.want), got, bigIntComparer); diff != "" {
				t.Errorf("%s: %s", tt.in, diff)
			}
		}
	})

	// Negative words map below non-negative words.
	t.Run("TwosComplementToUpscaledUnsigned", func(t *testing.T) {
		upscaled := func(v *big.Int) *big.Int {
			c, ok := yulsmt.TwosComplementToUpscaledUnsigned(yulsmt.NewIntConstantExpr(v)).(*yulsmt.ConstantExpr)
			if !ok {
				t.Fatalf("expected constant for %s", v)
			}
			return c.Value
		}

		words := []*big.Int{signBit, max, big.NewInt(0), big.NewInt(1), new(big.Int).Sub(signBit, big.NewInt(1))}
		for i := 1; i < len(words); i++ {
			if upscaled(words[i-1]).Cmp(upscaled(words[i])) >= 0 {
				t.Fatalf("order not preserved: %s, %s", words[i-1], words[i])
			}
		}
		if got := upscaled(big.NewInt(0)); got.Cmp(yulsmt.WordModulus()) != 0 {
			t.Fatalf("unexpected value: %s", got)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		x := yulsmt.NewVariableExpr("x", yulsmt.IntSort)
		expr := yulsmt.SignedToTwosComplement(yulsmt.TwosComplementToSigned(x))
		for _, v := range []*big.Int{big.NewInt(0), big.NewInt(7), signBit, max} {
			ee := yulsmt.NewExprEvaluator(yulsmt.Model{"x": yulsmt.NewIntConstantExpr(v)})
			got, err := ee.Evaluate(expr)
			if err != nil {
				t.Fatal(err)
			} else if diff := cmp.Diff(yulsmt.NewIntConstantExpr(v), got, bigIntComparer); diff != "" {
				t.Errorf("%s: %s", v, diff)
			}
		}
	})
}

func TestBooleanValue(t *testing.T) {
	if diff := cmp.Diff(yulsmt.NewInt64ConstantExpr(1), yulsmt.BooleanValue(yulsmt.NewBoolConstantExpr(true)), bigIntComparer); diff != "" {
		t.Fatal(diff)
	}
	b := yulsmt.NewVariableExpr("b", yulsmt.BoolSort)
	if got, want := yulsmt.BooleanValue(b).String(), "(ite b 1 0)"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestBooleanCondition(t *testing.T) {
	for _, tt := range []struct {
		expr yulsmt.Expr
		want string
	}{
		{yulsmt.NewInt64ConstantExpr(5), "true"},
		{yulsmt.NewInt64ConstantExpr(0), "false"},
		{yulsmt.NewVariableExpr("x", yulsmt.IntSort), "(not (= x 0))"},
		{yulsmt.NewVariableExpr("w", yulsmt.WordSort), "(not (= w (_ bv0 256)))"},
	} {
		if got := yulsmt.BooleanCondition(tt.expr).String(); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.expr, got, tt.want)
		}
	}
}

func TestInt2BV(t *testing.T) {
	v := yulsmt.Int2BV(yulsmt.NewIntConstantExpr(yulsmt.WordModulus()))
	if diff := cmp.Diff(yulsmt.NewConstantExpr(big.NewInt(0), yulsmt.WordSort), v, bigIntComparer); diff != "" {
		t.Fatal(diff)
	}

	w := yulsmt.NewVariableExpr("w", yulsmt.WordSort)
	if got := yulsmt.Int2BV(yulsmt.BV2Int(w)); got != yulsmt.Expr(w) {
		t.Fatalf("expected conversion round trip to fold: %s", got)
	}
}

func mustParseBig(tb testing.TB, s string) *big.Int {
	tb.Helper()
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		tb.Fatalf("invalid integer: %s", s)
	}
	return v
}
