package ast_test

import (
	"testing"

	"github.com/benbjohnson/yulsmt/ast"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

func TestParseExpr(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want ast.Expression
	}{
		{"x", &ast.Identifier{Name: "x"}},
		{"a.b.c", &ast.Identifier{Name: "a.b.c"}},
		{"42", ast.NewNumberLiteral("42")},
		{"0x2a", ast.NewNumberLiteral("0x2a")},
		{"true", ast.NewBoolLiteral(true)},
		{"false", ast.NewBoolLiteral(false)},
		{`"abc"`, ast.NewStringLiteral("abc")},
		{"caller()", ast.Call("caller")},
		{"(x)", &ast.Identifier{Name: "x"}},
		{"add(x, mul(2, y))", ast.Call("add",
			&ast.Identifier{Name: "x"},
			ast.Call("mul", ast.NewNumberLiteral("2"), &ast.Identifier{Name: "y"}),
		)},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got, err := ast.ParseExpr(tt.src)
			if err != nil {
				t.Fatal(err)
			} else if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("%s\n%s", diff, spew.Sdump(got))
			}
		})
	}

	t.Run("ErrSyntax", func(t *testing.T) {
		for _, src := range []string{"", "add(", "x + 1", "f(x...)", "1.5", "'a'", "010", "add(010, 1_0)", "0b11", "0o17", "0X1f"} {
			if _, err := ast.ParseExpr(src); err == nil {
				t.Errorf("expected error for %q", src)
			}
		}
	})

	t.Run("MustParseExpr", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		ast.MustParseExpr("add(")
	})
}

func TestIsNumber(t *testing.T) {
	for _, s := range []string{"0", "7", "42", "1000", "0x0", "0x2a", "0xDEADbeef", "0x00ff"} {
		if !ast.IsNumber(s) {
			t.Errorf("expected number: %q", s)
		}
	}
	for _, s := range []string{"", "00", "010", "1_000", "0x", "0X1f", "0b11", "0o17", "0xzz", "-1", "+1", "1.5", "1e3", " 1"} {
		if ast.IsNumber(s) {
			t.Errorf("unexpected number: %q", s)
		}
	}
}

func TestNode_String(t *testing.T) {
	for _, tt := range []struct {
		node ast.Node
		want string
	}{
		{ast.MustParseExpr("add(x, 0x01)"), "add(x, 0x01)"},
		{ast.NewStringLiteral(`a"b`), `"a\"b"`},
		{ast.Let("x", nil), "let x"},
		{ast.Let("x", ast.NewNumberLiteral("1")), "let x := 1"},
		{&ast.VariableDeclaration{
			Variables: []ast.TypedName{{Name: "a"}, {Name: "b"}},
			Value:     ast.Call("f"),
		}, "let a, b := f()"},
		{ast.Assign("x", ast.MustParseExpr("sub(x, 1)")), "x := sub(x, 1)"},
		{&ast.ExpressionStatement{Expression: ast.Call("pop", ast.NewNumberLiteral("1"))}, "pop(1)"},
		{&ast.Block{}, "{ }"},
		{&ast.If{
			Condition: ast.MustParseExpr("lt(x, 10)"),
			Body:      &ast.Block{Statements: []ast.Statement{ast.Assign("x", ast.NewNumberLiteral("10"))}},
		}, "if lt(x, 10) { x := 10 }"},
	} {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestLiteralKind_String(t *testing.T) {
	for kind, want := range map[ast.LiteralKind]string{
		ast.NumberLiteral:  "number",
		ast.BooleanLiteral: "bool",
		ast.StringLiteral:  "string",
		ast.LiteralKind(9): "LiteralKind<9>",
	} {
		if got := kind.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestAssignedVariables(t *testing.T) {
	block := &ast.Block{Statements: []ast.Statement{
		ast.Let("a", nil),
		ast.Assign("b", ast.NewNumberLiteral("1")),
		&ast.If{
			Condition: &ast.Identifier{Name: "c"},
			Body: &ast.Block{Statements: []ast.Statement{
				ast.Assign("d", ast.NewNumberLiteral("2")),
				ast.Assign("b", ast.NewNumberLiteral("3")),
			}},
		},
		&ast.Assignment{
			VariableNames: []ast.Identifier{{Name: "e"}, {Name: "d"}},
			Value:         ast.Call("f"),
		},
	}}

	if diff := cmp.Diff([]ast.YulName{"b", "d", "e"}, ast.AssignedVariables(block)); diff != "" {
		t.Fatal(diff)
	}
}
