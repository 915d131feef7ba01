package ast

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"strconv"
)

// ParseExpr parses a single Yul expression such as "add(x, 0x01)".
//
// Yul's expression grammar (identifiers, literals and calls) is a subset of
// Go's so the Go parser is used and its tree converted.
func ParseExpr(src string) (Expression, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", src, err)
	}
	return convertExpr(expr)
}

// MustParseExpr is like ParseExpr but panics on error.
func MustParseExpr(src string) Expression {
	expr, err := ParseExpr(src)
	if err != nil {
		panic(err)
	}
	return expr
}

func convertExpr(expr goast.Expr) (Expression, error) {
	switch expr := expr.(type) {
	case *goast.ParenExpr:
		return convertExpr(expr.X)
	case *goast.Ident, *goast.SelectorExpr:
		name, err := convertName(expr)
		if err != nil {
			return nil, err
		}
		switch name {
		case "true":
			return NewBoolLiteral(true), nil
		case "false":
			return NewBoolLiteral(false), nil
		}
		return &Identifier{Name: name}, nil
	case *goast.BasicLit:
		return convertBasicLit(expr)
	case *goast.CallExpr:
		return convertCallExpr(expr)
	default:
		return nil, fmt.Errorf("unsupported expression syntax: %T", expr)
	}
}

// convertName returns the Yul name for an identifier. Dotted Yul names
// ("a.b") are parsed by Go as selector expressions.
func convertName(expr goast.Expr) (YulName, error) {
	switch expr := expr.(type) {
	case *goast.Ident:
		return YulName(expr.Name), nil
	case *goast.SelectorExpr:
		x, err := convertName(expr.X)
		if err != nil {
			return "", err
		}
		return x + "." + YulName(expr.Sel.Name), nil
	default:
		return "", fmt.Errorf("invalid identifier: %T", expr)
	}
}

func convertBasicLit(lit *goast.BasicLit) (Expression, error) {
	switch lit.Kind {
	case token.INT:
		if !IsNumber(lit.Value) {
			return nil, fmt.Errorf("invalid number literal: %s", lit.Value)
		}
		return NewNumberLiteral(lit.Value), nil
	case token.STRING:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid string literal %s: %w", lit.Value, err)
		}
		return NewStringLiteral(s), nil
	default:
		return nil, fmt.Errorf("unsupported literal: %s", lit.Value)
	}
}

func convertCallExpr(call *goast.CallExpr) (Expression, error) {
	if call.Ellipsis.IsValid() {
		return nil, fmt.Errorf("unsupported variadic call")
	}
	name, err := convertName(call.Fun)
	if err != nil {
		return nil, err
	}

	var args []Expression
	for _, arg := range call.Args {
		a, err := convertExpr(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return Call(name, args...), nil
}
