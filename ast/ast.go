// Package ast declares the Yul syntax tree consumed by the encoder.
//
// The encoder only reads these nodes. Building them (parsing, SSA
// transformation) is the caller's responsibility.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// YulName is an identifier naming a variable or function.
type YulName string

// Node represents any node in the syntax tree.
type Node interface {
	node()
	String() string
}

// Expression represents a Yul expression.
type Expression interface {
	Node
	expression()
}

func (*FunctionCall) node() {}
func (*Identifier) node()   {}
func (*Literal) node()      {}

func (*FunctionCall) expression() {}
func (*Identifier) expression()   {}
func (*Literal) expression()      {}

// Identifier represents a variable reference.
type Identifier struct {
	Name YulName
}

// String returns the identifier name.
func (e *Identifier) String() string { return string(e.Name) }

// LiteralKind represents the type of a literal.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota + 1
	BooleanLiteral
	StringLiteral
)

// String returns the name of the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case NumberLiteral:
		return "number"
	case BooleanLiteral:
		return "bool"
	case StringLiteral:
		return "string"
	default:
		return fmt.Sprintf("LiteralKind<%d>", k)
	}
}

// Literal represents a number, boolean or string literal.
// Value holds the literal as written for numbers ("42", "0x2a"), "true" or
// "false" for booleans, and the unquoted contents for strings.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// NewNumberLiteral returns a number literal from its source text.
func NewNumberLiteral(value string) *Literal {
	return &Literal{Kind: NumberLiteral, Value: value}
}

// IsNumber returns true if s is a Yul number literal: "0", a decimal without
// leading zeros, or "0x" followed by hex digits.
func IsNumber(s string) bool {
	if hex := strings.TrimPrefix(s, "0x"); hex != s {
		return hex != "" && strings.Trim(hex, "0123456789abcdefABCDEF") == ""
	} else if s == "" || (s[0] == '0' && len(s) > 1) {
		return false
	}
	return strings.Trim(s, "0123456789") == ""
}

// NewBoolLiteral returns a boolean literal.
func NewBoolLiteral(value bool) *Literal {
	return &Literal{Kind: BooleanLiteral, Value: strconv.FormatBool(value)}
}

// NewStringLiteral returns a string literal.
func NewStringLiteral(value string) *Literal {
	return &Literal{Kind: StringLiteral, Value: value}
}

// String returns the literal in Yul syntax.
func (e *Literal) String() string {
	if e.Kind == StringLiteral {
		return strconv.Quote(e.Value)
	}
	return e.Value
}

// FunctionCall represents a call of a builtin or user-defined function.
type FunctionCall struct {
	FunctionName Identifier
	Arguments    []Expression
}

// Call is an ease of use function for building a FunctionCall.
func Call(name YulName, args ...Expression) *FunctionCall {
	return &FunctionCall{FunctionName: Identifier{Name: name}, Arguments: args}
}

// String returns the call in Yul syntax.
func (e *FunctionCall) String() string {
	args := make([]string, len(e.Arguments))
	for i, arg := range e.Arguments {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", e.FunctionName.Name, strings.Join(args, ", "))
}

// Statement represents a Yul statement.
type Statement interface {
	Node
	statement()
}

func (*Assignment) node()          {}
func (*Block) node()               {}
func (*ExpressionStatement) node() {}
func (*If) node()                  {}
func (*VariableDeclaration) node() {}

func (*Assignment) statement()          {}
func (*Block) statement()               {}
func (*ExpressionStatement) statement() {}
func (*If) statement()                  {}
func (*VariableDeclaration) statement() {}

// TypedName represents a declared variable name.
type TypedName struct {
	Name YulName
}

// VariableDeclaration represents "let a, b := value". Value may be nil.
type VariableDeclaration struct {
	Variables []TypedName
	Value     Expression
}

// String returns the declaration in Yul syntax.
func (s *VariableDeclaration) String() string {
	names := make([]string, len(s.Variables))
	for i, v := range s.Variables {
		names[i] = string(v.Name)
	}
	if s.Value == nil {
		return "let " + strings.Join(names, ", ")
	}
	return fmt.Sprintf("let %s := %s", strings.Join(names, ", "), s.Value)
}

// Let is an ease of use function for declaring a single variable.
// A nil value declares the variable without an initial value.
func Let(name YulName, value Expression) *VariableDeclaration {
	return &VariableDeclaration{Variables: []TypedName{{Name: name}}, Value: value}
}

// Assignment represents "a, b := value".
type Assignment struct {
	VariableNames []Identifier
	Value         Expression
}

// String returns the assignment in Yul syntax.
func (s *Assignment) String() string {
	names := make([]string, len(s.VariableNames))
	for i, v := range s.VariableNames {
		names[i] = string(v.Name)
	}
	return fmt.Sprintf("%s := %s", strings.Join(names, ", "), s.Value)
}

// Assign is an ease of use function for assigning a single variable.
func Assign(name YulName, value Expression) *Assignment {
	return &Assignment{VariableNames: []Identifier{{Name: name}}, Value: value}
}

// ExpressionStatement represents an expression evaluated for its side effects.
type ExpressionStatement struct {
	Expression Expression
}

// String returns the statement in Yul syntax.
func (s *ExpressionStatement) String() string { return s.Expression.String() }

// If represents a conditional block without an else branch.
type If struct {
	Condition Expression
	Body      *Block
}

// String returns the statement in Yul syntax.
func (s *If) String() string {
	return fmt.Sprintf("if %s %s", s.Condition, s.Body)
}

// Block represents a scoped list of statements.
type Block struct {
	Statements []Statement
}

// String returns the block in Yul syntax.
func (s *Block) String() string {
	if len(s.Statements) == 0 {
		return "{ }"
	}
	a := make([]string, len(s.Statements))
	for i, stmt := range s.Statements {
		a[i] = stmt.String()
	}
	return "{ " + strings.Join(a, " ") + " }"
}

// AssignedVariables returns the names assigned anywhere within node, in
// order of first assignment. Declarations are not included.
func AssignedVariables(node Node) []YulName {
	var names []YulName
	seen := make(map[YulName]struct{})

	var walk func(Node)
	walk = func(node Node) {
		switch node := node.(type) {
		case *Assignment:
			for _, id := range node.VariableNames {
				if _, ok := seen[id.Name]; !ok {
					seen[id.Name] = struct{}{}
					names = append(names, id.Name)
				}
			}
		case *Block:
			for _, stmt := range node.Statements {
				walk(stmt)
			}
		case *If:
			walk(node.Body)
		}
	}
	walk(node)
	return names
}
