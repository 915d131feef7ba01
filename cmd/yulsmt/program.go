package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/benbjohnson/yulsmt/ast"
	"gopkg.in/yaml.v3"
)

// Program represents a YAML program file: a list of statements in SSA form
// followed by queries over the final variable values.
//
//	program:
//	  - let: x
//	    value: calldataload(0)
//	  - if: lt(x, 10)
//	    body:
//	      - assign: x
//	        value: add(x, 1)
//	queries:
//	  - name: small
//	    assert: lt(x, 11)
type Program struct {
	Statements []Statement `yaml:"program"`
	Queries    []Query     `yaml:"queries"`
}

// Statement represents a single statement. Exactly one of Let, Assign, If or
// Expr must be set. Let & Assign accept a comma-separated list of names.
type Statement struct {
	Let    string      `yaml:"let,omitempty"`
	Assign string      `yaml:"assign,omitempty"`
	If     string      `yaml:"if,omitempty"`
	Expr   string      `yaml:"expr,omitempty"`
	Value  string      `yaml:"value,omitempty"`
	Body   []Statement `yaml:"body,omitempty"`
}

// Query represents a condition checked against the encoded program.
type Query struct {
	Name   string `yaml:"name"`
	Assert string `yaml:"assert"`
}

// ReadProgramFile reads and parses a YAML program file.
func ReadProgramFile(path string) (*Program, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProgram(buf)
}

// ParseProgram parses a YAML program.
func ParseProgram(buf []byte) (*Program, error) {
	var prog Program
	if err := yaml.Unmarshal(buf, &prog); err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}
	return &prog, nil
}

// Block converts the program statements into a Yul block.
func (p *Program) Block() (*ast.Block, error) {
	return convertStatements(p.Statements)
}

func convertStatements(a []Statement) (*ast.Block, error) {
	block := &ast.Block{}
	for i := range a {
		stmt, err := a[i].convert()
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, nil
}

func (s *Statement) convert() (ast.Statement, error) {
	switch {
	case s.Let != "":
		decl := &ast.VariableDeclaration{}
		for _, name := range splitNames(s.Let) {
			decl.Variables = append(decl.Variables, ast.TypedName{Name: name})
		}
		if s.Value != "" {
			value, err := ast.ParseExpr(s.Value)
			if err != nil {
				return nil, err
			}
			decl.Value = value
		}
		return decl, nil

	case s.Assign != "":
		value, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		assign := &ast.Assignment{Value: value}
		for _, name := range splitNames(s.Assign) {
			assign.VariableNames = append(assign.VariableNames, ast.Identifier{Name: name})
		}
		return assign, nil

	case s.If != "":
		cond, err := ast.ParseExpr(s.If)
		if err != nil {
			return nil, err
		}
		body, err := convertStatements(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.If{Condition: cond, Body: body}, nil

	case s.Expr != "":
		expr, err := ast.ParseExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Expression: expr}, nil

	default:
		return nil, fmt.Errorf("empty statement")
	}
}

func (s *Statement) parseValue() (ast.Expression, error) {
	if s.Value == "" {
		return nil, fmt.Errorf("value required")
	}
	return ast.ParseExpr(s.Value)
}

func splitNames(s string) []ast.YulName {
	var a []ast.YulName
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			a = append(a, ast.YulName(name))
		}
	}
	return a
}
