package main

import (
	"fmt"
	"io"

	"github.com/benbjohnson/yulsmt"
	"github.com/benbjohnson/yulsmt/ast"
	"github.com/benbjohnson/yulsmt/evm"
	"github.com/benbjohnson/yulsmt/z3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CheckCommand represents a command for checking queries against a program.
type CheckCommand struct {
	Config     yulsmt.Config
	EmitSMTLIB bool

	Stdout io.Writer

	// Returns a new solver session. Defaults to Z3.
	NewSolver func(config yulsmt.Config) (yulsmt.Solver, error)
}

// NewCheckCommand returns a new instance of CheckCommand.
func NewCheckCommand(w io.Writer) *CheckCommand {
	return &CheckCommand{
		Config:    yulsmt.DefaultConfig(),
		Stdout:    w,
		NewSolver: newZ3Solver,
	}
}

func newCheckCommand() *cobra.Command {
	var configPath string
	var emitSMTLIB bool

	cmd := &cobra.Command{
		Use:   "check <program.yaml>",
		Short: "Encode a program and check each of its queries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewCheckCommand(cmd.OutOrStdout())
			c.EmitSMTLIB = emitSMTLIB
			if configPath != "" {
				config, err := yulsmt.ReadConfigFile(configPath)
				if err != nil {
					return err
				}
				c.Config = config
			}
			return c.Run(args[0])
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().BoolVar(&emitSMTLIB, "emit-smtlib", false, "write the encoded program as an SMT-LIB script")
	return cmd
}

// Run executes the "check" subcommand against the program file at path.
func (cmd *CheckCommand) Run(path string) error {
	prog, err := ReadProgramFile(path)
	if err != nil {
		return err
	}
	return cmd.RunProgram(prog)
}

// RunProgram encodes prog and checks each of its queries.
func (cmd *CheckCommand) RunProgram(prog *Program) error {
	logger, err := cmd.Config.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	block, err := prog.Block()
	if err != nil {
		return err
	}

	s, err := cmd.NewSolver(cmd.Config)
	if err != nil {
		return err
	}
	enc := evm.NewEncoder(s, cmd.Config.VariableSort())
	defer enc.Close()
	enc.Logger = logger
	enc.UnknownOnUnsupported = cmd.Config.UnknownOnUnsupported

	if err := enc.EncodeBlock(block); err != nil {
		return err
	}

	if cmd.EmitSMTLIB {
		return yulsmt.WriteSMTLIB(cmd.Stdout, enc.Assertions())
	}

	for i, q := range prog.Queries {
		name := q.Name
		if name == "" {
			name = fmt.Sprintf("query%d", i+1)
		}

		expr, err := ast.ParseExpr(q.Assert)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		v, err := enc.EncodeExpression(expr)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		result, model, err := enc.Check(yulsmt.BooleanCondition(v))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(cmd.Stdout, "%s: %s\n", name, result)

		if result == yulsmt.Satisfiable {
			cmd.printModel(enc, model)
		}
	}

	stats := enc.Stats()
	logger.Info("check complete",
		zap.Int("assertions", stats.AssertN),
		zap.Int("variables", stats.VariableN),
		zap.Int("checks", stats.CheckN),
		zap.Duration("check_time", stats.CheckTime),
	)
	return nil
}

// printModel prints the current value of each program variable.
func (cmd *CheckCommand) printModel(enc *yulsmt.Encoder, model yulsmt.Model) {
	for _, name := range enc.Variables() {
		sym := enc.CurrentVariableExpression(name).(*yulsmt.VariableExpr)
		if value, ok := model[sym.Name]; ok {
			fmt.Fprintf(cmd.Stdout, "  %s = %s\n", name, value.Value)
		}
	}
}

func newZ3Solver(config yulsmt.Config) (yulsmt.Solver, error) {
	s, err := z3.NewSolver()
	if err != nil {
		return nil, err
	}
	s.Timeout = config.Timeout
	return s, nil
}
