package yulsmt

import (
	"sort"

	"github.com/benbjohnson/yulsmt/ast"
	"github.com/ethereum/go-ethereum/core/vm"
)

// Dialect describes the builtin functions available to a Yul program.
type Dialect interface {
	// Returns the builtin with the given name, if one exists.
	Builtin(name ast.YulName) (*BuiltinFunction, bool)
}

// BuiltinFunction describes a single builtin of a dialect.
type BuiltinFunction struct {
	Name        ast.YulName
	Instruction vm.OpCode
	Parameters  int
	Returns     int

	// False for builtins with no corresponding EVM instruction.
	HasInstruction bool
}

// EVMDialect is the dialect of Yul targeting the EVM.
type EVMDialect struct {
	builtins map[ast.YulName]*BuiltinFunction
}

// NewEVMDialect returns the EVM dialect with all instruction builtins.
func NewEVMDialect() *EVMDialect {
	d := &EVMDialect{builtins: make(map[ast.YulName]*BuiltinFunction)}
	for _, b := range evmBuiltins {
		b := b
		b.HasInstruction = true
		d.builtins[b.Name] = &b
	}
	return d
}

// Builtin returns the builtin with the given name.
func (d *EVMDialect) Builtin(name ast.YulName) (*BuiltinFunction, bool) {
	b, ok := d.builtins[name]
	return b, ok
}

// Builtins returns all builtins sorted by name.
func (d *EVMDialect) Builtins() []*BuiltinFunction {
	a := make([]*BuiltinFunction, 0, len(d.builtins))
	for _, b := range d.builtins {
		a = append(a, b)
	}
	sort.Slice(a, func(i, j int) bool { return a[i].Name < a[j].Name })
	return a
}

var evmBuiltins = []BuiltinFunction{
	{Name: "stop", Instruction: vm.STOP},
	{Name: "add", Instruction: vm.ADD, Parameters: 2, Returns: 1},
	{Name: "mul", Instruction: vm.MUL, Parameters: 2, Returns: 1},
	{Name: "sub", Instruction: vm.SUB, Parameters: 2, Returns: 1},
	{Name: "div", Instruction: vm.DIV, Parameters: 2, Returns: 1},
	{Name: "sdiv", Instruction: vm.SDIV, Parameters: 2, Returns: 1},
	{Name: "mod", Instruction: vm.MOD, Parameters: 2, Returns: 1},
	{Name: "smod", Instruction: vm.SMOD, Parameters: 2, Returns: 1},
	{Name: "addmod", Instruction: vm.ADDMOD, Parameters: 3, Returns: 1},
	{Name: "mulmod", Instruction: vm.MULMOD, Parameters: 3, Returns: 1},
	{Name: "exp", Instruction: vm.EXP, Parameters: 2, Returns: 1},
	{Name: "signextend", Instruction: vm.SIGNEXTEND, Parameters: 2, Returns: 1},
	{Name: "lt", Instruction: vm.LT, Parameters: 2, Returns: 1},
	{Name: "gt", Instruction: vm.GT, Parameters: 2, Returns: 1},
	{Name: "slt", Instruction: vm.SLT, Parameters: 2, Returns: 1},
	{Name: "sgt", Instruction: vm.SGT, Parameters: 2, Returns: 1},
	{Name: "eq", Instruction: vm.EQ, Parameters: 2, Returns: 1},
	{Name: "iszero", Instruction: vm.ISZERO, Parameters: 1, Returns: 1},
	{Name: "and", Instruction: vm.AND, Parameters: 2, Returns: 1},
	{Name: "or", Instruction: vm.OR, Parameters: 2, Returns: 1},
	{Name: "xor", Instruction: vm.XOR, Parameters: 2, Returns: 1},
	{Name: "not", Instruction: vm.NOT, Parameters: 1, Returns: 1},
	{Name: "byte", Instruction: vm.BYTE, Parameters: 2, Returns: 1},
	{Name: "shl", Instruction: vm.SHL, Parameters: 2, Returns: 1},
	{Name: "shr", Instruction: vm.SHR, Parameters: 2, Returns: 1},
	{Name: "sar", Instruction: vm.SAR, Parameters: 2, Returns: 1},
	{Name: "keccak256", Instruction: vm.KECCAK256, Parameters: 2, Returns: 1},
	{Name: "address", Instruction: vm.ADDRESS, Returns: 1},
	{Name: "balance", Instruction: vm.BALANCE, Parameters: 1, Returns: 1},
	{Name: "origin", Instruction: vm.ORIGIN, Returns: 1},
	{Name: "caller", Instruction: vm.CALLER, Returns: 1},
	{Name: "callvalue", Instruction: vm.CALLVALUE, Returns: 1},
	{Name: "calldataload", Instruction: vm.CALLDATALOAD, Parameters: 1, Returns: 1},
	{Name: "calldatasize", Instruction: vm.CALLDATASIZE, Returns: 1},
	{Name: "calldatacopy", Instruction: vm.CALLDATACOPY, Parameters: 3},
	{Name: "codesize", Instruction: vm.CODESIZE, Returns: 1},
	{Name: "codecopy", Instruction: vm.CODECOPY, Parameters: 3},
	{Name: "gasprice", Instruction: vm.GASPRICE, Returns: 1},
	{Name: "extcodesize", Instruction: vm.EXTCODESIZE, Parameters: 1, Returns: 1},
	{Name: "extcodecopy", Instruction: vm.EXTCODECOPY, Parameters: 4},
	{Name: "returndatasize", Instruction: vm.RETURNDATASIZE, Returns: 1},
	{Name: "returndatacopy", Instruction: vm.RETURNDATACOPY, Parameters: 3},
	{Name: "extcodehash", Instruction: vm.EXTCODEHASH, Parameters: 1, Returns: 1},
	{Name: "blockhash", Instruction: vm.BLOCKHASH, Parameters: 1, Returns: 1},
	{Name: "coinbase", Instruction: vm.COINBASE, Returns: 1},
	{Name: "timestamp", Instruction: vm.TIMESTAMP, Returns: 1},
	{Name: "number", Instruction: vm.NUMBER, Returns: 1},
	{Name: "difficulty", Instruction: vm.DIFFICULTY, Returns: 1},
	{Name: "prevrandao", Instruction: vm.DIFFICULTY, Returns: 1},
	{Name: "gaslimit", Instruction: vm.GASLIMIT, Returns: 1},
	{Name: "chainid", Instruction: vm.CHAINID, Returns: 1},
	{Name: "selfbalance", Instruction: vm.SELFBALANCE, Returns: 1},
	{Name: "basefee", Instruction: vm.BASEFEE, Returns: 1},
	{Name: "pop", Instruction: vm.POP, Parameters: 1},
	{Name: "mload", Instruction: vm.MLOAD, Parameters: 1, Returns: 1},
	{Name: "mstore", Instruction: vm.MSTORE, Parameters: 2},
	{Name: "mstore8", Instruction: vm.MSTORE8, Parameters: 2},
	{Name: "sload", Instruction: vm.SLOAD, Parameters: 1, Returns: 1},
	{Name: "sstore", Instruction: vm.SSTORE, Parameters: 2},
	{Name: "msize", Instruction: vm.MSIZE, Returns: 1},
	{Name: "gas", Instruction: vm.GAS, Returns: 1},
	{Name: "log0", Instruction: vm.LOG0, Parameters: 2},
	{Name: "log1", Instruction: vm.LOG1, Parameters: 3},
	{Name: "log2", Instruction: vm.LOG2, Parameters: 4},
	{Name: "log3", Instruction: vm.LOG3, Parameters: 5},
	{Name: "log4", Instruction: vm.LOG4, Parameters: 6},
	{Name: "create", Instruction: vm.CREATE, Parameters: 3, Returns: 1},
	{Name: "call", Instruction: vm.CALL, Parameters: 7, Returns: 1},
	{Name: "callcode", Instruction: vm.CALLCODE, Parameters: 7, Returns: 1},
	{Name: "return", Instruction: vm.RETURN, Parameters: 2},
	{Name: "delegatecall", Instruction: vm.DELEGATECALL, Parameters: 6, Returns: 1},
	{Name: "create2", Instruction: vm.CREATE2, Parameters: 4, Returns: 1},
	{Name: "staticcall", Instruction: vm.STATICCALL, Parameters: 6, Returns: 1},
	{Name: "revert", Instruction: vm.REVERT, Parameters: 2},
	{Name: "invalid", Instruction: vm.INVALID},
	{Name: "selfdestruct", Instruction: vm.SELFDESTRUCT, Parameters: 1},
}
