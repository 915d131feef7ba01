package yulsmt

import (
	"strings"

	"github.com/ethereum/go-ethereum/core/vm"
)

// BuiltinEncoder encodes the semantics of EVM instructions.
//
// Implementations return an expression of the encoder's sort for arithmetic
// results. Numeric results are wrapped by the encoder. Instructions that cannot
// be modeled return an error matching ErrUnsupported.
type BuiltinEncoder interface {
	EncodeEVMBuiltin(enc *Encoder, op vm.OpCode, args []Expr) (Expr, error)
}

// BuiltinEncoderFunc adapts a function to the BuiltinEncoder interface.
type BuiltinEncoderFunc func(enc *Encoder, op vm.OpCode, args []Expr) (Expr, error)

// EncodeEVMBuiltin calls fn.
func (fn BuiltinEncoderFunc) EncodeEVMBuiltin(enc *Encoder, op vm.OpCode, args []Expr) (Expr, error) {
	return fn(enc, op, args)
}

// Unsupported returns an UnsupportedError for op.
func Unsupported(op vm.OpCode, reason string) error {
	return &UnsupportedError{Name: strings.ToLower(op.String()), Reason: reason}
}
