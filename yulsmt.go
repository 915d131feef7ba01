package yulsmt

import (
	"errors"
	"fmt"
	"math/big"
)

// WordWidth is the width of an EVM machine word in bits.
const WordWidth = 256

var (
	ErrUnsupported          = errors.New("yulsmt: unsupported operation")
	ErrStringLiteralTooLong = errors.New("yulsmt: string literal longer than 32 bytes")
)

// Common word-sized constants.
var (
	// 2^256
	wordModulus = new(big.Int).Lsh(big.NewInt(1), WordWidth)

	// 2^255, the smallest negative two's complement value.
	signBit = new(big.Int).Lsh(big.NewInt(1), WordWidth-1)

	// 2^256 - 1
	maxWord = new(big.Int).Sub(wordModulus, big.NewInt(1))
)

// WordModulus returns 2^256.
func WordModulus() *big.Int { return new(big.Int).Set(wordModulus) }

// MaxWord returns 2^256-1.
func MaxWord() *big.Int { return new(big.Int).Set(maxWord) }

// UnsupportedError is returned when an operation cannot be encoded.
// It matches ErrUnsupported with errors.Is().
type UnsupportedError struct {
	Name   string // builtin or function name
	Reason string
}

// Error returns the error as a string.
func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("yulsmt: unsupported operation: %s", e.Name)
	}
	return fmt.Sprintf("yulsmt: unsupported operation: %s: %s", e.Name, e.Reason)
}

// Is returns true if target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
