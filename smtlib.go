package yulsmt

import (
	"bufio"
	"fmt"
	"io"
)

// WriteSMTLIB writes an SMT-LIB2 script asserting each expression. Every
// free variable is declared once before the first assertion.
func WriteSMTLIB(w io.Writer, assertions []Expr) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "(set-logic ALL)")
	for _, v := range FindVariables(assertions...) {
		fmt.Fprintf(bw, "(declare-fun %s () %s)\n", v, v.Sort)
	}
	for _, expr := range assertions {
		fmt.Fprintf(bw, "(assert %s)\n", expr)
	}
	fmt.Fprintln(bw, "(check-sat)")

	return bw.Flush()
}
