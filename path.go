package yulsmt

// PathCondition returns the conjunction of branch predicates currently in
// effect. Returns nil when no branch is active.
func (e *Encoder) PathCondition() Expr {
	return e.pathCondition
}

// EnterPathCondition conjoins pred onto the path condition. The returned
// function restores the previous path condition and must be called once the
// branch has been encoded, including on error.
func (e *Encoder) EnterPathCondition(pred Expr) (restore func()) {
	assert(ExprSort(pred) == BoolSort, "path condition: non-boolean predicate: %s", pred)

	prev := e.pathCondition
	if prev == nil {
		e.pathCondition = pred
	} else {
		e.pathCondition = NewBinaryExpr(AND, prev, pred)
	}
	return func() { e.pathCondition = prev }
}

// AddAssertion asserts expr, guarded by the path condition if one is active.
func (e *Encoder) AddAssertion(expr Expr) error {
	if e.pathCondition != nil {
		expr = NewBinaryExpr(IMPLIES, e.pathCondition, expr)
	}
	return e.assert(expr)
}

// assert adds expr to the solver without any guard.
func (e *Encoder) assert(expr Expr) error {
	assert(ExprSort(expr) == BoolSort, "assertion: non-boolean expression: %s", expr)

	if c, ok := expr.(*ConstantExpr); ok && c.IsTrue() {
		return nil
	}
	if err := e.solver.Assert(expr); err != nil {
		return err
	}
	e.assertions = append(e.assertions, expr)
	e.stats.AssertN++
	return nil
}
