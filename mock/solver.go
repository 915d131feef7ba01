// Package mock provides a mock solver for testing encoders without a
// solver backend.
package mock

import (
	"github.com/benbjohnson/yulsmt"
	"github.com/stretchr/testify/mock"
)

var _ yulsmt.Solver = (*Solver)(nil)

// Solver is a mock implementation of yulsmt.Solver.
type Solver struct {
	mock.Mock
}

// NewSolver returns a mock solver that accepts every assertion and scope
// change. Check() and Model() must be set up by the caller.
func NewSolver() *Solver {
	s := &Solver{}
	s.On("Assert", mock.Anything).Return(nil)
	s.On("Push").Return(nil)
	s.On("Pop").Return(nil)
	s.On("Close").Return(nil)
	return s
}

func (s *Solver) Assert(expr yulsmt.Expr) error {
	return s.Called(expr).Error(0)
}

func (s *Solver) Push() error {
	return s.Called().Error(0)
}

func (s *Solver) Pop() error {
	return s.Called().Error(0)
}

func (s *Solver) Check() (yulsmt.CheckResult, error) {
	args := s.Called()
	return args.Get(0).(yulsmt.CheckResult), args.Error(1)
}

func (s *Solver) Model() (yulsmt.Model, error) {
	args := s.Called()
	m, _ := args.Get(0).(yulsmt.Model)
	return m, args.Error(1)
}

func (s *Solver) Close() error {
	return s.Called().Error(0)
}
