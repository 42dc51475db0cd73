// Package sideeffect runs non-critical follow-ups of a completed business
// operation. A failure is logged and reported as a Result, never as an error,
// so it can neither block nor roll back the operation that triggered it.
package sideeffect

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Result is what a caller gets back instead of an error.
type Result struct {
	Name string
	Err  error
}

func (r Result) Failed() bool { return r.Err != nil }

func OK(name string) Result { return Result{Name: name} }

type Runner struct {
	log *logrus.Logger
}

func NewRunner(l *logrus.Logger) *Runner {
	if l == nil {
		l = logrus.New()
	}
	return &Runner{log: l}
}

// Run executes fn, converting errors and panics into a failed Result.
func (r *Runner) Run(ctx context.Context, name string, fields logrus.Fields, fn func(context.Context) error) (res Result) {
	res.Name = name
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
			r.log.WithFields(fields).WithField("side_effect", name).Error(res.Err)
		}
	}()

	if err := fn(ctx); err != nil {
		res.Err = err
		r.log.WithFields(fields).WithField("side_effect", name).WithError(err).Warn("side effect failed")
	}
	return res
}
