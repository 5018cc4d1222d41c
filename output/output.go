// Package output delivers the optimizer results to stdout and to the optional sinks.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Report is what one optimizer run produced for a source file
type Report struct {
	SourcePath    string
	OptimizedCode string
	TestCases     string
}

// Emitter publishes a report
type Emitter interface {
	Emit(ctx context.Context, report Report) error
}

// Console prints reports in the plain two-block layout
type Console struct {
	W io.Writer
}

var _ Emitter = (*Console)(nil)

func NewConsole(w io.Writer) *Console {
	return &Console{W: w}
}

func (c *Console) Emit(_ context.Context, report Report) error {
	if _, err := fmt.Fprintln(c.W, "Optimized Java Code:\n", report.OptimizedCode); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.W, "\nGenerated Unit Tests:\n", report.TestCases)
	return err
}

// Halt prints the text that stopped the pipeline
func (c *Console) Halt(text string) error {
	_, err := fmt.Fprintln(c.W, text)
	return err
}

// EmitAll runs every emitter and joins their errors
func EmitAll(ctx context.Context, report Report, emitters ...Emitter) error {
	var errs []error
	for _, e := range emitters {
		if err := e.Emit(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
