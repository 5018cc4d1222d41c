// Package pipeline sequences the optimize and generate-tests requests for one source file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/llm"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/prompt"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/source"
)

// NoResponseText replaces the output of a stage whose model call returned no text
const NoResponseText = "Error: No response received"

// errorMarker halts the pipeline when found in the source text
const errorMarker = "Error"

// ErrNoResponse is returned for an empty model response when FailOnEmptyResponse is set
var ErrNoResponse = errors.New("no response received")

type State string

const (
	StateStart          State = "start"
	StateFailed         State = "failed"
	StateOptimizing     State = "optimizing"
	StateTestGenerating State = "test_generating"
	StateDone           State = "done"
)

// HaltError stops the pipeline before any model call. Text is shown to the user as is.
type HaltError struct {
	Text string
}

func (e *HaltError) Error() string {
	return e.Text
}

// Result holds the outputs of a run
type Result struct {
	State         State
	OptimizedCode string
	TestCases     string
	Dispatches    int
}

// Options controls the pipeline's failure policy
type Options struct {
	// HaltOnErrorText stops before dispatching when the source contains "Error".
	// This also trips on legitimate code mentioning e.g. an Error class.
	HaltOnErrorText bool
	// FailOnEmptyResponse turns an empty model response into ErrNoResponse
	// instead of passing NoResponseText downstream.
	FailOnEmptyResponse bool
}

// DefaultOptions halts on "Error" in the source and passes empty responses downstream
func DefaultOptions() Options {
	return Options{HaltOnErrorText: true}
}

type Pipeline struct {
	reader source.Reader
	client llm.LLM
	opts   Options
}

func New(reader source.Reader, client llm.LLM, opts Options) *Pipeline {
	return &Pipeline{
		reader: reader,
		client: client,
		opts:   opts,
	}
}

// Run reads path, asks for an optimized version of it, then for tests of that optimized version.
func (p *Pipeline) Run(ctx context.Context, path string) (Result, error) {
	result := Result{State: StateStart}

	code, err := p.readSource(path)
	if err != nil {
		result.State = StateFailed
		return result, err
	}

	result.State = StateOptimizing
	result.OptimizedCode, err = p.dispatch(ctx, prompt.Optimize, code)
	result.Dispatches++
	if err != nil {
		return result, fmt.Errorf("optimizing %s: %w", path, err)
	}

	// The optimized output feeds the next stage whether or not it is usable
	result.State = StateTestGenerating
	result.TestCases, err = p.dispatch(ctx, prompt.GenerateTests, result.OptimizedCode)
	result.Dispatches++
	if err != nil {
		return result, fmt.Errorf("generating tests for %s: %w", path, err)
	}

	result.State = StateDone
	return result, nil
}

// RunTask applies a single template to the file at path.
func (p *Pipeline) RunTask(ctx context.Context, task, path string) (string, error) {
	template, err := prompt.ForTask(task)
	if err != nil {
		return "", err
	}

	code, err := p.readSource(path)
	if err != nil {
		return "", err
	}

	out, err := p.dispatch(ctx, template, code)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", task, path, err)
	}
	return out, nil
}

func (p *Pipeline) readSource(path string) (string, error) {
	code, err := p.reader.Read(path)
	if err != nil {
		if errors.Is(err, source.ErrFileNotFound) {
			logger.Errorf("Source file not found: %s", path)
			return "", &HaltError{Text: source.NotFoundText}
		}
		return "", err
	}

	if p.opts.HaltOnErrorText && strings.Contains(code, errorMarker) {
		logger.Warnf("Source %s contains %q, stopping before any model call", path, errorMarker)
		return "", &HaltError{Text: code}
	}

	logger.Debugf("Read %d bytes from %s", len(code), path)
	return code, nil
}

func (p *Pipeline) dispatch(ctx context.Context, template, body string) (string, error) {
	resp := p.client.Prompt(ctx, llm.Request{Prompt: prompt.Build(template, body)})
	if resp.Error != nil {
		return "", resp.Error
	}

	if resp.Empty() {
		if p.opts.FailOnEmptyResponse {
			return "", ErrNoResponse
		}
		logger.Warn("Model returned no text, continuing with placeholder")
		return NoResponseText, nil
	}

	return resp.Content, nil
}
