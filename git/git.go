package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrPathNotInRevision is returned when the requested file does not exist at the given revision
var ErrPathNotInRevision = errors.New("path does not exist in revision")

// Runner defines an interface for running git commands
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// Ensure DefaultRunner implements Runner interface
var _ Runner = (*DefaultRunner)(nil)

// CommandError carries the stderr of a failed command
type CommandError struct {
	Err    error
	Stderr string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("error running command: %s\nstderr: %s", e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// DefaultRunner implements the Runner interface using exec.Command
type DefaultRunner struct {
	RepoPath string
}

// NewDefaultRunner creates a new instance of DefaultRunner
func NewDefaultRunner(repoPath string) *DefaultRunner {
	return &DefaultRunner{
		RepoPath: repoPath,
	}
}

// Run executes a command and returns its untrimmed stdout
func (r *DefaultRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if r.RepoPath != "" {
		cmd.Dir = r.RepoPath
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{Err: err, Stderr: stderr.String()}
	}

	return stdout.String(), nil
}

// Client provides the git operations needed to read sources from history
type Client struct {
	runner Runner
}

// NewClient creates a new Git client
func NewClient(runner Runner) *Client {
	return &Client{
		runner: runner,
	}
}

// GetCurrentCommitHash returns the hash of the current commit
func (c *Client) GetCurrentCommitHash() (string, error) {
	out, err := c.runner.Run("git", "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ResolveRef returns the ref unchanged, or the current commit hash if ref is empty
func (c *Client) ResolveRef(ref string) (string, error) {
	if ref != "" {
		return ref, nil
	}
	return c.GetCurrentCommitHash()
}

// GetTopLevel returns the absolute path of the working tree root
func (c *Client) GetTopLevel() (string, error) {
	out, err := c.runner.Run("git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ShowFile returns the exact content of filePath as of ref.
// Relative paths are resolved from the working directory, like paths on disk.
func (c *Client) ShowFile(ref, filePath string) (string, error) {
	if ref == "" || filePath == "" {
		return "", errors.New("ref and file path cannot be empty")
	}

	revPath, err := c.revisionPath(filePath)
	if err != nil {
		return "", err
	}

	output, err := c.runner.Run("git", "show", fmt.Sprintf("%s:%s", ref, revPath))
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && isMissingPath(cmdErr.Stderr) {
			return "", fmt.Errorf("%s at %s: %w", filePath, ref, ErrPathNotInRevision)
		}
		return "", fmt.Errorf("error reading %s at %s: %w", filePath, ref, err)
	}

	return output, nil
}

// revisionPath converts filePath into the path part of a <rev>:<path> object name.
// git reads "./" prefixed paths relative to the working directory; absolute
// paths are made relative to the working tree root.
func (c *Client) revisionPath(filePath string) (string, error) {
	if !filepath.IsAbs(filePath) {
		return "./" + filepath.ToSlash(filepath.Clean(filePath)), nil
	}

	topLevel, err := c.GetTopLevel()
	if err != nil {
		return "", fmt.Errorf("error finding repository root: %w", err)
	}

	// git reports the root with symlinks resolved
	if resolved, err := filepath.EvalSymlinks(filePath); err == nil {
		filePath = resolved
	}

	rel, err := filepath.Rel(topLevel, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository at %s", filePath, topLevel)
	}
	return filepath.ToSlash(rel), nil
}

func isMissingPath(stderr string) bool {
	return strings.Contains(stderr, "does not exist") ||
		strings.Contains(stderr, "exists on disk, but not in") ||
		strings.Contains(stderr, "exists, but not")
}
