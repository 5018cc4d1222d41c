// Package source loads the Java file handed to the optimizer.
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/git"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
)

// NotFoundText is what the user sees when the source file is missing
const NotFoundText = "Error: File not found"

// ErrFileNotFound is returned when the path is not an existing regular file
var ErrFileNotFound = errors.New(NotFoundText)

// ErrInvalidEncoding is returned for files that are not valid UTF-8
var ErrInvalidEncoding = errors.New("file is not valid UTF-8")

// Reader loads the full text of a source file
type Reader interface {
	Read(path string) (string, error)
}

var (
	_ Reader = FileReader{}
	_ Reader = (*GitReader)(nil)
)

// FileReader reads from the local filesystem
type FileReader struct{}

// Read returns the whole file decoded as UTF-8.
func (FileReader) Read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", ErrFileNotFound
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return decode(path, data)
}

// GitReader reads a file as it was at a given revision
type GitReader struct {
	client *git.Client
	ref    string
}

// NewGitReader creates a reader for ref, an empty ref means the current commit
func NewGitReader(client *git.Client, ref string) *GitReader {
	return &GitReader{client: client, ref: ref}
}

func (r *GitReader) Read(path string) (string, error) {
	ref, err := r.client.ResolveRef(r.ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision: %w", err)
	}

	content, err := r.client.ShowFile(ref, path)
	if err != nil {
		if errors.Is(err, git.ErrPathNotInRevision) {
			return "", ErrFileNotFound
		}
		return "", err
	}

	logger.Debugf("Read %s at revision %s", path, ref)
	return decode(path, []byte(content))
}

func decode(path string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
	}
	return string(data), nil
}
