package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReport = Report{
	SourcePath:    "src/Controller.java",
	OptimizedCode: "class C {}",
	TestCases:     "class CTest {}",
}

func TestConsoleEmit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf).Emit(context.Background(), testReport))

	want := "Optimized Java Code:\n class C {}\n\nGenerated Unit Tests:\n class CTest {}\n"
	assert.Equal(t, want, buf.String())
}

func TestConsoleHalt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf).Halt("Error: File not found"))
	assert.Equal(t, "Error: File not found\n", buf.String())
}

type failingEmitter struct{ err error }

func (f failingEmitter) Emit(context.Context, Report) error { return f.err }

func TestEmitAll(t *testing.T) {
	var buf bytes.Buffer
	errA := errors.New("a")

	err := EmitAll(context.Background(), testReport, failingEmitter{err: errA}, NewConsole(&buf))
	require.ErrorIs(t, err, errA)
	assert.Contains(t, buf.String(), "Generated Unit Tests:")

	assert.NoError(t, EmitAll(context.Background(), testReport))
}

func TestDeployDirEmit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deploy")
	require.NoError(t, NewDeployDir(dir).Emit(context.Background(), testReport))

	code, err := os.ReadFile(filepath.Join(dir, OptimizedCodeFile))
	require.NoError(t, err)
	assert.Equal(t, "class C {}", string(code))

	tests, err := os.ReadFile(filepath.Join(dir, GeneratedTestsFile))
	require.NoError(t, err)
	assert.Equal(t, "class CTest {}", string(tests))
}

func TestNewGitHub_Validation(t *testing.T) {
	_, err := NewGitHub("owner-only", 1, WithAPIToken("t"))
	assert.Error(t, err)

	_, err = NewGitHub("o/r", 0, WithAPIToken("t"))
	assert.Error(t, err)

	_, err = NewGitHub("o/r", 1)
	assert.Error(t, err)
}

func TestCommentBody(t *testing.T) {
	body := CommentBody(testReport)
	assert.True(t, strings.HasPrefix(body, Header(testReport.SourcePath)))
	assert.Less(t, strings.Index(body, "class C {}"), strings.Index(body, "class CTest {}"))
}

type fakeGitHub struct {
	existing []map[string]any
	created  []string
	edited   map[string]string
	auth     string
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/o/r/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		f.auth = r.Header.Get("Authorization")
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(f.existing)
		case http.MethodPost:
			var c struct {
				Body string `json:"body"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
			f.created = append(f.created, c.Body)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":100}`))
		default:
			t.Errorf("Unexpected method %s", r.Method)
		}
	})
	mux.HandleFunc("/api/v3/repos/o/r/issues/comments/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var c struct {
			Body string `json:"body"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		f.edited[strings.TrimPrefix(r.URL.Path, "/api/v3/repos/o/r/issues/comments/")] = c.Body
		_, _ = w.Write([]byte(`{"id":42}`))
	})
	return mux
}

func TestGitHubEmit_CreatesComment(t *testing.T) {
	fake := &fakeGitHub{existing: []map[string]any{{"id": 1, "body": "LGTM"}}, edited: map[string]string{}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	gh, err := NewGitHub("o/r", 7, WithAPIToken("secret"), WithBaseURL(server.URL))
	require.NoError(t, err)
	require.NoError(t, gh.Emit(context.Background(), testReport))

	require.Len(t, fake.created, 1)
	assert.Equal(t, CommentBody(testReport), fake.created[0])
	assert.Empty(t, fake.edited)
	assert.Equal(t, "Bearer secret", fake.auth)
}

func TestGitHubEmit_UpdatesOwnComment(t *testing.T) {
	fake := &fakeGitHub{
		existing: []map[string]any{
			{"id": 1, "body": "LGTM"},
			{"id": 42, "body": Header(testReport.SourcePath) + "\n\nold"},
		},
		edited: map[string]string{},
	}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	gh, err := NewGitHub("o/r", 7, WithAPIToken("secret"), WithBaseURL(server.URL))
	require.NoError(t, err)
	require.NoError(t, gh.Emit(context.Background(), testReport))

	assert.Empty(t, fake.created)
	assert.Equal(t, CommentBody(testReport), fake.edited["42"])
}
