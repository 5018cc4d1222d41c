package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/llm"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/output"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/prompt"
)

type echoLLM struct {
	calls int
}

func (e *echoLLM) Prompt(_ context.Context, req llm.Request) llm.Response {
	e.calls++
	return llm.Response{Content: req.Prompt}
}

func execute(t *testing.T, args ...string) (string, *echoLLM, error) {
	t.Helper()

	stub := &echoLLM{}
	orig := newLLM
	newLLM = func(context.Context, llm.Config) (llm.LLM, error) { return stub, nil }
	t.Cleanup(func() { newLLM = orig })

	out, err := executeCommand(t, args...)
	return out, stub, err
}

// executeCommand runs the root command with the real client factory
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BITRISE_DEPLOY_DIR", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// withoutCredentials leaves the default vertexai provider without project and region
func withoutCredentials(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION",
		"OPTIMIZER_PROVIDER", "OPTIMIZER_PROJECT", "OPTIMIZER_REGION",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestRun_FileNotFound(t *testing.T) {
	out, stub, err := execute(t, "run", filepath.Join(t.TempDir(), "Missing.java"))
	require.NoError(t, err)
	assert.Equal(t, "Error: File not found\n", out)
	assert.Zero(t, stub.calls)
}

func TestRun_FileNotFoundWithoutCredentials(t *testing.T) {
	withoutCredentials(t)

	out, err := executeCommand(t, "run", filepath.Join(t.TempDir(), "Missing.java"))
	require.NoError(t, err)
	assert.Equal(t, "Error: File not found\n", out)
}

func TestOptimizeCommand_FileNotFoundWithoutCredentials(t *testing.T) {
	withoutCredentials(t)

	out, err := executeCommand(t, "optimize", filepath.Join(t.TempDir(), "Missing.java"))
	require.NoError(t, err)
	assert.Equal(t, "Error: File not found\n", out)
}

func TestRun_ClientErrorOnFirstDispatch(t *testing.T) {
	withoutCredentials(t)
	path := filepath.Join(t.TempDir(), "C.java")
	require.NoError(t, os.WriteFile(path, []byte("class C {}"), 0644))

	out, err := executeCommand(t, "run", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create client for provider")
	assert.Empty(t, out)
}

func TestRun_EchoModel(t *testing.T) {
	code := "@RestController public class C {}"
	path := filepath.Join(t.TempDir(), "C.java")
	require.NoError(t, os.WriteFile(path, []byte(code), 0644))

	deployDir := t.TempDir()
	out, stub, err := execute(t, "run", path, "--deploy-dir", deployDir)
	require.NoError(t, err)

	optimized := prompt.Optimize + "\n\n" + code
	tests := prompt.GenerateTests + "\n\n" + optimized
	assert.Equal(t, "Optimized Java Code:\n "+optimized+"\n\nGenerated Unit Tests:\n "+tests+"\n", out)
	assert.Equal(t, 2, stub.calls)

	exported, err := os.ReadFile(filepath.Join(deployDir, output.OptimizedCodeFile))
	require.NoError(t, err)
	assert.Equal(t, optimized, string(exported))
}

func TestOptimizeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "C.java")
	require.NoError(t, os.WriteFile(path, []byte("class C {}"), 0644))

	out, stub, err := execute(t, "optimize", path)
	require.NoError(t, err)
	assert.Equal(t, "Optimized Java Code:\n "+prompt.Optimize+"\n\nclass C {}\n", out)
	assert.Equal(t, 1, stub.calls)
}

func TestRun_MissingArgument(t *testing.T) {
	t.Setenv("OPTIMIZER_FILE", "")
	_, stub, err := execute(t, "run")
	assert.Error(t, err)
	assert.Zero(t, stub.calls)
}
