package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/common"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "test"}
	root.PersistentFlags().String(KeyProvider, common.ProviderVertexAI, "")
	root.PersistentFlags().String(KeyModel, "", "")
	root.PersistentFlags().Int(KeyTimeout, 0, "")
	root.PersistentFlags().Bool(KeyHaltOnErrorText, true, "")
	return root
}

func setup(t *testing.T) *cobra.Command {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	DotEnvFile = filepath.Join(t.TempDir(), ".env")
	for _, env := range []string{"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "LLM_API_KEY", "OPTIMIZER_PROVIDER", "OPTIMIZER_MODEL"} {
		t.Setenv(env, "")
	}
	return newRoot()
}

func TestApply_DefaultsUntouched(t *testing.T) {
	root := setup(t)
	Init(root)

	settings := common.WithDefaultSettings()
	assert.Equal(t, settings, Apply(settings))
}

func TestApply_EnvOverrides(t *testing.T) {
	root := setup(t)
	t.Setenv("OPTIMIZER_MODEL", "gemini-2.5-pro")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "my-project")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "europe-west4")
	t.Setenv("OPTIMIZER_RETRY_MAX", "2")
	Init(root)

	settings := Apply(common.WithDefaultSettings())
	assert.Equal(t, "gemini-2.5-pro", settings.Model.Name)
	assert.Equal(t, "my-project", settings.Model.Project)
	assert.Equal(t, "europe-west4", settings.Model.Region)
	assert.Equal(t, 2, settings.Retry.Max)
}

func TestApply_FlagsOverrideEnv(t *testing.T) {
	root := setup(t)
	t.Setenv("OPTIMIZER_TIMEOUT", "10")
	require.NoError(t, root.PersistentFlags().Set(KeyTimeout, "30"))
	require.NoError(t, root.PersistentFlags().Set(KeyHaltOnErrorText, "false"))
	Init(root)

	settings := Apply(common.WithDefaultSettings())
	assert.Equal(t, 30, settings.Model.Timeout)
	assert.False(t, settings.Pipeline.HaltOnErrorText)
}

func TestInit_LoadsDotEnv(t *testing.T) {
	root := setup(t)
	require.NoError(t, os.WriteFile(DotEnvFile, []byte("OPTIMIZER_PROVIDER=openai\n"), 0644))
	require.NoError(t, os.Unsetenv("OPTIMIZER_PROVIDER"))
	Init(root)

	settings := Apply(common.WithDefaultSettings())
	assert.Equal(t, common.ProviderOpenAI, settings.Model.Provider)
}

func TestAPIKey(t *testing.T) {
	setup(t)
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPTIMIZER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	Init(newRoot())

	assert.Equal(t, "sk-openai", APIKey(common.ProviderOpenAI))
	assert.Equal(t, "g-key", APIKey(common.ProviderGemini))

	t.Setenv("LLM_API_KEY", "shared")
	assert.Equal(t, "shared", APIKey(common.ProviderAnthropic))
}
