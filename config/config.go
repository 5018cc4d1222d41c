// Package config layers environment variables, a .env file and command line flags over the settings file.
package config

import (
	"os"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "OPTIMIZER"

// DotEnvFile is loaded on Init if present; it never overrides variables already set
var DotEnvFile = ".env"

func Init(root *cobra.Command) {
	_ = godotenv.Load(DotEnvFile)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Well-known variables of the model services and GitHub
	_ = viper.BindEnv(KeyProject, envPrefix+"_PROJECT", "GOOGLE_CLOUD_PROJECT")
	_ = viper.BindEnv(KeyRegion, envPrefix+"_REGION", "GOOGLE_CLOUD_LOCATION")
	_ = viper.BindEnv(KeyAPIKey, envPrefix+"_API_KEY", "LLM_API_KEY")
	_ = viper.BindEnv(KeyGitHubToken, envPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN")

	_ = viper.BindPFlags(root.PersistentFlags())
}

// BindFlags exposes a subcommand's local flags through viper
func BindFlags(cmd *cobra.Command) {
	_ = viper.BindPFlags(cmd.Flags())
}

// Apply overrides settings with every key set through the environment or an explicit flag
func Apply(s common.Settings) common.Settings {
	if viper.IsSet(KeyProvider) {
		s.Model.Provider = viper.GetString(KeyProvider)
	}
	if viper.IsSet(KeyModel) {
		s.Model.Name = viper.GetString(KeyModel)
	}
	if viper.IsSet(KeyProject) {
		s.Model.Project = viper.GetString(KeyProject)
	}
	if viper.IsSet(KeyRegion) {
		s.Model.Region = viper.GetString(KeyRegion)
	}
	if viper.IsSet(KeyTimeout) {
		s.Model.Timeout = viper.GetInt(KeyTimeout)
	}
	if viper.IsSet(KeyMaxTokens) {
		s.Model.MaxTokens = viper.GetInt(KeyMaxTokens)
	}
	if viper.IsSet(KeyRetryMax) {
		s.Retry.Max = viper.GetInt(KeyRetryMax)
	}
	if viper.IsSet(KeyHaltOnErrorText) {
		s.Pipeline.HaltOnErrorText = viper.GetBool(KeyHaltOnErrorText)
	}
	if viper.IsSet(KeyFailOnEmptyResponse) {
		s.Pipeline.FailOnEmptyResponse = viper.GetBool(KeyFailOnEmptyResponse)
	}
	return s
}

// APIKey returns the configured key, falling back to the provider's own variable
func APIKey(provider string) string {
	if key := viper.GetString(KeyAPIKey); key != "" {
		return key
	}

	switch provider {
	case common.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case common.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case common.ProviderGemini:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	}
	return ""
}

func SourceFile() string    { return viper.GetString(KeyFile) }
func BaseURL() string       { return viper.GetString(KeyBaseURL) }
func GitHubToken() string   { return viper.GetString(KeyGitHubToken) }
func GitHubBaseURL() string { return viper.GetString(KeyGitHubBaseURL) }
