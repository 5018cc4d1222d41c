package cmd

import (
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/common"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/config"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"github.com/spf13/cobra"
)

var (
	// Command line flags
	logLevel     string
	settingsFile string
)

var rootCmd = &cobra.Command{
	Use:   "ai-optimizer",
	Short: "Bitrise AI Optimizer - optimize Java Spring Boot code and generate unit tests using AI",
	Long: `Bitrise AI Optimizer is a CLI plugin for the Bitrise CLI that sends a Java Spring Boot source file to a
hosted language model, prints an optimized version of the code and generates JUnit 5 tests for it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logLevel)
		logger.Debugf("Log level set to: %s", logLevel)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command and handles errors
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(func() {
		config.Init(rootCmd)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "info",
		"Set the logging level (debug, info, warn, error, dpanic, panic, fatal)")
	flags.StringVar(&settingsFile, "config", "",
		"Settings file to use (default: optimizer.bitrise.yml in the working directory or below)")

	// LLM
	flags.StringP(config.KeyProvider, "p", common.ProviderVertexAI, "LLM provider (vertexai, gemini, openai, anthropic)")
	flags.StringP(config.KeyModel, "m", "", "LLM model identifier")
	flags.String(config.KeyProject, "", "Google Cloud project for Vertex AI (env: GOOGLE_CLOUD_PROJECT)")
	flags.String(config.KeyRegion, "", "Google Cloud region for Vertex AI (env: GOOGLE_CLOUD_LOCATION)")
	flags.String(config.KeyBaseURL, "", "Override the provider API endpoint")
	flags.Int(config.KeyTimeout, 0, "Per request timeout in seconds, 0 waits indefinitely")
	flags.Int(config.KeyMaxTokens, 0, "Maximum number of tokens to generate")
	flags.Int(config.KeyRetryMax, 0, "HTTP retries for the openai and anthropic providers")

	// Pipeline
	flags.Bool(config.KeyHaltOnErrorText, true, `Stop without calling the model when the source contains "Error"`)
	flags.Bool(config.KeyFailOnEmptyResponse, false, "Fail instead of continuing when the model returns no text")

	// Source
	flags.StringP(config.KeyFile, "f", "", "Java source file (env: OPTIMIZER_FILE)")
	flags.String("ref", "", "Read the source file at this git revision instead of the working tree")
	flags.Lookup("ref").NoOptDefVal = "HEAD"
}
