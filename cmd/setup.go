package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/common"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/config"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/git"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/llm"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/pipeline"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/source"
	"github.com/spf13/cobra"
)

// newLLM is replaced in tests
var newLLM = llm.NewLLM

func parseSettings() (common.Settings, error) {
	settings := common.WithYamlFile()
	if settingsFile != "" {
		var err error
		if settings, err = common.LoadYamlFile(settingsFile); err != nil {
			return settings, err
		}
		logger.Infof("Using settings from YAML file: %s", settingsFile)
	}
	return config.Apply(settings), nil
}

func llmConfig(settings common.Settings) llm.Config {
	return llm.Config{
		Provider:  settings.Model.Provider,
		Model:     settings.Model.Name,
		Project:   settings.Model.Project,
		Region:    settings.Model.Region,
		APIKey:    config.APIKey(settings.Model.Provider),
		BaseURL:   config.BaseURL(),
		MaxTokens: settings.Model.MaxTokens,
		Timeout:   settings.Model.Timeout,
		Retry:     common.RetryConfigFromSettings(settings.Retry),
	}
}

func sourcePath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if path := config.SourceFile(); path != "" {
		return path, nil
	}
	return "", errors.New("no source file given, pass it as an argument or with --file")
}

func sourceReader(cmd *cobra.Command) source.Reader {
	if !cmd.Flags().Changed("ref") {
		return source.FileReader{}
	}
	ref, _ := cmd.Flags().GetString("ref")
	logger.Infof("Reading source at git revision %s", ref)
	return source.NewGitReader(git.NewClient(git.NewDefaultRunner("")), ref)
}

// newPipeline wires the source reader with a model client that is built on the first dispatch
func newPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	settings, err := parseSettings()
	if err != nil {
		return nil, err
	}
	logger.Debugf("Using settings: %+v", settings)

	cfg := llmConfig(settings)
	client := llm.NewLazy(func(ctx context.Context) (llm.LLM, error) {
		c, err := newLLM(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for provider: %w", err)
		}
		return c, nil
	})

	return pipeline.New(sourceReader(cmd), client, pipeline.Options{
		HaltOnErrorText:     settings.Pipeline.HaltOnErrorText,
		FailOnEmptyResponse: settings.Pipeline.FailOnEmptyResponse,
	}), nil
}
