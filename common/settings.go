package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"gopkg.in/yaml.v3"
)

const (
	ProviderVertexAI  = "vertexai"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// SettingsFileNames are looked up in the working directory, then in its subdirectories
var SettingsFileNames = []string{"optimizer.bitrise.yml", "optimizer.bitrise.yaml"}

type Model struct {
	Provider string `yaml:"provider"`
	// Name is the model identifier, empty selects the provider's default
	Name      string `yaml:"name"`
	Project   string `yaml:"project"`
	Region    string `yaml:"region"`
	MaxTokens int    `yaml:"max_tokens"`
	// Timeout is in seconds, 0 waits for the service indefinitely
	Timeout int `yaml:"timeout"`
}

type Retry struct {
	Max     int `yaml:"max"`
	WaitMin int `yaml:"wait_min"`
	WaitMax int `yaml:"wait_max"`
}

type Pipeline struct {
	HaltOnErrorText     bool `yaml:"halt_on_error_text"`
	FailOnEmptyResponse bool `yaml:"fail_on_empty_response"`
}

type Settings struct {
	Model    Model    `yaml:"model"`
	Retry    Retry    `yaml:"retry"`
	Pipeline Pipeline `yaml:"pipeline"`
}

func WithDefaultSettings() Settings {
	return Settings{
		Model: Model{
			Provider:  ProviderVertexAI,
			MaxTokens: 8192,
		},
		Retry: Retry{
			Max:     0,
			WaitMin: 1,
			WaitMax: 5,
		},
		Pipeline: Pipeline{
			HaltOnErrorText: true,
		},
	}
}

// LoadYamlFile reads settings from filePath on top of the defaults
func LoadYamlFile(filePath string) (Settings, error) {
	settings := WithDefaultSettings()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file %s: %w", filePath, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file %s: %w", filePath, err)
	}

	return settings, nil
}

func WithYamlFile() Settings {
	filePath := findSettingsFile()
	if filePath == "" {
		logger.Infof("No settings file found in the current directory or subdirectories. Using default settings.")
		return WithDefaultSettings()
	}

	settings, err := LoadYamlFile(filePath)
	if err != nil {
		logger.Infof("%v", err)
		return WithDefaultSettings()
	}

	logger.Infof("Using settings from YAML file: %s", filePath)
	return settings
}

func findSettingsFile() string {
	for _, name := range SettingsFileNames {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}

	var filePath string
	_ = filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if filePath != "" {
			return filepath.SkipAll
		}
		if info.IsDir() {
			return nil
		}
		for _, name := range SettingsFileNames {
			if info.Name() == name {
				filePath = path
				return filepath.SkipAll
			}
		}
		return nil
	})

	return filePath
}
