package config

const (
	KeyFile                = "file"
	KeyProvider            = "provider"
	KeyModel               = "model"
	KeyProject             = "project"
	KeyRegion              = "region"
	KeyAPIKey              = "api-key"
	KeyBaseURL             = "base-url"
	KeyTimeout             = "timeout"
	KeyMaxTokens           = "max-tokens"
	KeyRetryMax            = "retry-max"
	KeyHaltOnErrorText     = "halt-on-error-text"
	KeyFailOnEmptyResponse = "fail-on-empty-response"
	KeyGitHubToken         = "github-token"
	KeyGitHubBaseURL       = "github-base-url"
)
