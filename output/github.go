package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"github.com/google/go-github/v48/github"
	"golang.org/x/oauth2"
)

// OptionType defines the type of option for the GitHub emitter
type OptionType string

// Available option types
const (
	APITokenOption OptionType = "api_token"
	TimeoutOption  OptionType = "timeout"
	BaseURLOption  OptionType = "base_url"
)

// Option represents a configuration option for the GitHub emitter
type Option struct {
	Type  OptionType
	Value any
}

// WithAPIToken creates an option to set the API token
func WithAPIToken(token string) Option {
	return Option{
		Type:  APITokenOption,
		Value: token,
	}
}

// WithTimeout creates an option to set the API timeout in seconds
func WithTimeout(timeout int) Option {
	return Option{
		Type:  TimeoutOption,
		Value: timeout,
	}
}

// WithBaseURL creates an option to set the base URL for GitHub Enterprise
func WithBaseURL(baseURL string) Option {
	return Option{
		Type:  BaseURLOption,
		Value: baseURL,
	}
}

// GitHub posts the report as a pull request comment, updating its own earlier comment for the same file
type GitHub struct {
	client    *github.Client
	repoOwner string
	repoName  string
	pr        int
	timeout   int
}

var _ Emitter = (*GitHub)(nil)

// NewGitHub creates an emitter for pull request pr of repo ("owner/name")
func NewGitHub(repo string, pr int, opts ...Option) (*GitHub, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/name", repo)
	}
	if pr <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", pr)
	}

	gh := &GitHub{
		repoOwner: owner,
		repoName:  name,
		pr:        pr,
		timeout:   60,
	}

	var apiToken, baseURL string
	for _, opt := range opts {
		switch opt.Type {
		case APITokenOption:
			if token, ok := opt.Value.(string); ok {
				apiToken = token
			}
		case TimeoutOption:
			if timeout, ok := opt.Value.(int); ok && timeout > 0 {
				gh.timeout = timeout
			}
		case BaseURLOption:
			if u, ok := opt.Value.(string); ok {
				baseURL = u
			}
		}
	}

	if apiToken == "" {
		return nil, fmt.Errorf("API token is required for GitHub")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiToken})
	tc := oauth2.NewClient(context.Background(), ts)

	if baseURL == "" {
		gh.client = github.NewClient(tc)
		return gh, nil
	}

	client, err := github.NewEnterpriseClient(baseURL, baseURL, tc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub Enterprise client: %w", err)
	}
	gh.client = client
	return gh, nil
}

// Header identifies the optimizer's comment for a source file
func Header(sourcePath string) string {
	return fmt.Sprintf("## AI Java Optimizer: `%s`", sourcePath)
}

// CommentBody renders the report as markdown
func CommentBody(report Report) string {
	var sb strings.Builder
	sb.WriteString(Header(report.SourcePath))
	sb.WriteString("\n\n### Optimized Java Code\n\n")
	sb.WriteString(report.OptimizedCode)
	sb.WriteString("\n\n### Generated Unit Tests\n\n")
	sb.WriteString(report.TestCases)
	sb.WriteString("\n")
	return sb.String()
}

func (gh *GitHub) Emit(ctx context.Context, report Report) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(gh.timeout)*time.Second)
	defer cancel()

	commentID, err := gh.findComment(ctx, Header(report.SourcePath))
	if err != nil {
		return fmt.Errorf("failed to list existing comments: %w", err)
	}

	body := CommentBody(report)
	comment := &github.IssueComment{
		Body: &body,
	}

	if commentID > 0 {
		if _, _, err := gh.client.Issues.EditComment(ctx, gh.repoOwner, gh.repoName, commentID, comment); err != nil {
			return fmt.Errorf("failed to update existing optimizer comment: %w", err)
		}
		logger.Infof("Updated optimizer comment on %s/%s#%d", gh.repoOwner, gh.repoName, gh.pr)
		return nil
	}

	if _, _, err := gh.client.Issues.CreateComment(ctx, gh.repoOwner, gh.repoName, gh.pr, comment); err != nil {
		return fmt.Errorf("failed to post optimizer comment: %w", err)
	}
	logger.Infof("Posted optimizer comment on %s/%s#%d", gh.repoOwner, gh.repoName, gh.pr)
	return nil
}

func (gh *GitHub) findComment(ctx context.Context, header string) (int64, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := gh.client.Issues.ListComments(ctx, gh.repoOwner, gh.repoName, gh.pr, opts)
		if err != nil {
			return 0, err
		}

		for _, c := range comments {
			if c.Body != nil && strings.HasPrefix(*c.Body, header) {
				return c.GetID(), nil
			}
		}

		if resp == nil || resp.NextPage == 0 {
			return 0, nil
		}
		opts.Page = resp.NextPage
	}
}
