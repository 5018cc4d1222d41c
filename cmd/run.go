package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/ci"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/config"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/output"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/pipeline"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Optimize a Java file and generate unit tests for the result",
	Long: `Send the Java file to the model with the optimization prompt, then send the optimized code back
with the test generation prompt, and print both results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Starting AI Java Optimizer 🤖")

		path, err := sourcePath(args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt)
		defer stop()

		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}

		emitters, err := outputEmitters(cmd)
		if err != nil {
			return err
		}

		console := output.NewConsole(cmd.OutOrStdout())

		result, err := p.Run(ctx, path)
		var halt *pipeline.HaltError
		if errors.As(err, &halt) {
			return console.Halt(halt.Text)
		}
		if err != nil {
			return err
		}
		logger.Infof("Pipeline finished with %d model calls", result.Dispatches)

		report := output.Report{
			SourcePath:    path,
			OptimizedCode: result.OptimizedCode,
			TestCases:     result.TestCases,
		}
		return output.EmitAll(ctx, report, append([]output.Emitter{console}, emitters...)...)
	},
}

func outputEmitters(cmd *cobra.Command) ([]output.Emitter, error) {
	var emitters []output.Emitter

	repo, _ := cmd.Flags().GetString("github-repo")
	pr, _ := cmd.Flags().GetInt("github-pr")
	if repo != "" || pr != 0 {
		gh, err := output.NewGitHub(repo, pr,
			output.WithAPIToken(config.GitHubToken()),
			output.WithBaseURL(config.GitHubBaseURL()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to set up GitHub output: %w", err)
		}
		emitters = append(emitters, gh)
	}

	deployDir, _ := cmd.Flags().GetString("deploy-dir")
	if deployDir == "" && ci.IsBitrise() {
		if dir, err := ci.GetDeployDir(); err == nil {
			deployDir = dir
		}
	}
	if deployDir != "" {
		emitters = append(emitters, output.NewDeployDir(deployDir))
	}

	return emitters, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Output
	runCmd.Flags().String("github-repo", "", "Post the results as a comment on a pull request of this repository (owner/name)")
	runCmd.Flags().Int("github-pr", 0, "Pull request number to comment on")
	runCmd.Flags().String(config.KeyGitHubBaseURL, "", "GitHub Enterprise base URL")
	runCmd.Flags().String("deploy-dir", "", "Write the results into this directory (default: $BITRISE_DEPLOY_DIR on Bitrise)")
	config.BindFlags(runCmd)
}

// contextOrBackground is used when a command runs without cobra's ExecuteContext
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
