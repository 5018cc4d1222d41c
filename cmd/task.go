package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/output"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/pipeline"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/prompt"
	"github.com/spf13/cobra"
)

// newTaskCmd builds a command that runs a single prompt template against a file
func newTaskCmd(task, heading, short string) *cobra.Command {
	return &cobra.Command{
		Use:   task + " [file]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			console := output.NewConsole(cmd.OutOrStdout())

			logger.Infof("Running %s on %s", task, path)
			out, err := p.RunTask(ctx, task, path)
			var halt *pipeline.HaltError
			if errors.As(err, &halt) {
				return console.Halt(halt.Text)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), heading+":\n", out)
			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(newTaskCmd(prompt.TaskOptimize, "Optimized Java Code",
		"Optimize a Java Spring Boot file using AI"))
	rootCmd.AddCommand(newTaskCmd(prompt.TaskGenerateTests, "Generated Unit Tests",
		"Generate JUnit tests for a Java Spring Boot file using AI"))
}
