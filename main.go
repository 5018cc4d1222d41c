package main

import (
	"os"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/cmd"
	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
)

func main() {
	err := cmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
