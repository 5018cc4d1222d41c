package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
)

const (
	OptimizedCodeFile  = "optimized_code.txt"
	GeneratedTestsFile = "generated_tests.txt"
)

// DeployDir writes each block of the report to its own file, e.g. into $BITRISE_DEPLOY_DIR
type DeployDir struct {
	dir string
}

var _ Emitter = (*DeployDir)(nil)

func NewDeployDir(dir string) *DeployDir {
	return &DeployDir{dir: dir}
}

func (d *DeployDir) Emit(_ context.Context, report Report) error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("failed to create deploy dir: %w", err)
	}

	files := map[string]string{
		OptimizedCodeFile:  report.OptimizedCode,
		GeneratedTestsFile: report.TestCases,
	}
	for name, content := range files {
		path := filepath.Join(d.dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Infof("Exported %s", path)
	}

	return nil
}
