package ci

import (
	"fmt"
	"os"
)

const (
	envBitrise   = "BITRISE_IO"
	envDeployDir = "BITRISE_DEPLOY_DIR"
)

// IsBitrise reports whether the plugin runs inside a Bitrise build
func IsBitrise() bool {
	_, ok := os.LookupEnv(envBitrise)
	return ok
}

// GetDeployDir returns the directory whose files are attached to the build as artifacts
func GetDeployDir() (string, error) {
	dir := os.Getenv(envDeployDir)
	if dir == "" {
		return "", fmt.Errorf("%s environment variable is not set", envDeployDir)
	}
	return dir, nil
}
