// Package gitvcs shells out to git for the commit lookups the classifier
// cannot derive from the trigger context.
package gitvcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// commandContext is swapped out in tests to avoid a real git dependency.
var commandContext = exec.CommandContext

// Git resolves commits from a local checkout.
type Git struct {
	// Dir is the repository directory. Empty means the process working
	// directory, which is the checkout root under the CI runner.
	Dir string
}

// Head returns the current HEAD commit hash.
func (g *Git) Head(ctx context.Context) (string, error) {
	cmd := commandContext(ctx, "git", "log", "-n", "1", "--pretty=format:%H")
	if g.Dir != "" {
		cmd.Dir = g.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git log failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("git log failed: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
