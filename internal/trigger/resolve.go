package trigger

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks github.com/castframe/matrixgen/internal/trigger HeadResolver

// HeadResolver looks up the current HEAD commit hash from version control.
type HeadResolver interface {
	Head(ctx context.Context) (string, error)
}

// CommitEnvVar is the environment variable the workflow engine sets to the
// triggering commit hash.
const CommitEnvVar = "SHA"

// ResolveCommit returns the commit hash the test jobs report against.
//
// Merge-train try pushes run on a synthetic branch whose HEAD is the
// speculative merge commit, so the hash comes from version control. Every
// other mode takes the hash from the environment, whose absence is fatal.
// The resolver is invoked at most once per run.
func ResolveCommit(ctx context.Context, class *Classification, getenv func(string) string, head HeadResolver) (string, error) {
	if class.Mode == ModeMergeTrainTry {
		sha, err := head.Head(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to resolve HEAD commit: %w", err)
		}
		sha = strings.TrimSpace(sha)
		if sha == "" {
			return "", fmt.Errorf("version control returned an empty HEAD commit")
		}
		return sha, nil
	}

	sha := getenv(CommitEnvVar)
	if sha == "" {
		return "", fmt.Errorf("required environment variable %s is not set", CommitEnvVar)
	}
	return sha, nil
}
