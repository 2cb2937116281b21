package trigger

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castframe/matrixgen/internal/trigger/mocks"
)

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestResolveCommitFromEnv(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	head := mocks.NewMockHeadResolver(ctrl)
	// The resolver must not be consulted outside try mode.

	for _, mode := range []Mode{ModePullRequest, ModePlainPush, ModeMergeTrainBare, ModeMergeTrainMerge} {
		sha, err := ResolveCommit(context.Background(), &Classification{Mode: mode},
			fakeEnv(map[string]string{"SHA": "deadbeef"}), head)
		require.NoError(t, err, "mode %v", mode)
		assert.Equal(t, "deadbeef", sha)
	}
}

func TestResolveCommitMissingEnvIsFatal(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	head := mocks.NewMockHeadResolver(ctrl)

	_, err := ResolveCommit(context.Background(), &Classification{Mode: ModePlainPush}, fakeEnv(nil), head)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHA")
}

func TestResolveCommitTryUsesHeadLookup(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	head := mocks.NewMockHeadResolver(ctrl)
	head.EXPECT().Head(gomock.Any()).Return("  abc123\n", nil).Times(1)

	// Env is deliberately empty: try mode never reads SHA.
	sha, err := ResolveCommit(context.Background(), &Classification{Mode: ModeMergeTrainTry}, fakeEnv(nil), head)
	require.NoError(t, err)
	assert.Equal(t, "abc123", sha, "hash must be trimmed")
}

func TestResolveCommitTryLookupFailure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	head := mocks.NewMockHeadResolver(ctrl)
	head.EXPECT().Head(gomock.Any()).Return("", errors.New("git exploded"))

	_, err := ResolveCommit(context.Background(), &Classification{Mode: ModeMergeTrainTry}, fakeEnv(nil), head)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git exploded")
}

func TestResolveCommitTryEmptyLookupIsFatal(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	head := mocks.NewMockHeadResolver(ctrl)
	head.EXPECT().Head(gomock.Any()).Return("   \n", nil)

	_, err := ResolveCommit(context.Background(), &Classification{Mode: ModeMergeTrainTry}, fakeEnv(nil), head)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty HEAD")
}
