package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContext(t *testing.T) {
	t.Parallel()

	ctx, err := ParseContext([]byte(`{"event_name":"pull_request","ref":"refs/pull/7/merge","event":{"number":7}}`))
	require.NoError(t, err)
	assert.Equal(t, EventPullRequest, ctx.EventName)
	assert.Equal(t, 7, ctx.Event.Number)

	_, err = ParseContext([]byte(`{"ref":"refs/heads/main"}`))
	assert.Error(t, err, "missing event_name must be rejected")

	_, err = ParseContext([]byte(`{not json`))
	assert.Error(t, err)
}

func TestClassifyModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		eventName string
		ref       string
		number    int
		mode      Mode
		prNumber  *int
		wantErr   bool
	}{
		{name: "pull request", eventName: "pull_request", ref: "refs/pull/7/merge", number: 7, mode: ModePullRequest, prNumber: intPtr(7)},
		{name: "push to main", eventName: "push", ref: "refs/heads/main", mode: ModePlainPush},
		{name: "push to feature branch", eventName: "push", ref: "refs/heads/feature/brawl", mode: ModePlainPush},
		{name: "tag push", eventName: "push", ref: "refs/tags/v1.0.0", mode: ModePlainPush},
		{name: "bare merge train", eventName: "push", ref: "refs/heads/brawl", mode: ModeMergeTrainBare},
		{name: "bare merge train trailing slash", eventName: "push", ref: "refs/heads/brawl/", mode: ModeMergeTrainBare},
		{name: "merge train merge", eventName: "push", ref: "refs/heads/brawl/merge", mode: ModeMergeTrainMerge},
		{name: "merge train try", eventName: "push", ref: "refs/heads/brawl/try/42", mode: ModeMergeTrainTry, prNumber: intPtr(42)},
		// Segment anchoring: neither of these names a submode.
		{name: "tryfoo is not try", eventName: "push", ref: "refs/heads/brawl/tryfoo", mode: ModeMergeTrainBare},
		{name: "mergefoo is not merge", eventName: "push", ref: "refs/heads/brawl/mergefoo", mode: ModeMergeTrainBare},
		{name: "try without number", eventName: "push", ref: "refs/heads/brawl/try", wantErr: true},
		{name: "try with junk number", eventName: "push", ref: "refs/heads/brawl/try/abc", wantErr: true},
		{name: "try with extra segments", eventName: "push", ref: "refs/heads/brawl/try/42/extra", wantErr: true},
		{name: "unknown event", eventName: "schedule", ref: "refs/heads/main", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := &Context{EventName: tt.eventName, Ref: tt.ref, Event: ContextEvent{Number: tt.number}}
			class, err := Classify(ctx, "brawl")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, class.Mode)
			assert.Equal(t, tt.prNumber, class.PRNumber)
		})
	}
}

func TestClassifyCustomPrefix(t *testing.T) {
	t.Parallel()

	ctx := &Context{EventName: EventPush, Ref: "refs/heads/caboose/try/9"}
	class, err := Classify(ctx, "caboose")
	require.NoError(t, err)
	assert.Equal(t, ModeMergeTrainTry, class.Mode)
	require.NotNil(t, class.PRNumber)
	assert.Equal(t, 9, *class.PRNumber)

	// The default prefix is just another branch under a different prefix.
	class, err = Classify(&Context{EventName: EventPush, Ref: "refs/heads/brawl/merge"}, "caboose")
	require.NoError(t, err)
	assert.Equal(t, ModePlainPush, class.Mode)
}

func TestModeHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, ModeMergeTrainBare.MergeTrain())
	assert.True(t, ModeMergeTrainTry.MergeTrain())
	assert.True(t, ModeMergeTrainMerge.MergeTrain())
	assert.False(t, ModePullRequest.MergeTrain())
	assert.False(t, ModePlainPush.MergeTrain())

	assert.Equal(t, "merge_train_try", ModeMergeTrainTry.String())
}

func intPtr(n int) *int { return &n }
