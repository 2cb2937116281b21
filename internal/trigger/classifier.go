package trigger

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is the classified trigger mode. Classification is total: exactly one
// mode holds for any context.
type Mode int

const (
	// ModePullRequest is an ordinary pull-request trigger.
	ModePullRequest Mode = iota
	// ModePlainPush is a push to any branch outside the merge train.
	ModePlainPush
	// ModeMergeTrainBare is a push to a merge-train ref with no submode
	// segment (or an unrecognized one).
	ModeMergeTrainBare
	// ModeMergeTrainTry is a push to <prefix>/try/<pr>, the speculative
	// pre-merge validation stage.
	ModeMergeTrainTry
	// ModeMergeTrainMerge is a push to <prefix>/merge, the final
	// fast-forward stage.
	ModeMergeTrainMerge
)

// String returns the mode's wire name.
func (m Mode) String() string {
	switch m {
	case ModePullRequest:
		return "pull_request"
	case ModePlainPush:
		return "push"
	case ModeMergeTrainBare:
		return "merge_train"
	case ModeMergeTrainTry:
		return "merge_train_try"
	case ModeMergeTrainMerge:
		return "merge_train_merge"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MergeTrain reports whether the mode is any merge-train submode.
func (m Mode) MergeTrain() bool {
	switch m {
	case ModeMergeTrainBare, ModeMergeTrainTry, ModeMergeTrainMerge:
		return true
	}
	return false
}

// Classification is the immutable result of classifying one trigger context.
type Classification struct {
	Mode Mode
	// PRNumber is set for ModePullRequest (from the event payload) and
	// ModeMergeTrainTry (parsed from the ref). Nil otherwise.
	PRNumber *int
}

const refHeadsPrefix = "refs/heads/"

// Classify derives the trigger mode from a context. prefix is the merge-train
// branch prefix (e.g. "brawl").
//
// Merge-train matching is anchored on ref segments, never raw prefix
// containment: refs/heads/brawl/tryfoo is a bare merge-train push, not "try".
// A try ref with a non-numeric or missing PR segment is a fatal input error.
func Classify(ctx *Context, prefix string) (*Classification, error) {
	if ctx.EventName == EventPullRequest {
		n := ctx.Event.Number
		return &Classification{Mode: ModePullRequest, PRNumber: &n}, nil
	}
	if ctx.EventName != EventPush {
		return nil, fmt.Errorf("unsupported trigger event %q", ctx.EventName)
	}

	branch, ok := strings.CutPrefix(ctx.Ref, refHeadsPrefix)
	if !ok {
		return &Classification{Mode: ModePlainPush}, nil
	}

	segs := strings.Split(branch, "/")
	if segs[0] != prefix {
		return &Classification{Mode: ModePlainPush}, nil
	}

	// refs/heads/<prefix> or refs/heads/<prefix>/ with nothing after.
	if len(segs) == 1 || (len(segs) == 2 && segs[1] == "") {
		return &Classification{Mode: ModeMergeTrainBare}, nil
	}

	switch segs[1] {
	case "try":
		if len(segs) != 3 {
			return nil, fmt.Errorf("malformed merge-train try ref %q: expected %s%s/try/<pr>", ctx.Ref, refHeadsPrefix, prefix)
		}
		pr, err := strconv.Atoi(segs[2])
		if err != nil {
			return nil, fmt.Errorf("malformed merge-train try ref %q: %q is not a PR number", ctx.Ref, segs[2])
		}
		return &Classification{Mode: ModeMergeTrainTry, PRNumber: &pr}, nil
	case "merge":
		return &Classification{Mode: ModeMergeTrainMerge}, nil
	default:
		// Anything else under the prefix belongs to the train but names
		// no submode.
		return &Classification{Mode: ModeMergeTrainBare}, nil
	}
}
