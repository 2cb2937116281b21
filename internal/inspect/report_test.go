package inspect

import (
	"strings"
	"testing"

	"github.com/castframe/matrixgen/internal/matrix"
	"github.com/castframe/matrixgen/internal/trigger"
)

func TestBuildReport(t *testing.T) {
	t.Parallel()

	class, err := trigger.Classify(&trigger.Context{EventName: "push", Ref: "refs/heads/brawl/try/42"}, "brawl")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	policy := matrix.Policy{
		DefaultRunner: "ubuntu-24.04",
		X86Runner:     "ubicloud-standard-8",
		ArmRunner:     "ubicloud-standard-8-arm",
		Toolchain:     "nightly",
		CacheBackend:  "ubicloud",
		FFmpegVersion: "7.1",
	}
	m := matrix.NewGenerator(policy, class, "abc123").Assemble()

	report := BuildReport(class, "abc123", m)

	for _, want := range []string{
		"Mode        : merge_train_try",
		"PR Number   : 42",
		"Commit      : abc123",
		"[docs]",
		"[grind]",
		"[hakari]",
		"Test (Linux arm64)",
		"ffmpeg     : 7.1 (arm64)",
		"target=AARCH64_UNKNOWN_LINUX_GNU",
		"cache=<none>",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestBuildReportNoPR(t *testing.T) {
	t.Parallel()

	class, err := trigger.Classify(&trigger.Context{EventName: "push", Ref: "refs/heads/main"}, "brawl")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	policy := matrix.Policy{
		DefaultRunner: "ubuntu-24.04",
		X86Runner:     "x86",
		ArmRunner:     "arm",
		Toolchain:     "nightly",
		CacheBackend:  "ubicloud",
	}
	m := matrix.NewGenerator(policy, class, "cafe").Assemble()

	report := BuildReport(class, "cafe", m)
	if !strings.Contains(report, "PR Number   : <none>") {
		t.Fatalf("expected placeholder PR number:\n%s", report)
	}
	if strings.Contains(report, "[grind]") {
		t.Fatalf("plain push must not have grind jobs:\n%s", report)
	}
}
