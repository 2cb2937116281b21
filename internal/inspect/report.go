// Package inspect renders human-readable reports of a job matrix.
package inspect

import (
	"fmt"
	"strings"

	"github.com/castframe/matrixgen/internal/matrix"
	"github.com/castframe/matrixgen/internal/trigger"
)

// BuildReport renders a terminal-friendly report of an assembled matrix.
func BuildReport(class *trigger.Classification, commitSHA string, m matrix.Matrix) string {
	var out strings.Builder

	fmt.Fprintf(&out, "Matrix Report\n")
	fmt.Fprintf(&out, "Mode        : %s\n", class.Mode)
	if class.PRNumber != nil {
		fmt.Fprintf(&out, "PR Number   : %d\n", *class.PRNumber)
	} else {
		fmt.Fprintf(&out, "PR Number   : <none>\n")
	}
	fmt.Fprintf(&out, "Commit      : %s\n", commitSHA)
	fmt.Fprintf(&out, "Jobs        : %d\n", len(m))
	fmt.Fprintf(&out, "\n")

	var lastKind matrix.Kind
	for _, job := range m {
		if job.Kind() != lastKind {
			fmt.Fprintf(&out, "[%s]\n", job.Kind())
			lastKind = job.Kind()
		}

		fmt.Fprintf(&out, "  %s\n", job.JobName)
		fmt.Fprintf(&out, "    runner     : %s\n", job.Runner)
		fmt.Fprintf(&out, "    toolchain  : %s\n", describeToolchain(job.Rust))
		if job.FFmpeg != nil {
			fmt.Fprintf(&out, "    ffmpeg     : %s\n", describeFFmpeg(job.FFmpeg))
		}
		if line := describeInputs(job.Inputs); line != "" {
			fmt.Fprintf(&out, "    inputs     : %s\n", line)
		}
	}

	return out.String()
}

func describeToolchain(tc matrix.ToolchainProfile) string {
	parts := []string{tc.Toolchain}
	if tc.Components != "" {
		parts = append(parts, "components="+tc.Components)
	}
	if tc.Tools != "" {
		parts = append(parts, "tools="+tc.Tools)
	}
	if tc.SharedKey != "" {
		parts = append(parts, "cache="+tc.SharedKey)
	} else {
		parts = append(parts, "cache=<none>")
	}
	return strings.Join(parts, " ")
}

func describeFFmpeg(dep *matrix.FFmpegDep) string {
	s := dep.Version
	if s == "" {
		s = "<latest>"
	}
	if dep.Arch != "" {
		s += " (" + dep.Arch + ")"
	}
	return s
}

func describeInputs(in matrix.JobInput) string {
	switch v := in.(type) {
	case matrix.DocsInput:
		parts := []string{fmt.Sprintf("deploy=%t", v.DeployDocs)}
		if v.ArtifactName != "" {
			parts = append(parts, "artifact="+v.ArtifactName)
		}
		if v.PRNumber != nil {
			parts = append(parts, fmt.Sprintf("pr=%d", *v.PRNumber))
		}
		return strings.Join(parts, " ")
	case matrix.ClippyInput:
		return fmt.Sprintf("powerset=%t", v.Powerset)
	case matrix.TestInput:
		parts := []string{"commit=" + v.CommitSHA}
		if v.PRNumber != nil {
			parts = append(parts, fmt.Sprintf("pr=%d", *v.PRNumber))
		}
		return strings.Join(parts, " ")
	case matrix.GrindInput:
		return fmt.Sprintf("target=%s valgrind=%s", v.Target, v.Valgrind)
	default:
		return ""
	}
}
