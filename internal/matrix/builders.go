package matrix

import (
	"fmt"

	"github.com/castframe/matrixgen/internal/trigger"
)

// Architecture labels used in job names and cache keys.
const (
	archX86 = "x86_64"
	archArm = "arm64"
)

// Grind target triples, uppercased the way the valgrind harness expects.
const (
	grindTargetX86 = "X86_64_UNKNOWN_LINUX_GNU"
	grindTargetArm = "AARCH64_UNKNOWN_LINUX_GNU"
)

// Generator builds the job matrix for one classified trigger. All methods
// are pure; the same generator always yields the same matrix.
type Generator struct {
	policy Policy
	class  *trigger.Classification
	commit string
}

// NewGenerator creates a Generator. commitSHA is the resolved commit the
// test jobs report coverage against.
func NewGenerator(policy Policy, class *trigger.Classification, commitSHA string) *Generator {
	return &Generator{policy: policy, class: class, commit: commitSHA}
}

func (g *Generator) mergeTrain() bool { return g.class.Mode.MergeTrain() }

func (g *Generator) runner(arch string) string {
	if arch == archArm {
		return g.policy.ArmRunner
	}
	return g.policy.X86Runner
}

// rust builds the toolchain profile for one job variant. sharedKey is
// derived from kind and arch so variants never share caches.
func (g *Generator) rust(kind Kind, arch, components, tools string) ToolchainProfile {
	return ToolchainProfile{
		Toolchain:    g.policy.Toolchain,
		SharedKey:    fmt.Sprintf("%s-linux-%s", kind, arch),
		Components:   components,
		Tools:        tools,
		CacheBackend: g.policy.CacheBackend,
	}
}

// ffmpeg builds the runtime dependency request for jobs that execute
// FFmpeg-linked code. ARM variants carry the explicit arch override.
func (g *Generator) ffmpeg(arch string) *FFmpegDep {
	dep := &FFmpegDep{Version: g.policy.FFmpegVersion}
	if arch == archArm {
		dep.Arch = archArm
	}
	return dep
}

// Docs builds the documentation jobs. Generated docs deploy from every mode
// except the final merge-train stage, where deployment happens after the
// fast-forward instead to avoid a duplicate publish. The ARM variant exists
// only to catch architecture-specific build breakage: it never deploys and
// uploads no artifact.
func (g *Generator) Docs() []Job {
	jobs := []Job{{
		Runner:  g.runner(archX86),
		JobName: fmt.Sprintf("Docs (Linux %s)", archX86),
		Rust:    g.rust(KindDocs, archX86, "rust-docs", ""),
		Inputs: DocsInput{
			ArtifactName: "docs",
			DeployDocs:   g.class.Mode != trigger.ModeMergeTrainMerge,
			PRNumber:     g.class.PRNumber,
		},
	}}

	if g.mergeTrain() {
		jobs = append(jobs, Job{
			Runner:  g.runner(archArm),
			JobName: fmt.Sprintf("Docs (Linux %s)", archArm),
			Rust:    g.rust(KindDocs, archArm, "rust-docs", ""),
			Inputs: DocsInput{
				DeployDocs: false,
				PRNumber:   g.class.PRNumber,
			},
		})
	}

	return jobs
}

// Clippy builds the lint jobs. The feature-flag powerset is expensive, so
// the primary job only runs it on the merge train; PR and plain-push CI get
// the default-features check. The ARM variant always runs the powerset.
func (g *Generator) Clippy() []Job {
	const tools = "cargo-nextest,cargo-llvm-cov"

	jobs := []Job{{
		Runner:  g.runner(archX86),
		JobName: fmt.Sprintf("Clippy (Linux %s)", archX86),
		Rust:    g.rust(KindClippy, archX86, "rust-clippy", tools),
		Inputs:  ClippyInput{Powerset: g.mergeTrain()},
	}}

	if g.mergeTrain() {
		jobs = append(jobs, Job{
			Runner:  g.runner(archArm),
			JobName: fmt.Sprintf("Clippy (Linux %s)", archArm),
			Rust:    g.rust(KindClippy, archArm, "rust-clippy", tools),
			Inputs:  ClippyInput{Powerset: true},
		})
	}

	return jobs
}

// Test builds the test jobs. Policy is identical for both architectures:
// every variant carries the PR number and resolved commit for coverage
// reporting, and the FFmpeg runtime the integration tests link against.
func (g *Generator) Test() []Job {
	const tools = "cargo-nextest,cargo-llvm-cov"

	jobs := []Job{{
		Runner:  g.runner(archX86),
		JobName: fmt.Sprintf("Test (Linux %s)", archX86),
		Rust:    g.rust(KindTest, archX86, "llvm-tools-preview", tools),
		FFmpeg:  g.ffmpeg(archX86),
		Inputs:  TestInput{PRNumber: g.class.PRNumber, CommitSHA: g.commit},
	}}

	if g.mergeTrain() {
		jobs = append(jobs, Job{
			Runner:  g.runner(archArm),
			JobName: fmt.Sprintf("Test (Linux %s)", archArm),
			Rust:    g.rust(KindTest, archArm, "llvm-tools-preview", tools),
			FFmpeg:  g.ffmpeg(archArm),
			Inputs:  TestInput{PRNumber: g.class.PRNumber, CommitSHA: g.commit},
		})
	}

	return jobs
}

// Grind builds the memory-checked test jobs. Valgrind runs are too slow for
// ordinary PR CI, so they exist only on the merge train, where both
// architectures run.
func (g *Generator) Grind() []Job {
	if !g.mergeTrain() {
		return nil
	}

	return []Job{
		{
			Runner:  g.runner(archX86),
			JobName: fmt.Sprintf("Grind (Linux %s)", archX86),
			Rust:    g.rust(KindGrind, archX86, "rust-valgrind", ""),
			FFmpeg:  g.ffmpeg(archX86),
			Inputs:  GrindInput{Target: grindTargetX86, Valgrind: "valgrind"},
		},
		{
			Runner:  g.runner(archArm),
			JobName: fmt.Sprintf("Grind (Linux %s)", archArm),
			Rust:    g.rust(KindGrind, archArm, "rust-valgrind", ""),
			FFmpeg:  g.ffmpeg(archArm),
			Inputs:  GrindInput{Target: grindTargetArm, Valgrind: "valgrind"},
		},
	}
}

// Fmt builds the formatting check: one job, default runner, every mode.
// Nothing worth caching, so the profile carries no shared key.
func (g *Generator) Fmt() []Job {
	return []Job{{
		Runner:  g.policy.DefaultRunner,
		JobName: "Fmt",
		Rust: ToolchainProfile{
			Toolchain:    g.policy.Toolchain,
			Components:   "rustfmt",
			CacheBackend: g.policy.CacheBackend,
		},
		Inputs: FmtInput{},
	}}
}

// Hakari builds the workspace dependency-hygiene check: one job, default
// runner, every mode.
func (g *Generator) Hakari() []Job {
	return []Job{{
		Runner:  g.policy.DefaultRunner,
		JobName: "Hakari",
		Rust: ToolchainProfile{
			Toolchain:    g.policy.Toolchain,
			Tools:        "cargo-hakari",
			CacheBackend: g.policy.CacheBackend,
		},
		Inputs: HakariInput{},
	}}
}

// Assemble concatenates the builders in fixed kind order: docs, clippy,
// test, grind, fmt, hakari; within a kind, x86 before arm.
func (g *Generator) Assemble() Matrix {
	var m Matrix
	m = append(m, g.Docs()...)
	m = append(m, g.Clippy()...)
	m = append(m, g.Test()...)
	m = append(m, g.Grind()...)
	m = append(m, g.Fmt()...)
	m = append(m, g.Hakari()...)
	return m
}
