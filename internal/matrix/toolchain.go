// Package matrix synthesizes the CI job matrix from a classified trigger.
//
// Each job kind has one builder. Builders are pure functions of the
// classification (plus the resolved commit for test jobs); the assembler
// concatenates their output in declaration order so the emitted matrix is
// stable and diffable across runs.
package matrix

import "github.com/castframe/matrixgen/internal/config"

// ToolchainProfile describes the Rust toolchain installation request
// attached to every job. Immutable; one instance per job.
type ToolchainProfile struct {
	Toolchain string `json:"toolchain"`
	// SharedKey keys the cross-run build cache. Empty means the job gets
	// no cache reuse.
	SharedKey    string `json:"shared_key,omitempty"`
	Components   string `json:"components,omitempty"`
	Tools        string `json:"tools,omitempty"`
	CacheBackend string `json:"cache_backend"`
}

// FFmpegDep is the runtime FFmpeg installation request for jobs that
// execute code linked against it. A nil *FFmpegDep on a Job means the job
// does not need FFmpeg at all.
type FFmpegDep struct {
	Version string `json:"version,omitempty"`
	// Arch overrides the package architecture; empty means the runner's
	// native one.
	Arch string `json:"arch,omitempty"`
}

// Policy carries the configurable policy knobs the builders consume.
type Policy struct {
	// DefaultRunner is the CI-provided runner used by the cheap
	// single-job kinds (fmt, hakari).
	DefaultRunner string
	// X86Runner and ArmRunner are the dedicated high-throughput pools.
	X86Runner string
	ArmRunner string

	Toolchain     string
	CacheBackend  string
	FFmpegVersion string
}

// PolicyFromConfig projects the loaded configuration into builder policy.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		DefaultRunner: cfg.Runners.Default,
		X86Runner:     cfg.Runners.LinuxX86_64,
		ArmRunner:     cfg.Runners.LinuxArm64,
		Toolchain:     cfg.Toolchain.Channel,
		CacheBackend:  cfg.Toolchain.CacheBackend,
		FFmpegVersion: cfg.FFmpeg.Version,
	}
}
