package config

// Config represents the complete matrixgen configuration.
// Every field has a working default; a config file only overrides policy knobs.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	MergeTrain MergeTrainConfig `yaml:"merge_train"`
	Runners    RunnersConfig    `yaml:"runners"`
	Toolchain  ToolchainConfig  `yaml:"toolchain"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg"`
	History    HistoryConfig    `yaml:"history,omitempty"`
	API        APIConfig        `yaml:"api,omitempty"`
}

// ServiceConfig defines core tool settings.
type ServiceConfig struct {
	LogLevel string `yaml:"log_level"`
}

// MergeTrainConfig defines how merge-train refs are recognized.
type MergeTrainConfig struct {
	// Prefix is the branch segment the merge bot pushes under,
	// i.e. refs/heads/<prefix>, refs/heads/<prefix>/try/<pr> and
	// refs/heads/<prefix>/merge.
	Prefix string `yaml:"prefix"`
}

// RunnersConfig names the runner pools jobs are pinned to.
// The values are opaque labels passed through to the workflow engine.
type RunnersConfig struct {
	Default     string `yaml:"default"`
	LinuxX86_64 string `yaml:"linux_x86_64"`
	LinuxArm64  string `yaml:"linux_arm64"`
}

// ToolchainConfig defines the Rust toolchain defaults shared by every job.
type ToolchainConfig struct {
	Channel      string `yaml:"channel"`
	CacheBackend string `yaml:"cache_backend"`
}

// FFmpegConfig pins the FFmpeg build for jobs that link against it.
type FFmpegConfig struct {
	Version string `yaml:"version"`
}

// HistoryConfig defines the optional local run-audit database.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// APIConfig defines the debug HTTP preview server.
type APIConfig struct {
	Listen string `yaml:"listen"`
}

// Defaults returns a Config matching the production CI pipeline.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			LogLevel: "INFO",
		},
		MergeTrain: MergeTrainConfig{
			Prefix: "brawl",
		},
		Runners: RunnersConfig{
			Default:     "ubuntu-24.04",
			LinuxX86_64: "ubicloud-standard-8",
			LinuxArm64:  "ubicloud-standard-8-arm",
		},
		Toolchain: ToolchainConfig{
			Channel:      "nightly",
			CacheBackend: "ubicloud",
		},
		FFmpeg: FFmpegConfig{
			Version: "7.1",
		},
		History: HistoryConfig{
			Path: "matrixgen-history.db",
		},
		API: APIConfig{
			Listen: "127.0.0.1:8787",
		},
	}
}
