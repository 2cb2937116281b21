package matrix

// Kind tags a job with its kind. The declaration order here is the order
// kinds appear in the assembled matrix.
type Kind string

const (
	KindDocs   Kind = "docs"
	KindClippy Kind = "clippy"
	KindTest   Kind = "test"
	KindGrind  Kind = "grind"
	KindFmt    Kind = "fmt"
	KindHakari Kind = "hakari"
)

// JobInput is the kind-specific parameter record of a job. Exactly one
// variant exists per kind; a Job's kind tag is derived from its input, so
// tag and variant cannot disagree.
type JobInput interface {
	Kind() Kind
}

// DocsInput parameterizes the documentation build.
type DocsInput struct {
	// ArtifactName is the uploaded artifact; empty means the job uploads
	// nothing (the ARM variant only checks the build).
	ArtifactName string `json:"artifact_name,omitempty"`
	DeployDocs   bool   `json:"deploy_docs"`
	PRNumber     *int   `json:"pr_number"`
}

func (DocsInput) Kind() Kind { return KindDocs }

// ClippyInput parameterizes the lint run.
type ClippyInput struct {
	// Powerset runs the exhaustive feature-flag powerset instead of the
	// cheap default-features check.
	Powerset bool `json:"powerset"`
}

func (ClippyInput) Kind() Kind { return KindClippy }

// TestInput parameterizes the test run.
type TestInput struct {
	PRNumber  *int   `json:"pr_number"`
	CommitSHA string `json:"commit_sha"`
}

func (TestInput) Kind() Kind { return KindTest }

// GrindInput parameterizes the memory-checked test run.
type GrindInput struct {
	Target   string `json:"target"`
	Valgrind string `json:"valgrind"`
}

func (GrindInput) Kind() Kind { return KindGrind }

// FmtInput parameterizes the formatting check. It carries no options.
type FmtInput struct{}

func (FmtInput) Kind() Kind { return KindFmt }

// HakariInput parameterizes the workspace dependency-hygiene check.
type HakariInput struct{}

func (HakariInput) Kind() Kind { return KindHakari }
