package matrix

import (
	"encoding/json"
	"fmt"
	"io"
)

// Job is one entry of the emitted matrix. Constructed once, never mutated.
type Job struct {
	Runner  string
	JobName string
	Rust    ToolchainProfile
	FFmpeg  *FFmpegDep
	Inputs  JobInput
}

// Kind returns the job's kind tag, derived from the active input variant.
func (j Job) Kind() Kind { return j.Inputs.Kind() }

// jobEnvelope is the flat wire shape consumed by the workflow engine.
type jobEnvelope struct {
	Runner  string           `json:"runner"`
	JobName string           `json:"job_name"`
	Rust    ToolchainProfile `json:"rust"`
	FFmpeg  *FFmpegDep       `json:"ffmpeg,omitempty"`
	Inputs  json.RawMessage  `json:"inputs"`
	Kind    Kind             `json:"job"`
}

// MarshalJSON serializes the flat job object with the kind tag under "job".
func (j Job) MarshalJSON() ([]byte, error) {
	if j.Inputs == nil {
		return nil, fmt.Errorf("job %q has no inputs", j.JobName)
	}
	inputs, err := json.Marshal(j.Inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode inputs for job %q: %w", j.JobName, err)
	}
	return json.Marshal(jobEnvelope{
		Runner:  j.Runner,
		JobName: j.JobName,
		Rust:    j.Rust,
		FFmpeg:  j.FFmpeg,
		Inputs:  inputs,
		Kind:    j.Kind(),
	})
}

// UnmarshalJSON decodes a job object, resolving the input variant from the
// kind tag. An unknown tag is an error.
func (j *Job) UnmarshalJSON(data []byte) error {
	var env jobEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to decode job: %w", err)
	}

	inputs, err := decodeInputs(env.Kind, env.Inputs)
	if err != nil {
		return err
	}

	j.Runner = env.Runner
	j.JobName = env.JobName
	j.Rust = env.Rust
	j.FFmpeg = env.FFmpeg
	j.Inputs = inputs
	return nil
}

func decodeInputs(kind Kind, raw json.RawMessage) (JobInput, error) {
	var (
		inputs JobInput
		err    error
	)
	switch kind {
	case KindDocs:
		var in DocsInput
		err = json.Unmarshal(raw, &in)
		inputs = in
	case KindClippy:
		var in ClippyInput
		err = json.Unmarshal(raw, &in)
		inputs = in
	case KindTest:
		var in TestInput
		err = json.Unmarshal(raw, &in)
		inputs = in
	case KindGrind:
		var in GrindInput
		err = json.Unmarshal(raw, &in)
		inputs = in
	case KindFmt:
		var in FmtInput
		err = json.Unmarshal(raw, &in)
		inputs = in
	case KindHakari:
		var in HakariInput
		err = json.Unmarshal(raw, &in)
		inputs = in
	default:
		return nil, fmt.Errorf("unknown job kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s inputs: %w", kind, err)
	}
	return inputs, nil
}

// Matrix is the ordered job list. Order is part of the output contract.
type Matrix []Job

// Encode serializes the matrix to the single matrix=<json> output line,
// without a trailing newline.
func (m Matrix) Encode() (string, error) {
	data, err := json.Marshal([]Job(m))
	if err != nil {
		return "", fmt.Errorf("failed to encode matrix: %w", err)
	}
	return "matrix=" + string(data), nil
}

// Emit writes the encoded matrix line to w. This is the sole external
// side effect of matrix synthesis.
func Emit(w io.Writer, m Matrix) error {
	line, err := m.Encode()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("failed to write matrix: %w", err)
	}
	return nil
}

// Decode parses an encoded matrix line (with or without the matrix= prefix)
// back into a Matrix. Used by the inspect and preview surfaces.
func Decode(data []byte) (Matrix, error) {
	if len(data) > 7 && string(data[:7]) == "matrix=" {
		data = data[7:]
	}
	var m Matrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode matrix: %w", err)
	}
	return m, nil
}
