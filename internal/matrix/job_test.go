package matrix

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/castframe/matrixgen/internal/trigger"
)

func mergeTrainMatrix(t *testing.T) Matrix {
	t.Helper()
	class, err := trigger.Classify(&trigger.Context{EventName: "push", Ref: "refs/heads/brawl/try/42"}, "brawl")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	return NewGenerator(testPolicy(), class, "abc123").Assemble()
}

func TestEmitWritesSingleLine(t *testing.T) {
	t.Parallel()

	m := mergeTrainMatrix(t)

	var buf bytes.Buffer
	if err := Emit(&buf, m); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "matrix=[") {
		t.Fatalf("expected matrix= prefix, got %q", out[:20])
	}
	if strings.Count(out, "\n") != 1 || !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected exactly one terminated line")
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	t.Parallel()

	m := mergeTrainMatrix(t)

	line, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode([]byte(line))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(decoded) != len(m) {
		t.Fatalf("length changed: %d != %d", len(decoded), len(m))
	}
	for i := range m {
		if !reflect.DeepEqual(m[i], decoded[i]) {
			t.Fatalf("job %d changed across round trip:\n  in:  %#v\n  out: %#v", i, m[i], decoded[i])
		}
	}
}

func TestJobWireShape(t *testing.T) {
	t.Parallel()

	m := mergeTrainMatrix(t)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	for i, obj := range raw {
		for _, field := range []string{"runner", "job_name", "rust", "inputs", "job"} {
			if _, ok := obj[field]; !ok {
				t.Fatalf("job %d missing field %q", i, field)
			}
		}
	}

	// The kind tag must agree with the inputs variant it came from.
	var tag string
	if err := json.Unmarshal(raw[0]["job"], &tag); err != nil {
		t.Fatalf("decode tag: %v", err)
	}
	if Kind(tag) != m[0].Kind() {
		t.Fatalf("tag %q disagrees with kind %q", tag, m[0].Kind())
	}
}

func TestJobFFmpegOmittedWhenAbsent(t *testing.T) {
	t.Parallel()

	m := mergeTrainMatrix(t)

	for _, j := range m {
		data, err := json.Marshal(j)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		hasField := strings.Contains(string(data), `"ffmpeg"`)
		if j.FFmpeg == nil && hasField {
			t.Fatalf("job %q serialized a nil ffmpeg dep: %s", j.JobName, data)
		}
		if j.FFmpeg != nil && !hasField {
			t.Fatalf("job %q lost its ffmpeg dep: %s", j.JobName, data)
		}
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`[{"runner":"r","job_name":"n","rust":{"toolchain":"nightly","cache_backend":"ubicloud"},"inputs":{},"job":"mystery"}]`))
	if err == nil || !strings.Contains(err.Error(), "unknown job kind") {
		t.Fatalf("expected unknown-kind error, got %v", err)
	}
}

func TestDecodeStripsPrefix(t *testing.T) {
	t.Parallel()

	m, err := Decode([]byte(`[]`))
	if err != nil || len(m) != 0 {
		t.Fatalf("bare array: %v %v", m, err)
	}

	m, err = Decode([]byte(`matrix=[]`))
	if err != nil || len(m) != 0 {
		t.Fatalf("prefixed array: %v %v", m, err)
	}
}
