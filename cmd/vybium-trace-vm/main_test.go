package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	vybiumtracevm "github.com/vybium/vybium-trace-vm/pkg/vybium-trace-vm"
)

func runJSON(t *testing.T, args ...string) *vybiumtracevm.Result {
	t.Helper()
	return runJSONWithStdin(t, "", args...)
}

func runJSONWithStdin(t *testing.T, stdin string, args ...string) *vybiumtracevm.Result {
	t.Helper()
	var out bytes.Buffer
	if code := run(append(args, "-verbosity", "0"), strings.NewReader(stdin), &out); code != 0 {
		t.Fatalf("run(%v) = %d", args, code)
	}
	var res vybiumtracevm.Result
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("failed to parse output %q: %v", out.String(), err)
	}
	return &res
}

func TestRunFib(t *testing.T) {
	res := runJSON(t, "-example", "fib", "-n", "10", "-workers", "3")
	if res.Outputs[0] != 89 || res.Outputs[1] != 55 {
		t.Errorf("outputs = %v", res.Outputs[:2])
	}
	if len(res.Commitment) == 0 {
		t.Error("missing commitment")
	}

	res = runJSON(t, "-example", "fib", "-n", "1", "-no-commit")
	if res.Outputs[0] != 1 || len(res.Commitment) != 0 {
		t.Errorf("fib(1) result = %+v", res)
	}
}

func TestRunMerkle(t *testing.T) {
	program, inputs, err := merkleProgram(3)
	if err != nil {
		t.Fatal(err)
	}
	vm, err := vybiumtracevm.NewVM(nil)
	if err != nil {
		t.Fatal(err)
	}
	trace, err := vm.Execute(program, inputs)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if trace.Cycles() != 4 {
		t.Errorf("Cycles() = %d, want 4", trace.Cycles())
	}

	res := runJSON(t, "-example", "merkle", "-index", "3")
	if len(res.Outputs) < 14 {
		t.Fatalf("outputs = %v", res.Outputs)
	}

	if _, _, err := merkleProgram(8); err == nil {
		t.Error("merkleProgram(8) accepted an index outside the tree")
	}
}

func TestRunAdvice(t *testing.T) {
	res := runJSON(t, "-example", "advice")
	if res.Outputs[0] != 36 {
		t.Errorf("sum = %d, want 36", res.Outputs[0])
	}

	path := filepath.Join(t.TempDir(), "inputs.json")
	data := []byte(`{"stack_init": [7], "advice_tape": [10, 20, 30]}`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	res = runJSON(t, "-example", "advice", "-inputs", path)
	if res.Outputs[0] != 60 || res.Outputs[1] != 7 {
		t.Errorf("outputs = %v", res.Outputs[:2])
	}

	res = runJSONWithStdin(t, string(data), "-example", "advice", "-inputs", "-")
	if res.Outputs[0] != 60 {
		t.Errorf("stdin sum = %d, want 60", res.Outputs[0])
	}
}

func TestRunFailures(t *testing.T) {
	var out bytes.Buffer
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown example", []string{"-example", "nope"}, 2},
		{"bad flag", []string{"-bogus"}, 2},
		{"cycle limit", []string{"-example", "fib", "-n", "50", "-max-cycles", "40"}, 1},
		{"cycle limit past 32 bits", []string{"-example", "fib", "-max-cycles", "4294967296"}, 2},
		{"missing inputs", []string{"-example", "advice", "-inputs", "/does/not/exist.json"}, 1},
		{"malformed stdin", []string{"-example", "advice", "-inputs", "-"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if got := run(append(tt.args, "-verbosity", "0"), strings.NewReader(""), &out); got != tt.want {
				t.Errorf("run() = %d, want %d", got, tt.want)
			}
		})
	}

	out.Reset()
	if got := run([]string{"-version"}, strings.NewReader(""), &out); got != 0 || !bytes.Contains(out.Bytes(), []byte(version)) {
		t.Errorf("run(-version) = %d, %q", got, out.String())
	}
}
