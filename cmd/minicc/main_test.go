package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, src string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "prog.c")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func readOut(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRunWritesBothModules(t *testing.T) {
	dir, path := writeSource(t, "int main() { return 2 + 3 * 4; }\n")
	out := filepath.Join(dir, "out")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-o", out, path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	raw := readOut(t, out, unoptimizedName)
	if !strings.Contains(raw, "mul i32 3, 4") {
		t.Fatalf("unoptimized module:\n%s", raw)
	}
	folded := readOut(t, out, optimizedName)
	if !strings.Contains(folded, "ret i32 14") {
		t.Fatalf("optimized module:\n%s", folded)
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
}

func TestRunPrint(t *testing.T) {
	dir, path := writeSource(t, "int one() { return 1; }\n")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-S", "-o", dir, path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "define i32 @one()") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRunReportsSemanticErrors(t *testing.T) {
	dir, path := writeSource(t, "int f() { return y; }\nint g() { return 1; }\n")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-o", dir, path}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stderr.String(), "unresolved name") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	// The partial module is still written.
	if !strings.Contains(readOut(t, dir, unoptimizedName), "define i32 @g()") {
		t.Fatal("g missing from partial module")
	}
}

func TestRunDivisionByZero(t *testing.T) {
	dir, path := writeSource(t, "int f() { return 1 / 0; }\n")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-o", dir, path}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stderr.String(), "constant division by zero") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args []string
		ok   bool
		want options
	}{
		{[]string{"a.c"}, true, options{outDir: ".", srcPath: "a.c"}},
		{[]string{"-S", "a.c", "-o", "build"}, true, options{outDir: "build", srcPath: "a.c", print: true}},
		{[]string{}, false, options{}},
		{[]string{"-o"}, false, options{}},
		{[]string{"-x", "a.c"}, false, options{}},
		{[]string{"a.c", "b.c"}, false, options{}},
	}
	for _, tt := range tests {
		got, err := parseArgs(tt.args)
		if (err == nil) != tt.ok {
			t.Errorf("%v: err = %v", tt.args, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("%v: got %+v, want %+v", tt.args, got, tt.want)
		}
	}
}
