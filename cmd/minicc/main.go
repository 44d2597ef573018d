package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/llir/llvm/ir"

	"github.com/tinyrange/minicc/internal/ast"
	"github.com/tinyrange/minicc/internal/irgen"
	"github.com/tinyrange/minicc/internal/opt"
	"github.com/tinyrange/minicc/internal/parser"
)

const (
	unoptimizedName = "unoptimized_ir.ll"
	optimizedName   = "optimized_ir.ll"
)

type options struct {
	outDir  string
	srcPath string
	print   bool
}

func parseArgs(args []string) (options, error) {
	o := options{outDir: "."}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-o":
			if i+1 >= len(args) {
				return o, errors.New("-o needs a directory")
			}
			o.outDir = args[i+1]
			i++
		case a == "-S":
			o.print = true
		case len(a) > 0 && a[0] == '-':
			return o, fmt.Errorf("unknown flag %s", a)
		case o.srcPath == "":
			o.srcPath = a
		default:
			return o, fmt.Errorf("unexpected argument %s", a)
		}
	}
	if o.srcPath == "" {
		return o, errors.New("no input file")
	}
	return o, nil
}

// lower builds f and writes the module text to path. Semantic errors are
// reported but the partial module is still written.
func lower(f *ast.File, path string, stdout, stderr io.Writer, echo bool) bool {
	m, err := irgen.Build(f.Root,
		irgen.WithModuleName(filepath.Base(f.Name)),
		irgen.WithDiagnostics(stderr),
	)
	ok := report(stderr, f.Name, err)
	if werr := writeModule(m, path); werr != nil {
		fmt.Fprintf(stderr, "write error: %v\n", werr)
		return false
	}
	if echo {
		fmt.Fprint(stdout, m.String())
	}
	return ok
}

func report(w io.Writer, file string, err error) bool {
	if err == nil {
		return true
	}
	var list irgen.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			fmt.Fprintf(w, "%s: %v\n", file, e)
		}
		return false
	}
	fmt.Fprintf(w, "%s: %v\n", file, err)
	return false
}

func writeModule(m *ir.Module, path string) error {
	return os.WriteFile(path, []byte(m.String()), 0644)
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "minicc: %v\n", err)
		fmt.Fprintln(stderr, "usage: minicc [-o dir] [-S] <file.c>")
		return 2
	}
	data, err := os.ReadFile(o.srcPath)
	if err != nil {
		fmt.Fprintf(stderr, "read error: %v\n", err)
		return 1
	}
	f, err := parser.ParseFile(o.srcPath, string(data))
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", o.srcPath, err)
		return 1
	}
	if err := os.MkdirAll(o.outDir, 0755); err != nil {
		fmt.Fprintf(stderr, "write error: %v\n", err)
		return 1
	}

	ok := lower(f, filepath.Join(o.outDir, unoptimizedName), stdout, stderr, false)

	folded, err := opt.Fold(f)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", o.srcPath, err)
		return 1
	}
	if !lower(folded, filepath.Join(o.outDir, optimizedName), stdout, stderr, o.print) {
		ok = false
	}
	if !ok {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
