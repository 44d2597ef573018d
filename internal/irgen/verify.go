package irgen

import (
	"github.com/llir/llvm/ir"

	"github.com/tinyrange/minicc/internal/ast"
)

// verify checks that every block of f ends in a terminator and is reachable
// from the entry block.
func (g *Generator) verify(n ast.Node, f *ir.Func) error {
	if len(f.Blocks) == 0 {
		return nil
	}
	for _, b := range f.Blocks {
		if b.Term == nil {
			return g.errorf(Structural, n, "block %s has no terminator", b.Name())
		}
	}
	seen := map[*ir.Block]bool{}
	work := []*ir.Block{f.Blocks[0]}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[b] {
			continue
		}
		seen[b] = true
		work = append(work, b.Term.Succs()...)
	}
	for _, b := range f.Blocks {
		if !seen[b] {
			return g.errorf(Structural, n, "block %s is unreachable", b.Name())
		}
	}
	return nil
}
