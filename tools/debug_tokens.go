// debug_tokens prints the token stream of a source file.
package main

import (
	"fmt"
	"os"

	"github.com/tinyrange/minicc/internal/lexer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_tokens <file>")
		os.Exit(2)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(1)
	}
	l := lexer.New(string(data))
	for {
		t := l.Next()
		fmt.Printf("%d:%d\t%-8s %q\n", t.Line, t.Col, t.Type, t.Lex)
		if t.Type == lexer.EOF || t.Type == lexer.ILLEGAL {
			break
		}
	}
}
