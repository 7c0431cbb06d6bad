package internal

import (
	"fmt"
	"github.com/sanity-io/litter"
	"io"
	"strings"
)

var astDumper = litter.Options{StripPackageNames: true, HidePrivateFields: true}

// WriteReport prints the outcome of each phase the way the command line driver shows it.
// With verbose set the syntax tree is dumped after the syntax phase.
func WriteReport(w io.Writer, result *Result, verbose bool) {
	fmt.Fprintln(w, "=== SimpleLang Compiler ===")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "1. Lexical Analysis:")
	fmt.Fprintf(w, "   Tokens generated: %d\n", len(result.Tokens))
	fmt.Fprintf(w, "   Symbol table: %s\n\n", result.LexerSymbols)

	fmt.Fprintln(w, "2. Syntax Analysis:")
	if len(result.ParseErrors) > 0 {
		writeErrors(w, "Syntax errors", result.ParseErrors)
		writeStatus(w, false)
		return
	}
	fmt.Fprintln(w, "   AST built successfully")
	if verbose {
		fmt.Fprintln(w, indent(astDumper.Sdump(result.Ast), "   "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "3. Semantic Analysis:")
	if len(result.SemanticErrors) > 0 {
		writeErrors(w, "Semantic errors", result.SemanticErrors)
		writeStatus(w, false)
		return
	}
	fmt.Fprintln(w, "   No semantic errors")
	if verbose {
		fmt.Fprintf(w, "   Symbol table: %s\n", result.SymbolTable)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "4. Intermediate Code Generation:")
	fmt.Fprintln(w, "   Three-address code:")
	WriteCode(w, result.ThreeAddressCode, "     ")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "5. Code Optimization:")
	fmt.Fprintln(w, "   Optimized code:")
	WriteCode(w, result.OptimizedCode, "     ")
	fmt.Fprintln(w)

	writeStatus(w, result.Success())
}

// WriteCode prints one instruction per line behind prefix.
func WriteCode(w io.Writer, lines []string, prefix string) {
	for _, line := range lines {
		fmt.Fprintln(w, prefix+line)
	}
}

func writeErrors(w io.Writer, title string, errors []string) {
	fmt.Fprintf(w, "   %s:\n", title)
	for _, msg := range errors {
		fmt.Fprintf(w, "     - %s\n", msg)
	}
	fmt.Fprintln(w)
}

func writeStatus(w io.Writer, success bool) {
	if success {
		fmt.Fprintln(w, "Compilation successful!")
		return
	}
	fmt.Fprintln(w, "Compilation failed with errors.")
}

func indent(text string, prefix string) string {
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}
