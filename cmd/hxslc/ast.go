package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hexaengine/hxslc/pkg/ast"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/lexer"
	"github.com/hexaengine/hxslc/pkg/parser"
	"github.com/hexaengine/hxslc/pkg/preprocessor"
	"github.com/hexaengine/hxslc/pkg/source"
)

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Parse a file and print its AST as an indented tree.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		locale := diag.SetLocale(GetString(cmd, "locale"))
		logger := diag.NewLogger(locale)
		mgr := source.NewManager()
		arena := ast.NewArena()
		id := mgr.Add(args[0], data)

		pp := preprocessor.New(logger)
		cleaned, _ := pp.Process(mgr.Get(id))
		mgr.SetContents(id, cleaned)

		toks := lexer.New(mgr.Get(id), lexer.NewMainConfig(), logger).Tokenize()
		unit := parser.New(id, toks, arena, logger).ParseCompilationUnit()

		dumpNode(os.Stdout, unit, 0)

		errorCount := printDiagnostics(logger.Messages())
		if errorCount > 0 {
			os.Exit(1)
		}
	},
}

// dumpNode writes n and its descendants as an indented tree, one node per
// line, in the pre-order a reader would expect from a compiler's -ast-dump.
func dumpNode(w io.Writer, n ast.Node, depth int) {
	fmt.Fprintf(w, "%s%s @%d:%d\n", strings.Repeat("  ", depth), n.Kind(), n.Span().Line, n.Span().Column)
	for _, child := range n.Children() {
		dumpNode(w, child, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(astCmd)
}
