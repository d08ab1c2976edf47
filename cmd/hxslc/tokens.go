package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/lexer"
	"github.com/hexaengine/hxslc/pkg/preprocessor"
	"github.com/hexaengine/hxslc/pkg/source"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Run the preprocessor and lexer over a file and print its tokens.",
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
		id := mgr.Add(args[0], data)

		pp := preprocessor.New(logger)
		cleaned, _ := pp.Process(mgr.Get(id))
		mgr.SetContents(id, cleaned)

		toks := lexer.New(mgr.Get(id), lexer.NewMainConfig(), logger).Tokenize()
		for _, tok := range toks {
			fmt.Printf("%-4d:%-4d %-10s %q\n", tok.Span.Line, tok.Span.Column, tok.Kind, tok.Text)
		}

		errorCount := printDiagnostics(logger.Messages())
		if errorCount > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
