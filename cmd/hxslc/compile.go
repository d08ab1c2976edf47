package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexaengine/hxslc/internal/pipeline"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/ir"
	"github.com/hexaengine/hxslc/pkg/modfile"
	"github.com/hexaengine/hxslc/pkg/symbol"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] source-file...",
	Short: "Compile one or more HXSL source files into a module file.",
	Long: `Compile one or more HXSL source files into a single module file
that can be loaded without re-running the front end.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		sources, err := readSources(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		opts := pipeline.Options{
			AssemblyName: GetString(cmd, "assembly"),
			Locale:       diag.SetLocale(GetString(cmd, "locale")),
		}

		result := pipeline.Compile(sources, opts)
		errorCount := printDiagnostics(result.Diagnostics)

		if result.Module == nil {
			os.Exit(1)
		}

		output := GetString(cmd, "output")
		if output != "" {
			if err := writeModuleFile(output, result.Assembly.Table, result.Module); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}

		if errorCount > 0 {
			os.Exit(1)
		}
	},
}

func writeModuleFile(path string, table *symbol.Table, module *ir.Module) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := modfile.Write(f, table, module); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func readSources(paths []string) ([]pipeline.Source, error) {
	sources := make([]pipeline.Source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		sources = append(sources, pipeline.Source{Name: p, Contents: data})
	}
	return sources, nil
}

func init() {
	compileCmd.Flags().StringP("output", "o", "", "module file to write (skipped if empty)")
	compileCmd.Flags().String("assembly", "", "name of the assembly being compiled (defaults to \"main\")")
	compileCmd.Flags().String("locale", "", "diagnostic message locale (defaults to en_US)")
	rootCmd.AddCommand(compileCmd)
}
