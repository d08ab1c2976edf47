package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hexaengine/hxslc/internal/pipeline"
	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/ir"
)

// irFormat is a pflag.Value enumerating how `hxslc ir` renders a lowered
// module: as the "text" block listing below, or as a raw "dot" control-flow
// graph per function, one digraph block per function, for piping into a
// graph viewer.
type irFormat string

const (
	irFormatText irFormat = "text"
	irFormatDot  irFormat = "dot"
)

func (f *irFormat) String() string { return string(*f) }

func (f *irFormat) Set(s string) error {
	switch irFormat(s) {
	case irFormatText, irFormatDot:
		*f = irFormat(s)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want \"text\" or \"dot\")", s)
	}
}

func (f *irFormat) Type() string { return "format" }

var _ pflag.Value = (*irFormat)(nil)

var irOutputFormat = irFormatText

var irCmd = &cobra.Command{
	Use:   "ir [flags] source-file...",
	Short: "Run the full pipeline and print the lowered module's functions.",
	Args:  cobra.MinimumNArgs(1),
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
			SkipOptimize: GetFlag(cmd, "no-optimize"),
		}

		result := pipeline.Compile(sources, opts)
		errorCount := printDiagnostics(result.Diagnostics)

		if result.Module == nil {
			os.Exit(1)
		}

		switch irOutputFormat {
		case irFormatDot:
			dumpModuleDot(os.Stdout, result.Module)
		default:
			dumpModuleText(os.Stdout, result.Module)
		}

		if errorCount > 0 {
			os.Exit(1)
		}
	},
}

// dumpModuleText writes every function as a sequence of labeled blocks, one
// instruction per line, in the teacher's plain assembly-listing style.
func dumpModuleText(w io.Writer, m *ir.Module) {
	for _, fn := range m.Functions {
		fmt.Fprintf(w, "function %s\n", fn.Name)
		for i, block := range fn.Blocks {
			fmt.Fprintf(w, "  block%d:\n", i)
			for _, in := range block.Instructions {
				fmt.Fprintf(w, "    %s\n", formatInstruction(in))
			}
		}
	}
}

// dumpModuleDot writes one digraph per function describing its basic-block
// control-flow edges, for piping into a graph viewer.
func dumpModuleDot(w io.Writer, m *ir.Module) {
	for _, fn := range m.Functions {
		fmt.Fprintf(w, "digraph %s {\n", fn.Name)
		for i, block := range fn.Blocks {
			for _, succ := range block.Successors {
				fmt.Fprintf(w, "  block%d -> block%d;\n", i, succ)
			}
		}
		fmt.Fprintln(w, "}")
	}
}

func formatInstruction(in ir.Instruction) string {
	switch in.OpCode {
	case ir.OpCall:
		return fmt.Sprintf("%s <- call #%d (%d args)", formatOperand(in.Result), in.CallID, len(in.Args))
	case ir.OpReturn:
		return "return"
	default:
		return fmt.Sprintf("%s <- %s %s %s", formatOperand(in.Result), in.OpCode, formatOperand(in.Left), formatOperand(in.Right))
	}
}

func formatOperand(op ir.Operand) string {
	switch op.Kind {
	case ir.OperandNone:
		return "_"
	case ir.OperandVariable:
		return fmt.Sprintf("v%d.%d", op.Var.Raw(), op.Var.Version())
	case ir.OperandLabel:
		return fmt.Sprintf("block%d", op.Label)
	case ir.OperandField:
		return fmt.Sprintf("field(%d,%d)", op.Field.TypeID, op.Field.FieldID)
	default:
		return op.Imm.String()
	}
}

func init() {
	irCmd.Flags().String("assembly", "", "name of the assembly being compiled (defaults to \"main\")")
	irCmd.Flags().String("locale", "", "diagnostic message locale (defaults to en_US)")
	irCmd.Flags().Bool("no-optimize", false, "skip the optimizer pass and print the raw lowering")
	irCmd.Flags().Var(&irOutputFormat, "format", `output format: "text" or "dot"`)
	rootCmd.AddCommand(irCmd)
}
