// Command hxslc is the compiler driver: compile sources to a module file,
// or dump an intermediate stage (tokens, AST, IR) for inspection. Command
// tree and flag-access helpers are grounded on go-corset's pkg/cmd/root.go
// and pkg/cmd/util.go.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled in when building via a release process, but not when
// installed via "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "hxslc",
	Short: "A compiler for the HXSL shader language.",
	Long:  "A compiler (and inspection toolbox) for the HXSL shader language.",
	Run: func(cmd *cobra.Command, args []string) {
		if !GetFlag(cmd, "version") {
			_ = cmd.Help()
			return
		}

		fmt.Print("hxslc ")
		if Version != "" {
			fmt.Printf("%s", Version)
		} else if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Printf("%s", info.Main.Version)
		} else {
			fmt.Printf("(unknown version)")
		}
		fmt.Println()
	},
}

// Execute runs the root command; each subcommand adds itself to rootCmd from
// its own file's init. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("locale", "", "diagnostic message locale (defaults to en_US)")
	rootCmd.Flags().Bool("version", false, "print version information and exit")
}

// configureLogging raises logrus's level to Debug when --verbose was passed,
// the same per-command toggle go-corset's compile/debug/inspect commands
// each apply individually rather than as a persistent pre-run hook.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// GetFlag gets an expected bool flag, exiting on a programmer error (an
// unregistered or mistyped flag name).
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// GetString gets an expected string flag.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}
