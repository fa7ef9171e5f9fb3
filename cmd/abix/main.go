package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"abix/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "abix",
	Short: "ABI instrumentation dump inspector",
	Long:  `abix reads ABI instrumentation XML dumps and corpus archives and reports on the declarations they carry`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off, defaults to abix.toml)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the effective color mode: the --color flag wins over
// the configuration file; "auto" probes the output terminal.
func useColor(cmd *cobra.Command, configured string, out *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	if mode == "" {
		mode = configured
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(out)
	}
}
