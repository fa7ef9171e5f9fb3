package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"abix/internal/config"
	"abix/internal/ir"
	"abix/internal/reader"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus [flags] corpus.zip|corpus.xml",
	Short: "List the translation units of an ABI corpus",
	Long:  `Corpus reads a ZIP archive of ABI dumps or an abi-corpus XML document and lists its translation units`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpus,
}

func runCorpus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Discover(".")
	if err != nil {
		return err
	}
	path := args[0]

	var corp *ir.Corpus
	if strings.HasSuffix(path, ".zip") {
		corp = ir.NewCorpus(path)
		n, err := reader.ReadCorpusFromArchive(path, corp)
		if err != nil {
			return err
		}
		if n != len(corp.Units()) {
			return fmt.Errorf("archive reader miscounted: %d vs %d units", n, len(corp.Units()))
		}
	} else {
		corp, err = reader.CorpusFromFile(path)
		if err != nil {
			return err
		}
	}

	colorize := useColor(cmd, cfg.Output.Color, os.Stdout)
	sprintPath := fmt.Sprint
	if colorize {
		sprintPath = pathColor.Sprint
	}

	fmt.Printf("%s: %d translation units\n", sprintPath(corp.Path()), len(corp.Units()))
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if quiet {
		return nil
	}
	for _, tu := range corp.Units() {
		fmt.Printf("  %s: %d top-level declarations\n", tu.Path(), len(tu.GlobalScope().Members()))
	}
	return nil
}
