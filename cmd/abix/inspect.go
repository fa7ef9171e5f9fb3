package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"abix/internal/cache"
	"abix/internal/config"
	"abix/internal/ir"
	"abix/internal/reader"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] dump.xml...",
	Short: "Summarize the declarations of ABI dump files",
	Long:  `Inspect parses each ABI instrumentation XML dump and prints per-file declaration statistics`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Int("jobs", runtime.NumCPU(), "number of files parsed in parallel")
	inspectCmd.Flags().Bool("no-cache", false, "ignore the parse-summary cache")
}

type inspectResult struct {
	path    string
	summary cache.Summary
	cached  bool
	err     error
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Discover(".")
	if err != nil {
		return err
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	var disk *cache.Disk
	if cfg.Cache.Enabled && !noCache {
		// A broken cache only costs re-parsing.
		disk, _ = cache.Open("abix")
	}

	results := make([]inspectResult, len(args))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(min(jobs, len(args)))
	for i, path := range args {
		g.Go(func() error {
			results[i] = inspectFile(path, disk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	colorize := useColor(cmd, cfg.Output.Color, os.Stdout)
	failures := 0
	for _, r := range results {
		if r.err != nil {
			failures++
			if failures <= cfg.Output.MaxDiagnostics {
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.path, r.err)
			}
			continue
		}
		if !quiet {
			printSummary(r, colorize)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failures, len(args))
	}
	return nil
}

func inspectFile(path string, disk *cache.Disk) inspectResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return inspectResult{path: path, err: err}
	}

	key := cache.HashContent(data)
	if disk != nil {
		var s cache.Summary
		if ok, _ := disk.Get(key, &s); ok {
			return inspectResult{path: path, summary: s, cached: true}
		}
	}

	tu := ir.NewTranslationUnit(path)
	if err := reader.ReadTranslationUnitFromBuffer(data, tu); err != nil {
		return inspectResult{path: path, err: err}
	}

	s := summarize(tu)
	s.ContentHash = key
	s.Stamp()
	if disk != nil {
		_ = disk.Put(key, &s)
	}
	return inspectResult{path: path, summary: s}
}

// summarize walks one translation unit and counts its declarations.
func summarize(tu *ir.TranslationUnit) cache.Summary {
	s := cache.Summary{
		Path:        tu.Path(),
		AddressSize: tu.AddressSize(),
		Units:       1,
	}
	ir.Walk(tu.GlobalScope(), func(d ir.Decl) bool {
		switch d.(type) {
		case *ir.Namespace:
			s.Namespaces++
		case *ir.FunctionDecl:
			s.Functions++
		case *ir.VarDecl:
			s.Variables++
		default:
			if _, ok := d.(ir.Type); ok {
				s.Types++
			}
		}
		return true
	})
	return s
}

var (
	pathColor  = color.New(color.FgCyan, color.Bold)
	countColor = color.New(color.FgGreen)
	noteColor  = color.New(color.FgYellow)
)

func printSummary(r inspectResult, colorize bool) {
	sprintPath := fmt.Sprint
	sprintCount := fmt.Sprint
	sprintNote := fmt.Sprint
	if colorize {
		sprintPath = pathColor.Sprint
		sprintCount = countColor.Sprint
		sprintNote = noteColor.Sprint
	}

	header := sprintPath(r.path)
	if r.cached {
		header += " " + sprintNote("(cached)")
	}
	fmt.Println(header)
	if r.summary.AddressSize != 0 {
		fmt.Printf("  address size: %s bytes\n", sprintCount(r.summary.AddressSize))
	}
	fmt.Printf("  namespaces: %s  types: %s  functions: %s  variables: %s\n",
		sprintCount(r.summary.Namespaces),
		sprintCount(r.summary.Types),
		sprintCount(r.summary.Functions),
		sprintCount(r.summary.Variables))
}
