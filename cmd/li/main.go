// Command li runs lithium programs. With a readable file it executes
// the file; with no arguments (or a first argument that is not a file)
// it drops into the interactive shell.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/config"
	"github.com/termfx/lithium/internal/diag"
	"github.com/termfx/lithium/internal/interp"
	"github.com/termfx/lithium/internal/parser"
	"github.com/termfx/lithium/internal/repl"
	"github.com/termfx/lithium/internal/sema"
	"github.com/termfx/lithium/internal/source"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()
	exitCode := 0
	dumpAST := false

	root := &cobra.Command{
		Use:           "li [FILE [ARGS...]]",
		Short:         "The lithium interpreter",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = execute(cfg, args, dumpAST)
			return nil
		},
	}
	flags := root.Flags()
	flags.BoolVar(&cfg.ReportAll, "report-all", cfg.ReportAll, "Report every diagnostic, including repeats at one location.")
	flags.BoolVar(&dumpAST, "dump-ast", false, "Print the parsed tree as XML instead of running.")
	flags.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored diagnostics.")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug output on stderr.")
	flags.SetInterspersed(false)

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return exitCode
}

func execute(cfg *config.Config, args []string, dumpAST bool) int {
	color.NoColor = cfg.NoColor || !isatty.IsTerminal(os.Stderr.Fd())

	sources := source.NewMap()
	reporter := diag.NewReporter(os.Stderr)
	reporter.SetReportAll(cfg.ReportAll)

	// A missing first argument, or one that is not a regular file,
	// selects interactive mode, same as no argument at all.
	if len(args) == 0 || !isFile(args[0]) {
		return runInteractive(cfg, sources, reporter, args)
	}
	return runFile(cfg, sources, reporter, args, dumpAST)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func interpOptions(cfg *config.Config, interactive bool, args []string) interp.Options {
	return interp.Options{
		Interactive: interactive,
		Args:        args,
		Home:        cfg.Home,
		ModulePath:  cfg.ModulePath,
	}
}

func runInteractive(cfg *config.Config, sources *source.Map, reporter *diag.Reporter, args []string) int {
	it := interp.New(sources, reporter, interpOptions(cfg, true, args))
	defer it.Close()

	shell := repl.New(sources, reporter, it, cfg)
	code, err := shell.Run(os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return code
}

func runFile(cfg *config.Config, sources *source.Map, reporter *diag.Reporter, args []string, dumpAST bool) int {
	path := args[0]
	text, err := os.ReadFile(path)
	if err != nil {
		reporter.General("could not open file: " + path)
		return 1
	}
	cfg.Debugf("running %s", path)

	file := sources.Add(path, string(text))
	prog, ok := parser.New(reporter).Parse(file)
	if !ok {
		return 1
	}
	if !sema.New(reporter).Check(prog) {
		return 1
	}
	if dumpAST {
		fmt.Print(ast.XMLDump(prog))
		return 0
	}

	it := interp.New(sources, reporter, interpOptions(cfg, false, args))
	defer it.Close()

	res := it.Run(prog)
	switch {
	case res.Exited:
		return res.Code
	case !res.Ok:
		return 1
	}
	return 0
}
