// cmd/docloom/main.go
//
// This is the entry point for the docloom CLI. Each subcommand builds the
// template catalog (builtin table plus any project extensions), scans the
// output directory for already-generated documents, and asks the resolver the
// relevant question.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docloom/docloom/internal/catalog"
	"github.com/docloom/docloom/internal/config"
	"github.com/docloom/docloom/internal/inventory"
	"github.com/docloom/docloom/internal/logging"
	"github.com/docloom/docloom/internal/planner"
	"github.com/docloom/docloom/internal/resolver"
	"github.com/docloom/docloom/internal/tui"
)

const usage = `docloom plans the generation of project documents.

Usage:
  docloom init                      create the .docloom directory
  docloom check <template>          report whether prerequisites are satisfied
  docloom frontier                  list templates that can be generated now
  docloom order <template>...       print a dependency-safe generation order
  docloom waves <template>...       print the full plan as parallel waves
  docloom status                    open the interactive status board

Common flags (after the subcommand):
  -project DIR   project directory (defaults to cwd)
  -output DIR    directory to scan for generated documents
  -strict        treat unknown templates as invalid
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "init":
		runInit(args)
	case "check":
		runCheck(args)
	case "frontier":
		runFrontier(args)
	case "order":
		runOrder(args)
	case "waves":
		runWaves(args)
	case "status":
		runStatus(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "docloom: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

// env bundles everything a subcommand needs after setup.
type env struct {
	cfg      *config.Config
	registry *catalog.Registry
	resolver *resolver.Resolver
	store    *inventory.Store
	log      *logging.Logger
}

func (e *env) close() {
	if e.log != nil {
		e.log.Close()
	}
}

func commonFlags(fs *flag.FlagSet) (project, output *string, strict *bool) {
	project = fs.String("project", "", "path to the project directory (defaults to cwd)")
	output = fs.String("output", "", "directory to scan for generated documents (defaults to config output_dir)")
	strict = fs.Bool("strict", false, "treat unknown templates as invalid")
	return project, output, strict
}

func setup(project, output string, strict bool) (*env, error) {
	dir := project
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
	}
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	if err := config.InitDocloomDir(absolute); err != nil {
		return nil, fmt.Errorf("init %s: %w", config.DocloomDir, err)
	}
	cfg, err := config.NewConfig(absolute)
	if err != nil {
		return nil, err
	}
	reg := catalog.Builtin()
	if err := catalog.LoadCatalogDir(reg, cfg.CatalogDir()); err != nil {
		return nil, err
	}
	for _, path := range cfg.CatalogPaths() {
		file, err := catalog.LoadCatalogFile(path)
		if err != nil {
			return nil, err
		}
		if err := file.ApplyTo(reg); err != nil {
			return nil, fmt.Errorf("apply catalog %s: %w", path, err)
		}
	}
	log, err := logging.New(absolute)
	if err != nil {
		return nil, err
	}
	opts := []resolver.Option{resolver.WithLogger(log)}
	if strict || cfg.Project.StrictUnknown {
		opts = append(opts, resolver.WithStrictUnknown())
	}
	res, err := resolver.New(reg, opts...)
	if err != nil {
		log.Close()
		return nil, err
	}
	outputDir := cfg.OutputDir()
	if output != "" {
		outputDir = output
	}
	return &env{
		cfg:      cfg,
		registry: reg,
		resolver: res,
		store:    inventory.NewStore(outputDir),
		log:      log,
	}, nil
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	project, output, _ := commonFlags(fs)
	fs.Parse(args)
	e, err := setup(*project, *output, false)
	if err != nil {
		die("%v", err)
	}
	defer e.close()
	fmt.Printf("Initialized %s with %d catalog templates.\n", filepath.Join(e.cfg.ProjectDir, config.DocloomDir), e.registry.Len())
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	project, output, strict := commonFlags(fs)
	fs.Parse(args)
	if fs.NArg() != 1 {
		die("check expects exactly one template reference")
	}
	e, err := setup(*project, *output, *strict)
	if err != nil {
		die("%v", err)
	}
	defer e.close()
	available := mustScan(e)
	result := e.resolver.ValidateDependencies(fs.Arg(0), available)
	for _, warning := range result.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	for _, rec := range result.Recommendations {
		fmt.Printf("recommendation: %s\n", rec)
	}
	if result.Valid {
		fmt.Printf("%s is ready to generate.\n", fs.Arg(0))
		return
	}
	fmt.Printf("%s is missing %d prerequisite(s):\n", fs.Arg(0), len(result.MissingDependencies))
	for _, missing := range result.MissingDependencies {
		fmt.Printf("  - %s (%s, %s)\n", missing.Name, missing.ID, missing.Priority)
	}
	os.Exit(1)
}

func runFrontier(args []string) {
	fs := flag.NewFlagSet("frontier", flag.ExitOnError)
	project, output, strict := commonFlags(fs)
	fs.Parse(args)
	e, err := setup(*project, *output, *strict)
	if err != nil {
		die("%v", err)
	}
	defer e.close()
	available := mustScan(e)
	frontier := e.resolver.AvailableTemplates(available)
	if len(frontier) == 0 {
		fmt.Println("No templates are ready to generate.")
		return
	}
	fmt.Printf("%d template(s) ready to generate:\n", len(frontier))
	for _, desc := range frontier {
		fmt.Printf("  %-36s %s\n", desc.ID, desc.Name)
	}
}

func runOrder(args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	project, output, strict := commonFlags(fs)
	fs.Parse(args)
	if fs.NArg() == 0 {
		die("order expects at least one template reference")
	}
	e, err := setup(*project, *output, *strict)
	if err != nil {
		die("%v", err)
	}
	defer e.close()
	available := mustScan(e)
	result := e.resolver.GenerationOrder(fs.Args(), available)
	for i, desc := range result.Order {
		fmt.Printf("%2d. %s (%s)\n", i+1, desc.Name, desc.ID)
	}
	if result.Complete() {
		return
	}
	fmt.Fprintln(os.Stderr, "could not order:")
	for _, unresolved := range result.Unresolved {
		if len(unresolved.Missing) == 0 {
			fmt.Fprintf(os.Stderr, "  %s: not registered in catalog\n", unresolved.Ref)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s: unsatisfiable dependencies: %s\n", unresolved.Ref, strings.Join(unresolved.Missing, ", "))
	}
	os.Exit(1)
}

func runWaves(args []string) {
	fs := flag.NewFlagSet("waves", flag.ExitOnError)
	project, output, strict := commonFlags(fs)
	parallel := fs.Int("parallel", 0, "override max parallel generations from config")
	fs.Parse(args)
	e, err := setup(*project, *output, *strict)
	if err != nil {
		die("%v", err)
	}
	defer e.close()
	available := mustScan(e)
	pl, err := planner.New(e.resolver, e.registry)
	if err != nil {
		die("%v", err)
	}
	maxParallel := e.cfg.Project.MaxParallel
	if *parallel > 0 {
		maxParallel = *parallel
	}
	waves, err := pl.Waves(planner.Request{
		Targets:     fs.Args(),
		Available:   available,
		MaxParallel: maxParallel,
	})
	if err != nil {
		die("%v", err)
	}
	if len(waves) == 0 {
		fmt.Println("Nothing to generate.")
		return
	}
	for i, wave := range waves {
		fmt.Printf("wave %d:\n", i+1)
		for _, desc := range wave {
			fmt.Printf("  %-36s %s\n", desc.ID, desc.Name)
		}
	}
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	project, output, strict := commonFlags(fs)
	fs.Parse(args)
	e, err := setup(*project, *output, *strict)
	if err != nil {
		die("%v", err)
	}
	defer e.close()
	board := tui.NewBoard(e.registry, e.resolver, e.store)
	if err := tui.Run(board); err != nil {
		die("%v", err)
	}
}

func mustScan(e *env) []resolver.AvailableDocument {
	available, err := e.store.Scan()
	if err != nil {
		die("%v", err)
	}
	return available
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
