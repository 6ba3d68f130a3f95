package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/devdeck/devdeck/internal/config"
	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/service"
)

// runScan performs a one-shot workspace scan and prints the result: a table
// on a TTY, JSON otherwise.
func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	root := fs.String("root", "", "workspace root (overrides configuration)")
	asJSON := fs.Bool("json", false, "force JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if *root != "" {
		cfg.Registry.Root = *root
	}

	registry := service.NewRegistryService(cfg.Registry.Root, project.ScanOptions{
		MarkerFile: cfg.Registry.MarkerFile,
		MaxDepth:   cfg.Registry.ScanDepth,
	}, nil, nil, nil, nil)

	projects, err := registry.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("scan %s: %w", cfg.Registry.Root, err)
	}

	if *asJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tPATH\tSCRIPTS\tCOMPOSE")
	for _, p := range projects {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", p.Name, p.Path, len(p.Scripts), p.Compose)
	}
	return w.Flush()
}
