// Command exiflyzer inspects and cleans file metadata through an Exiflyzer server.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"exiflyzer/internal/apiclient"
	"exiflyzer/internal/config"
	"exiflyzer/internal/domain"
	"exiflyzer/internal/download"
	"exiflyzer/internal/export"
	"exiflyzer/internal/logging"
	"exiflyzer/internal/workflow"
)

// CLI defines the command-line interface for exiflyzer.
var CLI struct {
	// Global flags
	Server   string `name:"server" short:"s" help:"Metadata server base URL (overrides EXIFLYZER_CLIENT_BASE_URL)"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)"`

	Status  StatusCmd  `cmd:"" help:"Show server status and supported file types"`
	Inspect InspectCmd `cmd:"" help:"Extract and display the metadata of a file"`
	Clean   CleanCmd   `cmd:"" help:"Remove metadata from a file and save the clean copy"`
}

// StatusCmd prints the capability probe result.
type StatusCmd struct{}

func (c *StatusCmd) Run(cfg *config.Config) error {
	ctx := context.Background()
	client := newClient(cfg)
	ctrl := workflow.NewController(client, nil)

	status := ctrl.Refresh(ctx)
	printStatus(os.Stdout, status)
	if !status.OK() {
		return fmt.Errorf("%w: %s", domain.ErrSystemUnavailable, status.Message)
	}

	types, err := client.SupportedTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch supported types: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Max file size:  %d MB\n", types.MaxFileSizeMB)
	return nil
}

// InspectCmd extracts and displays metadata.
type InspectCmd struct {
	Path   string `arg:"" help:"File to inspect" type:"existingfile"`
	Export string `help:"Write the metadata to a .csv or .xlsx file (a directory picks the default name)" type:"path"`
	Format string `help:"Export format when --export is a directory" enum:"csv,xlsx" default:"xlsx"`
	Full   bool   `help:"Show long values in full"`
	Raw    bool   `help:"Print the metadata document as JSON"`
}

func (c *InspectCmd) Run(cfg *config.Config) error {
	ctx := context.Background()
	ctrl := workflow.NewController(newClient(cfg), nil)

	file, doc, err := submit(ctx, ctrl, c.Path)
	if err != nil {
		return err
	}

	if c.Raw {
		if err := printJSON(os.Stdout, doc); err != nil {
			return err
		}
	} else if err := printDocument(os.Stdout, file, doc, c.Full); err != nil {
		return err
	}

	if c.Export == "" {
		return nil
	}
	out, err := exportDocument(c.Export, c.Format, file.Name, doc)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nExported to %s\n", out)
	return nil
}

// CleanCmd extracts metadata, then saves a metadata-free copy.
type CleanCmd struct {
	Path  string `arg:"" help:"File to clean" type:"existingfile"`
	Out   string `short:"o" help:"Directory to save the clean copy in (local sink only)" type:"path"`
	Quiet bool   `short:"q" help:"Do not print the extracted metadata first"`
}

func (c *CleanCmd) Run(cfg *config.Config) error {
	ctx := context.Background()
	if c.Out != "" {
		cfg.Download.Dir = c.Out
	}
	sink, err := download.NewSink(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize download sink: %w", err)
	}
	ctrl := workflow.NewController(newClient(cfg), sink)

	file, doc, err := submit(ctx, ctrl, c.Path)
	if err != nil {
		return err
	}
	if !c.Quiet {
		if err := printDocument(os.Stdout, file, doc, false); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
	}

	result, err := ctrl.StripAndDownload(ctx, file)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Saved %s (%d bytes) to %s\n", result.Filename, result.Bytes, result.Location)
	return nil
}

func newClient(cfg *config.Config) *apiclient.Client {
	return apiclient.New(apiclient.Config{BaseURL: cfg.Client.BaseURL, Timeout: cfg.Client.Timeout})
}

// submit runs the probe and one extraction pass for path.
func submit(ctx context.Context, ctrl *workflow.Controller, path string) (*domain.CandidateFile, *domain.MetadataDocument, error) {
	ctrl.Refresh(ctx)

	file, err := domain.CandidateFromPath(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := ctrl.Submit(ctx, file)
	if err != nil {
		return nil, nil, err
	}
	return file, doc, nil
}

func exportDocument(target, format, sourceName string, doc *domain.MetadataDocument) (string, error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, export.BuildFilename(sourceName, format))
	} else {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(target)), ".")
	}

	write := export.WriteXLSX
	switch format {
	case "xlsx":
	case "csv":
		write = export.WriteCSV
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	if err := write(f, doc); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", err
	}
	return target, f.Close()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := kong.Parse(&CLI,
		kong.Name("exiflyzer"),
		kong.Description("Inspect and remove file metadata"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if CLI.Server != "" {
		cfg.Client.BaseURL = strings.TrimRight(CLI.Server, "/")
	}
	if CLI.LogLevel != "" {
		cfg.Log.Level = CLI.LogLevel
	} else if cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}
	if err := logging.Init(cfg.Log); err != nil {
		ctx.FatalIfErrorf(err)
	}
	defer func() { _ = logging.Sync() }()
	logging.L().Debug("using metadata server", zap.String("base_url", cfg.Client.BaseURL))

	err = ctx.Run(cfg)
	ctx.FatalIfErrorf(err)
}
