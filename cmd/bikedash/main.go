package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/lox/bikedash/internal/api"
	"github.com/lox/bikedash/internal/bikeshare"
	"github.com/lox/bikedash/internal/charts"
	"github.com/lox/bikedash/internal/config"
	"github.com/lox/bikedash/internal/dataset"
	"github.com/lox/bikedash/internal/models"
	"github.com/lox/bikedash/internal/notebook"
	"github.com/lox/bikedash/internal/store"
)

type CLI struct {
	EnvFile   kongdotenv.ENVFileConfig `kong:"optional,name=env-file,help='Load environment variables from this .env file.'"`
	LogLevel  string                   `help:"Log level (debug, info, warn, error)." default:"info" env:"BIKEDASH_LOG_LEVEL"`
	LogFormat string                   `help:"Log format (text, json)." default:"text" env:"BIKEDASH_LOG_FORMAT"`

	Serve  ServeCmd  `cmd:"" default:"withargs" help:"Serve the dashboard."`
	Charts ChartsCmd `cmd:"" help:"Write the dashboard charts as PNG files."`
}

type ServeCmd struct {
	Data     string `help:"Path to the hourly usage CSV." default:"${data}" env:"BIKEDASH_DATA" type:"path"`
	Notebook string `help:"Path to the analysis notebook." default:"${notebook}" env:"BIKEDASH_NOTEBOOK" type:"path"`
	Port     string `help:"HTTP server port." default:"8080" env:"PORT"`
}

type ChartsCmd struct {
	Data  string `help:"Path to the hourly usage CSV." default:"${data}" env:"BIKEDASH_DATA" type:"path"`
	Out   string `help:"Output directory." default:"charts" type:"path"`
	Start string `help:"First day to include (YYYY-MM-DD)."`
	End   string `help:"Last day to include (YYYY-MM-DD)."`
}

func (c *CLI) baseConfig() config.Config {
	cfg := config.Default()
	cfg.LogLevel = c.LogLevel
	cfg.LogFormat = c.LogFormat
	return cfg
}

func (s *ServeCmd) Run(cli *CLI) error {
	cfg := cli.baseConfig()
	cfg.DataPath = s.Data
	cfg.NotebookPath = s.Notebook
	cfg.Port = s.Port
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := config.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	st, err := store.OpenMemory(logger)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}
	defer st.Close()

	data := dataset.NewFileCache(cfg.DataPath, logger)
	data.OnLoad(func(ds *dataset.Dataset) error {
		return st.ReplaceUsage(ds.Table.Rows())
	})

	// Load eagerly so a missing or broken file shows up in the logs at
	// startup. Pages still report it on every request until it appears.
	if _, err := data.Get(); err != nil {
		logger.Warn("dataset not loaded", slog.String("path", cfg.DataPath), slog.Any("error", err))
	}
	if _, err := os.Stat(cfg.NotebookPath); err != nil {
		logger.Warn("notebook not found", slog.String("path", cfg.NotebookPath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(data, st, cfg.NotebookPath, cfg.Port, logger)
	return server.Run(ctx)
}

func (c *ChartsCmd) Run(cli *CLI) error {
	cfg := cli.baseConfig()
	cfg.DataPath = c.Data
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := config.NewLogger(cfg, os.Stderr)

	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return err
	}
	t := ds.Table
	if c.Start != "" || c.End != "" {
		bounds, ok := t.Bounds()
		if !ok {
			return fmt.Errorf("dataset %s is empty", cfg.DataPath)
		}
		start, end := c.Start, c.End
		if start == "" {
			start = bounds.Start.Format(models.DateLayout)
		}
		if end == "" {
			end = bounds.End.Format(models.DateLayout)
		}
		r, err := bikeshare.ParseDateRange(start, end)
		if err != nil {
			return err
		}
		r = r.Clamp(bounds)
		if !r.Valid() {
			return fmt.Errorf("start %s is after end %s", start, end)
		}
		if t, err = t.Filter(r); err != nil {
			return fmt.Errorf("filter %s: %w", r, err)
		}
		logger.Info("filtered dataset", slog.String("range", r.String()), slog.Int("rows", t.Len()))
	}

	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, kind := range charts.Kinds {
		png, err := charts.PNG(kind, t)
		if err != nil {
			return fmt.Errorf("render %s: %w", kind, err)
		}
		path := filepath.Join(c.Out, string(kind)+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("wrote chart", slog.String("path", path), slog.Int("bytes", len(png)))
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bikedash"),
		kong.Description("Bike sharing usage dashboard."),
		kong.UsageOnError(),
		kong.Vars{
			"data":     dataset.DefaultPath,
			"notebook": notebook.DefaultPath,
		},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
