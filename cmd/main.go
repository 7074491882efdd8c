package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"tresjolie.dev/transit/config"
	"tresjolie.dev/transit/docstore"
	"tresjolie.dev/transit/downloader"
	"tresjolie.dev/transit/journeys"
	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/parse"
	"tresjolie.dev/transit/storage"
)

var rootCmd = &cobra.Command{
	Use:               "tresjolie",
	Short:             "Tampere transit stop tool",
	Long:              "Collects, converts, compares and publishes transit stop data",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	configFile  string
	verbose     bool
	journeysURL string
	headers     []string

	cfg *config.Config

	// Set when responses are cached to a file.
	journeysCache *downloader.Filesystem
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().StringVarP(&journeysURL, "journeys-url", "", "", "Journeys API base URL (overrides config)")
	rootCmd.PersistentFlags().StringSliceVarP(
		&headers,
		"header",
		"",
		[]string{},
		"Journeys API HTTP header",
	)
}

func main() {
	err := rootCmd.Execute()

	// Responses fetched before a failure are still worth keeping.
	if journeysCache != nil {
		if ferr := journeysCache.Flush(); ferr != nil {
			fmt.Fprintln(os.Stderr, ferr)
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	if journeysURL != "" {
		cfg.Journeys.BaseURL = journeysURL
	}

	return nil
}

func parseHeaders(headers []string) (map[string]string, error) {
	parsed := map[string]string{}
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("'%s' is not on form <key>:<value>", header)
		}
		parsed[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return parsed, nil
}

func journeysClient() (*journeys.Client, error) {
	client := journeys.NewClient(cfg.Journeys.BaseURL)
	client.Options.Timeout = cfg.Journeys.Timeout

	h, err := parseHeaders(headers)
	if err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}
	for k, v := range h {
		client.Headers[k] = v
	}

	// Responses are cached for the run, or across runs with a cache
	// file.
	client.Downloader = downloader.NewMemory()
	if cfg.Journeys.CacheFile != "" {
		fs, err := downloader.NewFilesystem(cfg.Journeys.CacheFile)
		if err != nil {
			return nil, fmt.Errorf("creating journeys cache: %w", err)
		}
		client.Downloader = fs
		journeysCache = fs
	}
	client.Options.Cache = true
	client.Options.CacheTTL = cfg.Journeys.CacheTTL

	return client, nil
}

func docstoreClient() (*docstore.Client, error) {
	if cfg.Docstore.URL == "" {
		return nil, fmt.Errorf("docstore url is not configured (set docstore.url or %s)", config.EnvDocstoreURL)
	}
	client := docstore.NewClient(cfg.Docstore.URL, cfg.Docstore.Token)
	client.Limiter = rate.NewLimiter(rate.Limit(cfg.Docstore.RatePerSecond), cfg.Docstore.Burst)
	return client, nil
}

func openStorage() (storage.Storage, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return storage.NewPSQLStorage(cfg.Database.DSN, false)
	default:
		if cfg.Database.DSN == "" {
			return storage.NewSQLiteStorage()
		}
		return storage.NewSQLiteStorage(storage.SQLiteConfig{
			OnDisk:    true,
			Directory: cfg.Database.DSN,
		})
	}
}

// Reads a stops and lines document (.json) or a stops.csv file.
func readDataset(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		stops, err := parse.ParseStopsCSV(filepath.Base(path), f)
		if err != nil {
			return nil, err
		}
		return &model.Dataset{Stops: stops}, nil
	}

	return parse.ParseDataset(filepath.Base(path), f)
}

func readStops(path string) ([]model.Stop, error) {
	dataset, err := readDataset(path)
	if err != nil {
		return nil, err
	}
	return dataset.Stops, nil
}

func readOverrides(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse.ParseOverrides(f)
}

// Runs fn against the file at path, or stdout if path is blank or "-".
func writeOutput(path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
