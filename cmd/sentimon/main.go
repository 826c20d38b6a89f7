package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/antigravity/sentimon/internal/config"
	"github.com/antigravity/sentimon/internal/crawler"
	"github.com/antigravity/sentimon/internal/database"
	"github.com/antigravity/sentimon/internal/export"
	"github.com/antigravity/sentimon/internal/server"
	"github.com/antigravity/sentimon/internal/signal"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "sentimon",
	Short:   "Forecast report monitor",
	Long:    "sentimon crawls folders of market forecast reports, derives trading signals and serves the results.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sentimon", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/sentimon/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point root_dir at your report folders.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Root directory: %s\n\n", cfg.Crawler.RootDir)
		fmt.Println("Recorded crawls:")
		fmt.Printf("  Total crawls: %d\n", stats.TotalCrawls)
		fmt.Printf("  Signal rows: %d\n", stats.TotalSignals)
		fmt.Printf("  Distinct assets: %d\n", stats.Assets)

		latest, err := db.GetLatestCrawl()
		if err != nil {
			return err
		}
		if latest != nil {
			fmt.Println("\nLatest crawl:")
			fmt.Printf("  Root: %s\n", latest.RootPath)
			fmt.Printf("  Assets: %d\n", latest.AssetCount)
			if latest.CrawledAt != nil {
				fmt.Printf("  At: %s\n", *latest.CrawledAt)
			}
		}
		return nil
	},
}

// --- crawl command ---

var (
	crawlRoot   string
	crawlDryRun bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the report tree and record current signals",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cfg.Crawler.RootDir
		if crawlRoot != "" {
			root = crawlRoot
		}

		cr := crawler.New(signal.ParsePolicy(cfg.Signal.Policy))
		records := cr.Crawl(root)

		if len(records) == 0 {
			fmt.Printf("No valid data found in %s\n", root)
			return nil
		}

		printRecords(records)

		if crawlDryRun {
			return nil
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		crawlID, err := db.RecordCrawl(root, toSignalRows(records))
		if err != nil {
			return fmt.Errorf("recording crawl: %w", err)
		}
		fmt.Printf("\nRecorded crawl #%d (%d assets)\n", crawlID, len(records))
		return nil
	},
}

func init() {
	crawlCmd.Flags().StringVar(&crawlRoot, "root", "", "Override the configured root directory")
	crawlCmd.Flags().BoolVar(&crawlDryRun, "dry-run", false, "Print signals without recording them")
}

func printRecords(records []crawler.AssetRecord) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ASSET\tDATE\tSIGNAL\tLAST\tUP\tSIDE\tDOWN\tSENTIMENT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Asset, r.Date, r.Signal, r.LastSignal,
			r.Up, r.Sideways, r.Down, r.Sentiment)
	}
	w.Flush()
}

func toSignalRows(records []crawler.AssetRecord) []database.SignalRow {
	rows := make([]database.SignalRow, 0, len(records))
	for _, r := range records {
		row := database.SignalRow{
			Asset:       r.Asset,
			Signal:      string(r.Signal),
			ReportDate:  ptrOrNil(r.Date),
			LastSignal:  ptrOrNil(string(r.LastSignal)),
			Up:          ptrOrNil(r.Up),
			Sideways:    ptrOrNil(r.Sideways),
			Down:        ptrOrNil(r.Down),
			Sentiment:   ptrOrNil(r.Sentiment),
			VIX:         ptrOrNil(r.VIX),
			Consensus:   ptrOrNil(r.Consensus),
			Indicators:  ptrOrNil(r.Indicators),
			Explanation: ptrOrNil(r.Explanation),
		}
		rows = append(rows, row)
	}
	return rows
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// --- history command ---

var historyCmd = &cobra.Command{
	Use:   "history [asset]",
	Short: "Show the report history of one asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asset := args[0]
		cr := crawler.New(signal.ParsePolicy(cfg.Signal.Policy))

		records := cr.Crawl(cfg.Crawler.RootDir)
		var path string
		for _, r := range records {
			if r.Asset == asset {
				path = r.Path
				break
			}
		}
		if path == "" {
			return fmt.Errorf("asset %s not found under %s", asset, cfg.Crawler.RootDir)
		}

		history := cr.LoadHistory(path)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tSIGNAL\tUP\tSIDE\tDOWN\tFILE")
		for _, h := range history {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				h.Date, h.Signal, h.Up, h.Sideways, h.Down, filepath.Base(h.SourcePath))
		}
		return w.Flush()
	},
}

// --- export command ---

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write last_known_signals.csv for the trading robot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cr := crawler.New(signal.ParsePolicy(cfg.Signal.Policy))
		records := cr.Crawl(cfg.Crawler.RootDir)

		dir := cfg.GetExportDir()
		if exportDir != "" {
			dir = exportDir
		}

		path, err := export.WriteLastKnownSignals(dir, records)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d signals to %s\n", len(records), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Override the export directory")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		cr := crawler.New(signal.ParsePolicy(cfg.Signal.Policy))
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, cfg, cr, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "sentimon.db")
	return database.Open(dbPath)
}
