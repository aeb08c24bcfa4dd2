package cli

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sanaks-uk/EPO-data/internal/application/extraction"
	"github.com/Sanaks-uk/EPO-data/internal/config"
	"github.com/Sanaks-uk/EPO-data/internal/domain/patent"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/logging"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/metrics"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/ops"
	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

// extractOptions holds the extract subcommand's flags. Zero values mean
// "not set, use config".
type extractOptions struct {
	ClientID     string
	ClientSecret string

	Year             int
	RecordLimit      int
	WindowSize       int
	WindowDelay      time.Duration
	TitleKeywords    string
	AbstractKeywords string
	Applicant        string
	Inventor         string
	IPC              string
	CPC              string
	Country          string

	OutputPath  string
	Metrics     bool
	MetricsAddr string
}

// NewExtractCmd creates the extract subcommand.
func NewExtractCmd() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run one aggregation pass and export the records to CSV",
		Long:  "extract authenticates against the EPO Open Patent Services, searches for\npublications matching the criteria, enriches each document, and writes the\nassembled records to a CSV file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ClientID, "client-id", "", "OPS consumer key (overrides config)")
	f.StringVar(&opts.ClientSecret, "client-secret", "", "OPS consumer secret (overrides config)")
	f.IntVar(&opts.Year, "year", 0, "publication year to search")
	f.IntVar(&opts.RecordLimit, "limit", 0, "maximum number of records to assemble")
	f.IntVar(&opts.WindowSize, "window", 0, "documents per search window (1-100)")
	f.DurationVar(&opts.WindowDelay, "window-delay", 0, "pause between search windows")
	f.StringVar(&opts.TitleKeywords, "title", "", "title keywords, comma-separated (all must match)")
	f.StringVar(&opts.AbstractKeywords, "abstract", "", "abstract keywords, comma-separated (all must match)")
	f.StringVar(&opts.Applicant, "applicant", "", "applicant names, comma-separated (any may match)")
	f.StringVar(&opts.Inventor, "inventor", "", "inventor names, comma-separated (any may match)")
	f.StringVar(&opts.IPC, "ipc", "", "IPC codes, comma-separated (any may match)")
	f.StringVar(&opts.CPC, "cpc", "", "CPC codes, comma-separated (any may match)")
	f.StringVar(&opts.Country, "country", "", "publication countries, comma-separated (EP, US, WO, DE, GB, FR, JP, CN)")
	f.StringVarP(&opts.OutputPath, "output", "o", "", "output CSV path (default: epo_patents_register_<year>_<timestamp>.csv)")
	f.BoolVar(&opts.Metrics, "metrics", false, "expose Prometheus metrics during the run")
	f.StringVar(&opts.MetricsAddr, "metrics-addr", "", "metrics listen address")

	return cmd
}

// runExtract wires the full stack from configuration and drives one run.
func runExtract(cmd *cobra.Command, opts *extractOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cliCtx.Config
	logger := cliCtx.Logger

	applyFlagOverrides(cmd, cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Auth.ClientID == "" || cfg.Auth.ClientSecret == "" {
		return errors.InvalidParam("OPS credentials missing: set --client-id/--client-secret or EPODATA_AUTH_CLIENT_ID/EPODATA_AUTH_CLIENT_SECRET")
	}

	collector := metrics.NewCollector()
	if cfg.Metrics.Enabled {
		startMetricsListener(cfg.Metrics.ListenAddr, collector, logger)
	}

	client := ops.NewClient(cfg.OPS, logger, collector)
	service := extraction.NewService(extraction.Gateways{
		Auth:            client,
		Search:          ops.NewSearchCursor(client, logger),
		Details:         ops.NewDetailEnricher(client, logger),
		Classifications: ops.NewClassificationEnricher(client, logger),
		Register:        ops.NewRegisterEnricher(client, logger),
	}, logger, collector)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := service.Run(ctx, &extraction.RunInput{
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		Criteria: patent.SearchCriteria{
			Year:             cfg.Extraction.Year,
			TitleKeywords:    cfg.Extraction.TitleKeywords,
			AbstractKeywords: cfg.Extraction.AbstractKeywords,
			Applicants:       cfg.Extraction.Applicant,
			Inventors:        cfg.Extraction.Inventor,
			IPCCodes:         cfg.Extraction.IPC,
			CPCCodes:         cfg.Extraction.CPC,
			Countries:        cfg.Extraction.Country,
		},
		RecordLimit: cfg.Extraction.RecordLimit,
		WindowSize:  cfg.Extraction.WindowSize,
		WindowDelay: cfg.OPS.WindowDelay,
	})
	if err != nil {
		if result == nil || len(result.Records) == 0 {
			return err
		}
		logger.Warn("run interrupted, exporting partial results",
			logging.Int("records", len(result.Records)), logging.Err(err))
	}

	outputPath := cfg.Output.Path
	if outputPath == "" {
		outputPath = extraction.DefaultOutputPath(cfg.Extraction.Year, time.Now())
	}
	if err := extraction.ExportCSV(outputPath, result.Records); err != nil {
		return err
	}

	printSummary(cmd, outputPath, result)
	return nil
}

// applyFlagOverrides copies set flags onto the loaded configuration, so
// precedence is flags > env > file > defaults.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, opts *extractOptions) {
	f := cmd.Flags()
	if f.Changed("client-id") {
		cfg.Auth.ClientID = opts.ClientID
	}
	if f.Changed("client-secret") {
		cfg.Auth.ClientSecret = opts.ClientSecret
	}
	if f.Changed("year") {
		cfg.Extraction.Year = opts.Year
	}
	if f.Changed("limit") {
		cfg.Extraction.RecordLimit = opts.RecordLimit
	}
	if f.Changed("window") {
		cfg.Extraction.WindowSize = opts.WindowSize
	}
	if f.Changed("window-delay") {
		cfg.OPS.WindowDelay = opts.WindowDelay
	}
	if f.Changed("title") {
		cfg.Extraction.TitleKeywords = opts.TitleKeywords
	}
	if f.Changed("abstract") {
		cfg.Extraction.AbstractKeywords = opts.AbstractKeywords
	}
	if f.Changed("applicant") {
		cfg.Extraction.Applicant = opts.Applicant
	}
	if f.Changed("inventor") {
		cfg.Extraction.Inventor = opts.Inventor
	}
	if f.Changed("ipc") {
		cfg.Extraction.IPC = opts.IPC
	}
	if f.Changed("cpc") {
		cfg.Extraction.CPC = opts.CPC
	}
	if f.Changed("country") {
		cfg.Extraction.Country = opts.Country
	}
	if f.Changed("output") {
		cfg.Output.Path = opts.OutputPath
	}
	if f.Changed("metrics") {
		cfg.Metrics.Enabled = opts.Metrics
	}
	if f.Changed("metrics-addr") {
		cfg.Metrics.ListenAddr = opts.MetricsAddr
	}
}

// startMetricsListener exposes the collector on /metrics for the duration
// of the run.
func startMetricsListener(addr string, collector *metrics.Collector, logger logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics listener stopped", logging.Err(err))
		}
	}()
	logger.Info("metrics listener started", logging.String("addr", addr))
}

// printSummary reports the run outcome on stdout, mirroring the field
// coverage panel of the historical tool.
func printSummary(cmd *cobra.Command, outputPath string, result *extraction.RunResult) {
	out := cmd.OutOrStdout()
	stats := result.Stats

	fmt.Fprintf(out, "Records assembled:   %d (of %d matching)\n", stats.Assembled, result.TotalResults)
	fmt.Fprintf(out, "  publication dates: %d\n", stats.WithPublicationDate)
	fmt.Fprintf(out, "  applicant names:   %d\n", stats.WithApplicantName)
	fmt.Fprintf(out, "  CPC main codes:    %d\n", stats.WithCPCMain)
	fmt.Fprintf(out, "  representatives:   %d\n", stats.WithRepresentative)
	fmt.Fprintf(out, "  oppositions:       %d\n", stats.WithOpposition)
	fmt.Fprintf(out, "  appeals:           %d\n", stats.WithAppeal)
	if stats.EntriesDropped > 0 {
		fmt.Fprintf(out, "Entries dropped:     %d (no resolvable identifier)\n", stats.EntriesDropped)
	}
	if stats.WindowsSkipped > 0 {
		fmt.Fprintf(out, "Windows skipped:     %d\n", stats.WindowsSkipped)
	}
	fmt.Fprintf(out, "Output written to:   %s\n", outputPath)
}
