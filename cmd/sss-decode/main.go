package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/config"
	"github.com/XBigRiceH/SeawardSuperStringParser/internal/monitor"
	"github.com/XBigRiceH/SeawardSuperStringParser/pkg/sss"
)

var (
	rootCmd = &cobra.Command{
		Use:   "sss-decode [file|hex]",
		Short: "Decode Seaward PAT .sss test logs",
		Long: "sss-decode reads the binary .sss log written by a Seaward portable appliance tester " +
			"and prints the machine info and test results as JSON, YAML or CSV report rows.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	configPath    string
	outputFormat  string
	outputPath    string
	metricsFile   string
	logLevel      string
	maxHeaderScan int
	hexInput      bool
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "YAML configuration file")
	flags.StringVarP(&outputFormat, "format", "f", config.FormatJSON, "output format: json, yaml or csv")
	flags.StringVarP(&outputPath, "out", "o", "", "write output to file instead of stdout")
	flags.BoolVar(&hexInput, "hex", false, "treat the argument as a hex dump; with no argument read hex dumps from stdin")
	flags.StringVar(&metricsFile, "metrics-file", "", "write decode metrics in Prometheus text format to this file")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.IntVar(&maxHeaderScan, "max-header-scan", 1024, "bytes to search for the test result header separator, 0 for no limit")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := setupLogger(cfg.Log)
	metrics := monitor.NewMetrics()
	opts := sss.DecodeOptions{
		MaxHeaderScan: headerScanLimit(cfg.Decode.MaxHeaderScan),
		Logger:        log,
		Observer:      metrics,
	}

	ctx := cmd.Context()
	switch {
	case len(args) == 1 && hexInput:
		err = runHex(ctx, cfg, opts, log, args[0])
	case len(args) == 1:
		err = runFile(ctx, cfg, opts, log, args[0])
	case hexInput:
		err = runInteractive(ctx, cfg, opts, log)
	default:
		err = errors.New("no input: pass a .sss file, or --hex to read hex dumps")
	}

	if cfg.Output.MetricsFile != "" {
		if werr := metrics.WriteTextfile(cfg.Output.MetricsFile); werr != nil {
			log.WithError(werr).Warn("failed to write metrics file")
		}
	}
	return err
}

// loadConfig reads the config file when given and applies flags that were
// set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if flags.Changed("out") {
		cfg.Output.Path = outputPath
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = metricsFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("max-header-scan") {
		cfg.Decode.MaxHeaderScan = maxHeaderScan
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if cfg.Output == "file" && cfg.FilePath != "" {
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err == nil {
			log.SetOutput(file)
		} else {
			log.Warnf("failed to open log file: %v, logging to stderr", err)
		}
	}
	return log
}

// headerScanLimit maps the config value, where 0 means no limit, onto
// DecodeOptions, where a negative value does.
func headerScanLimit(limit int) int {
	if limit == 0 {
		return -1
	}
	return limit
}

func runFile(ctx context.Context, cfg *config.Config, opts sss.DecodeOptions, log logrus.FieldLogger, path string) error {
	res, err := sss.DecodeFile(ctx, path, opts)
	return finish(cfg, log, path, res, err)
}

func runHex(ctx context.Context, cfg *config.Config, opts sss.DecodeOptions, log logrus.FieldLogger, hex string) error {
	res, err := sss.DecodeHex(ctx, hex, opts)
	return finish(cfg, log, "hex", res, err)
}

// finish writes whatever was decoded, even when decoding stopped early, and
// then reports the decode error.
func finish(cfg *config.Config, log logrus.FieldLogger, source string, res sss.Result, err error) error {
	if err != nil && res.Frames == 0 {
		return err
	}
	if werr := writeOutput(cfg.Output, res); werr != nil {
		return werr
	}
	logSummary(log.WithField("source", source), res)
	if err != nil {
		return fmt.Errorf("%s: decoding stopped early: %w", source, err)
	}
	return nil
}

func logSummary(log logrus.FieldLogger, res sss.Result) {
	var failed int
	for _, tr := range res.TestResults {
		if tr.Failed() {
			failed++
		}
	}
	entry := log.WithFields(logrus.Fields{
		"test_results": len(res.TestResults),
		"failed":       failed,
		"warnings":     len(res.Warnings),
	})
	if res.MachineInfo != nil {
		entry = entry.WithField("machine_serial_number", res.MachineInfo.SerialNumber)
	}
	for _, w := range res.Warnings {
		log.WithError(w).Warn("partial test result")
	}
	entry.Info("decode complete")
}

func runInteractive(ctx context.Context, cfg *config.Config, opts sss.DecodeOptions, log logrus.FieldLogger) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	log.Info("sss-decode hex mode. Paste a hex dump of a .sss stream and press Enter (Ctrl+D to exit).")
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := runHex(ctx, cfg, opts, log, line); err != nil {
			log.WithError(err).Error("failed to decode stream")
		}
	}
	return scanner.Err()
}
