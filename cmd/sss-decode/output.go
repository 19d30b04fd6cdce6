package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/XBigRiceH/SeawardSuperStringParser/internal/config"
	"github.com/XBigRiceH/SeawardSuperStringParser/pkg/sss"
)

func writeOutput(cfg config.OutputConfig, res sss.Result) error {
	if cfg.Path == "" || cfg.Path == "-" {
		return render(os.Stdout, cfg.Format, res)
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := render(f, cfg.Format, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func render(w io.Writer, format string, res sss.Result) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Document())
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res.Document()); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case config.FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(sss.RowHeader); err != nil {
			return err
		}
		for _, row := range sss.Rows(res) {
			if err := cw.Write(row.Strings()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
