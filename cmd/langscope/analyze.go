package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alimgiray/langscope/internal/export"
	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/internal/services"
	"github.com/alimgiray/langscope/pkg/config"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	org        bool
	skip       []string
	classifier string
	xlsx       string
	json       bool
	repos      []string
}

func newAnalyzeCommand(mode models.AnalysisMode, short string) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   string(mode) + " <login>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), mode, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.org, "org", false, "treat the login as an organization")
	flags.StringSliceVar(&opts.skip, "skip", nil, "repositories to skip, by name or owner/name")
	flags.StringVar(&opts.classifier, "classifier", "", "file classifier: linguist or enry (default from CLASSIFIER)")
	flags.StringVar(&opts.xlsx, "xlsx", "", "also write the report to this XLSX file")
	flags.BoolVar(&opts.json, "json", false, "print the raw results as JSON")
	if mode == models.AnalysisModeIndepth {
		flags.StringSliceVar(&opts.repos, "repo", nil, "owner/name repositories to scan instead of the account's own")
	}

	return cmd
}

func runAnalyze(ctx context.Context, out io.Writer, mode models.AnalysisMode, login string, opts *analyzeOptions) error {
	cfg := *config.AppConfig
	if opts.classifier != "" {
		cfg.Analysis.Classifier = opts.classifier
	}

	req := services.AnalysisRequest{
		Login:   login,
		Mode:    mode,
		Skipped: opts.skip,
	}
	if opts.org {
		req.Account = models.AccountKindOrganization
	}
	for _, slug := range opts.repos {
		repository, err := models.ParseRepository(slug)
		if err != nil {
			return err
		}
		req.Repositories = append(req.Repositories, repository)
	}

	service, err := services.NewLanguageServiceFromConfig(&cfg)
	if err != nil {
		return err
	}

	results, err := service.Analyze(ctx, req)
	if err != nil {
		return err
	}
	report := models.NewLanguageReport(login, mode, results)

	if opts.xlsx != "" {
		if err := writeXLSX(opts.xlsx, report); err != nil {
			return err
		}
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Results)
	}
	renderReport(out, report)
	return nil
}

func writeXLSX(path string, report *models.LanguageReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteReport(f, report); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
