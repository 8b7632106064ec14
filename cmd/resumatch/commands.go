package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/resumatch"
	"github.com/poiesic/resumatch/config"
	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/reindex"
	"github.com/poiesic/resumatch/server"
)

func openEngine(cfg *config.AppConfig) (*resumatch.Engine, error) {
	opts := []resumatch.Option{
		resumatch.WithAIConfig(cfg.AIConfig()),
		resumatch.WithBackend(cfg.Data.Backend),
		resumatch.WithLogger(slog.Default()),
		resumatch.WithExtensions(cfg.Ingestion.Extensions...),
		resumatch.WithMinTextLength(cfg.Ingestion.MinTextLength),
		resumatch.WithAlpha(cfg.Search.SemanticWeight),
		resumatch.WithCandidates(cfg.Search.Candidates),
		resumatch.WithResults(cfg.Search.Results),
		resumatch.WithMinJobLength(cfg.Search.MinJobLength),
	}
	if cfg.Ingestion.PoolSize > 0 {
		opts = append(opts, resumatch.WithPoolSize(cfg.Ingestion.PoolSize))
	}

	engine, err := resumatch.Open(cfg.Data.IndexDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return engine, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dir := cfg.Data.ResumeDir
	if c.IsSet("dir") {
		dir = c.String("dir")
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Resume directory: %s\n", dir)
	fmt.Fprintf(os.Stderr, "Index: %s (%s)\n", cfg.Data.IndexDir, cfg.Data.Backend)
	fmt.Fprintln(os.Stderr)

	report, err := engine.Ingest(ctx, dir)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	printReport(c.App.Writer, report)
	return nil
}

func rankCommand(c *cli.Context) error {
	ctx := context.Background()

	job, err := readJob(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("alpha") {
		cfg.Search.SemanticWeight = c.Float64("alpha")
	}
	candidates, results := cfg.Search.Candidates, cfg.Search.Results
	if c.IsSet("candidates") {
		candidates = c.Int("candidates")
	}
	if c.IsSet("results") {
		results = c.Int("results")
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	matches, err := engine.RankN(ctx, job, candidates, results)
	if errors.Is(err, core.ErrNoCandidates) {
		return fmt.Errorf("no resumes indexed, run ingest first: %w", err)
	}
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}
	printResults(c.App.Writer, matches)
	return nil
}

func explainCommand(c *cli.Context) error {
	ctx := context.Background()

	job, err := readJob(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	analysis, err := engine.Explain(ctx, c.String("resume"), job)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	printAnalysis(c.App.Writer, analysis)
	return nil
}

func statsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	stats := engine.Stats()
	w := c.App.Writer
	fmt.Fprintf(w, "Index: %s (%s)\n", cfg.Data.IndexDir, cfg.Data.Backend)
	fmt.Fprintf(w, "Resumes: %d\n", stats.TotalDocuments)
	fmt.Fprintf(w, "Dimension: %d\n", stats.Dimension)
	fmt.Fprintf(w, "Ready: %t\n", stats.IndexReady)
	return nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	srv, err := server.New(engine, server.Config{
		ResumeDir:       cfg.Data.ResumeDir,
		MaxUploadBytes:  cfg.MaxUploadBytes(),
		Extensions:      cfg.Ingestion.Extensions,
		ReadTimeout:     time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout:    time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownSec) * time.Second,
	}, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		Logger:         slog.Default(),
	}
	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Index: %s (%s)\n", cfg.Data.IndexDir, cfg.Data.Backend)
	fmt.Fprintf(os.Stderr, "Embedding provider: %s\n", cfg.Embedding.Provider)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.Embedding.Model)
	fmt.Fprintf(os.Stderr, "Dimension: %d\n", cfg.Embedding.Dimension)
	fmt.Fprintln(os.Stderr)

	if _, err := engine.Reindex(ctx, reindexConfig, os.Stderr); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

// readJob returns the job description from --job or --job-file.
func readJob(c *cli.Context) (string, error) {
	switch {
	case c.IsSet("job") && c.IsSet("job-file"):
		return "", fmt.Errorf("use either --job or --job-file, not both")
	case c.IsSet("job-file"):
		data, err := os.ReadFile(c.Path("job-file"))
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return string(data), nil
	case c.IsSet("job"):
		return c.String("job"), nil
	default:
		return "", fmt.Errorf("a job description is required (--job or --job-file)")
	}
}

func printReport(w io.Writer, r *core.IngestReport) {
	fmt.Fprintf(w, "Added: %d\n", r.Added)
	fmt.Fprintf(w, "Skipped (already indexed): %d\n", r.SkippedExisting)
	fmt.Fprintf(w, "Skipped (duplicate content): %d\n", r.SkippedDuplicates)
	fmt.Fprintf(w, "Unsupported: %d\n", r.Unsupported)
	fmt.Fprintf(w, "Failed: %d\n", r.Failed)
	for _, fe := range r.Errors {
		fmt.Fprintf(w, "  %s\n", fe.Error())
	}
	fmt.Fprintf(w, "Total resumes: %d\n", r.Total)
}

func printResults(w io.Writer, results []core.MatchResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tRESUME\tHYBRID\tSEMANTIC\tSKILLS\tMATCHED\tMISSING")
	for _, m := range results {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
			m.Rank, m.DocumentIdentifier, m.HybridScore, m.SemanticScore, m.SkillsScore,
			list(m.MatchedSkills), list(m.MissingSkills))
	}
	tw.Flush()
}

func printAnalysis(w io.Writer, a *core.Analysis) {
	fmt.Fprintf(w, "Overall fit: %s (%.2f)\n", a.OverallFit, a.MatchScore)
	fmt.Fprintf(w, "Reasoning: %s\n", a.Reasoning)
	fmt.Fprintln(w, "Strengths:")
	for _, s := range a.Strengths {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	fmt.Fprintln(w, "Weaknesses:")
	for _, s := range a.Weaknesses {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
