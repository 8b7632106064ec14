// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/resumatch/config"
	"github.com/poiesic/resumatch/reindex"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func jobFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "job",
			Aliases: []string{"j"},
			Usage:   "Job description text",
		},
		&cli.PathFlag{
			Name:  "job-file",
			Usage: "Read the job description from a file",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "resumatch",
		Usage: "Rank resumes against job descriptions",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   "resumatch.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.PathFlag{
				Name:  "index-dir",
				Usage: "Directory holding the persisted index",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Index storage backend (file, badger)",
			},
			&cli.StringFlag{
				Name:  "embedding-provider",
				Usage: "Embedding provider (local, openai)",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest new resumes from a directory",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Resume directory (defaults to data.resume_dir)",
					},
				},
			},
			{
				Name:   "rank",
				Usage:  "Rank indexed resumes against a job description",
				Action: rankCommand,
				Flags: append(jobFlags(),
					&cli.IntFlag{
						Name:  "candidates",
						Usage: "Number of nearest neighbors to re-rank",
					},
					&cli.IntFlag{
						Name:  "results",
						Usage: "Number of results to print",
					},
					&cli.Float64Flag{
						Name:  "alpha",
						Usage: "Weight of the semantic score (0-1)",
					},
				),
			},
			{
				Name:   "explain",
				Usage:  "Explain how one resume matches a job description",
				Action: explainCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "resume",
						Aliases:  []string{"r"},
						Usage:    "Identifier (file name) of the indexed resume",
						Required: true,
					},
				}, jobFlags()...),
			},
			{
				Name:   "stats",
				Usage:  "Show index statistics",
				Action: statsCommand,
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (defaults to server.addr)",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every indexed resume with the configured embedder",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of resumes to embed in each batch",
						Value: reindex.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N resumes",
						Value: 100,
					},
				},
			},
		},
	}
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"index-dir":          &cfg.Data.IndexDir,
		"backend":            &cfg.Data.Backend,
		"embedding-provider": &cfg.Embedding.Provider,
		"embedding-host":     &cfg.Embedding.Host,
		"embedding-model":    &cfg.Embedding.Model,
	}
	for name, field := range overrides {
		if c.IsSet(name) {
			*field = c.String(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// The flag wins over the config file.
	if !c.IsSet("log-level") && cfg.LogLevel != c.String("log-level") {
		level, err := parseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(newLogger(level))
	}
	return cfg, nil
}

func setupLogger(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(level))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	levelStr := strings.ToLower(s)
	switch levelStr {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
