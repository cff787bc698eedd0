package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/scavlabs/scavenger/internal/agent"
	"github.com/scavlabs/scavenger/internal/archive"
	"github.com/scavlabs/scavenger/internal/gcs"
	"github.com/scavlabs/scavenger/internal/logging"
	"github.com/scavlabs/scavenger/internal/oai"
	"github.com/scavlabs/scavenger/internal/tools"
)

// runAssistant wires the orchestrator and runs the configured tasks through
// the console, archiving the session afterwards when a bucket is set.
func runAssistant(cfg cliConfig, stdout, stderr io.Writer) int {
	logger := logging.Init("scavenger", cfg.logLevel)
	logger.Debug().
		Str("base_url", cfg.baseURL).Str("base_url_source", cfg.baseURLSource).
		Str("model", cfg.model).Str("model_source", cfg.modelSource).
		Str("api_key", oai.MaskAPIKeyLast4(cfg.apiKey)).
		Msg("resolved completion settings")

	client := oai.NewClientWithRetry(cfg.baseURL, cfg.apiKey, cfg.httpTimeout,
		oai.RetryPolicy{MaxRetries: cfg.httpRetries, Backoff: 500 * time.Millisecond})

	var extra []tools.Spec
	if cfg.toolsPath != "" {
		reg := tools.NewRegistry()
		if err := tools.LoadManifest(cfg.toolsPath, reg); err != nil {
			fmt.Fprintf(stderr, "error: load tools manifest: %v\n", err)
			return 1
		}
		extra = reg.Specs()
	}

	console := agent.NewConsole(stdout)
	orc := agent.NewOrchestrator(client, cfg.model, console, !cfg.noStream, extra...)
	orc.MaxToolIterations = cfg.maxIterations

	session := archive.NewSession(cfg.model)
	ctx := context.Background()
	for _, task := range cfg.tasks {
		logger.Info().Str("task", task).Msg("running task")
		res, err := orc.Run(ctx, task, console)
		console.Summary()
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		session.Record(task, res.Messages, res.FinalText)
	}

	if cfg.archiveBucket != "" {
		store := gcs.New("", "", cfg.gcpAPIKey)
		defer func() { _ = store.Close() }()
		arch := &archive.Archiver{
			Bucket:    cfg.archiveBucket,
			Store:     store,
			AuditPath: auditPathToday(),
		}
		infos, err := arch.Save(ctx, session)
		if err != nil {
			logger.Warn().Err(err).Msg("session archive failed")
		} else {
			for _, info := range infos {
				logger.Info().Str("object", info.URL).Msg("archived")
			}
		}
	}
	return 0
}

func auditPathToday() string {
	return filepath.Join(tools.AuditDir(), time.Now().UTC().Format("20060102")+".log")
}
