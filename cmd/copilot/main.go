// Command copilot is a terminal client for the AI compliance copilot API.
package main

import (
	"fmt"
	"os"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driven/config/env"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driven/config/file"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driven/config/validate"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driven/copilotapi"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driven/metrics"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driven/pdfinspect"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driven/storage/memory"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/adapters/driving/cli"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/services"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetBuilder(build)
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}

// build wires driven adapters into the core services.
func build(opts cli.Options) (*cli.Services, error) {
	var store driven.ConfigStore
	fileStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		logger.Warn("config file unavailable, using defaults: %v", err)
		store = memory.NewConfigStore()
	} else {
		store = fileStore
	}

	environment, err := env.NewEnvironment(env.DefaultDotEnv)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	settings := services.NewSettingsService(store, environment, validate.NewValidator())
	resolved, err := settings.Resolve(opts.Overrides)
	if err != nil {
		return &cli.Services{Settings: settings}, err
	}

	api := copilotapi.NewClient(copilotapi.Config{
		BaseURL: resolved.BaseURL,
		Timeout: resolved.Timeout,
	})
	recorder := metrics.NewRecorder()

	ingestion := services.NewIngestionService(api, resolved.ZeroChunkPolicy)
	ingestion.SetDocumentInspector(pdfinspect.NewInspector())
	ingestion.SetMetricsRecorder(recorder)

	newQuery := func(docs driving.ActiveDocumentSource, privacy domain.PrivacyMode) driving.QueryController {
		q := services.NewQueryService(api, docs, privacy)
		q.SetMetricsRecorder(recorder)
		return q
	}

	return &cli.Services{
		Ingestion: ingestion,
		Query:     newQuery(ingestion, resolved.Privacy),
		Settings:  settings,
		Resolved:  resolved,
		Metrics:   recorder.Handler(),
		NewQuery:  newQuery,
	}, nil
}
