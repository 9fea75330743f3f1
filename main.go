// Package main is the entry point for the stackwatch-backend microservice:
// it wires the database, the resolution pipeline, the REST/GraphQL API and
// the background sync loop.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/stackwatch/stackwatch-backend/catalog"
	"github.com/stackwatch/stackwatch-backend/clients"
	"github.com/stackwatch/stackwatch-backend/database"
	"github.com/stackwatch/stackwatch-backend/internal/api"
	"github.com/stackwatch/stackwatch-backend/internal/scheduler"
	"github.com/stackwatch/stackwatch-backend/resolver"
	"github.com/stackwatch/stackwatch-backend/restapi/modules/technologies"
	"github.com/stackwatch/stackwatch-backend/store"
	"github.com/stackwatch/stackwatch-backend/util"
)

func main() {
	// Local development convenience; the file is absent in containers.
	_ = godotenv.Load()

	db := database.InitializeDatabase()
	logger := database.InitLogger()

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load technology catalog: %v", err)
	}

	st := store.NewTechnologyStore(db, logger)
	slugs := store.NewSlugCache(db)

	eol := clients.NewEndOfLifeClient()
	discovery := catalog.NewDiscoverer(slugs, eol, logger)

	synth := &resolver.Synthesizer{Logger: logger}
	if ai := clients.NewOllamaClientFromEnv(); ai != nil {
		synth.AI = ai
		logger.Sugar().Infof("AI advisor enabled, model %s", ai.Model)
	}

	analyzer := &resolver.Analyzer{
		Catalog: cat,
		Versions: &resolver.VersionResolver{
			Npm:    clients.NewNpmClient(),
			PyPI:   clients.NewPyPIClient(),
			GitHub: clients.NewGitHubClient(),
			Logger: logger,
		},
		Lifecycle: &resolver.LifecycleResolver{
			API:       eol,
			Discovery: discovery,
			Logger:    logger,
		},
		Vulnerabilities: &resolver.VulnerabilityResolver{
			DB:     clients.NewOSVClient(),
			Logger: logger,
		},
		Synthesizer: synth,
		Store:       st,
		Logger:      logger,
	}

	deps := technologies.Deps{
		Store:           st,
		Analyzer:        analyzer,
		Catalog:         cat,
		AnalyzeAllDelay: time.Duration(util.GetEnvInt("ANALYZE_ALL_DELAY_MS", 500)) * time.Millisecond,
		ImportDelay:     200 * time.Millisecond,
		Logger:          logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.New(st, analyzer, logger).Start(ctx)

	app := api.NewFiberApp(deps)

	port := util.GetEnvDefault("MS_PORT", "8080")
	logger.Sugar().Infof("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
