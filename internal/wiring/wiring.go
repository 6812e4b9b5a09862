// Package wiring assembles every collaborator package into the two
// binaries' App structs: graph store, EDGAR/OFAC clients, the extract ->
// entityloader ingest pipelines, the scheduler, and the read-side
// services the HTTP API exposes. Kept separate from cmd/ so both
// cmd/scanner and cmd/server build the identical object graph.
package wiring

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/edgarintel/pipeline/internal/alertstore"
	"github.com/edgarintel/pipeline/internal/analyzer"
	"github.com/edgarintel/pipeline/internal/citations"
	"github.com/edgarintel/pipeline/internal/connections"
	"github.com/edgarintel/pipeline/internal/edgar"
	"github.com/edgarintel/pipeline/internal/entityloader"
	"github.com/edgarintel/pipeline/internal/graphqueries"
	"github.com/edgarintel/pipeline/internal/graphstore"
	"github.com/edgarintel/pipeline/internal/ingest"
	"github.com/edgarintel/pipeline/internal/ofac"
	"github.com/edgarintel/pipeline/internal/risk"
	"github.com/edgarintel/pipeline/internal/sanctions"
	"github.com/edgarintel/pipeline/internal/scheduler"
	"github.com/edgarintel/pipeline/internal/signal"
	"github.com/edgarintel/pipeline/internal/store"
)

// App holds the fully-wired object graph shared by cmd/scanner and
// cmd/server.
type App struct {
	Config      *store.Config
	Graph       *graphstore.Store
	Edgar       *edgar.Client
	OFAC        *ofac.Client
	Loader      *entityloader.Loader
	Queries     *graphqueries.Reader
	Feed        *signal.Feed
	Connections *connections.Service
	Risk        *risk.Engine
	Sanctions   *sanctions.Engine
	Citations   *citations.Service
	Scanner     *scheduler.Form4Scanner
	MarketScan  *scheduler.ScanCoordinator
}

// Build wires every package from cfg into a ready-to-use App.
func Build(ctx context.Context, cfg *store.Config) (*App, error) {
	graph, err := graphstore.New(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, cfg.Graph.Database)
	if err != nil {
		return nil, fmt.Errorf("wiring: graphstore.New: %w", err)
	}

	edgarClient, err := edgar.New(cfg.Edgar.UserAgent, cfg.Edgar.RequestsPerSec, time.Duration(cfg.Edgar.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("wiring: edgar.New: %w", err)
	}

	ofacClient := ofac.New(cfg.OFAC.CacheDir, time.Duration(cfg.OFAC.TimeoutSeconds)*time.Second, cfg.OFAC.FreshnessDays)

	var llm analyzer.TextAnalyzer
	if apiKey := os.Getenv("OPENAI_API_KEY"); cfg.Analyzer.Provider == "openai" && apiKey != "" {
		llm = analyzer.NewOpenAI(apiKey, cfg.Analyzer.Model, cfg.Analyzer.MaxTokens, float64(cfg.Analyzer.Temperature), cfg.Analyzer.MaxRetries)
	} else {
		llm = analyzer.NewNoop()
	}

	loader := entityloader.New(graph)
	queries := graphqueries.New(graph)
	alerts := alertstore.New(graph)

	form4Pipeline := ingest.NewForm4Pipeline(edgarClient, loader)
	eightKPipeline := ingest.NewEightKPipeline(edgarClient, loader, llm)
	discoverer := ingest.NewFilerDiscovery(edgarClient)
	sicLookup := &ingest.GraphThenEDGARSIC{Graph: queries, EDGAR: ingest.NewSICFallback(edgarClient)}
	universe := ingest.NewEightKUniverse(edgarClient, 0)

	clusterEngine := signal.NewEngine(queries)
	clusterAdapter := ingest.NewClusterAdapter(clusterEngine)
	alertAdapter := ingest.NewAlertAdapter(alerts)

	checkpoints := scheduler.NewFileCheckpointStore(cfg.Scheduler.CheckpointPath)

	scanner := scheduler.NewForm4Scanner(checkpoints, discoverer, sicLookup, queries, form4Pipeline, clusterAdapter, queries, alertAdapter)
	marketScan := scheduler.NewScanCoordinator(universe, eightKPipeline)

	feed := signal.NewFeed(queries, queries)
	connSvc := connections.New(graph)
	riskEngine := risk.New(graph)
	sanctionsEngine := sanctions.New(graph)
	citationSvc := citations.New(graph)

	return &App{
		Config:      cfg,
		Graph:       graph,
		Edgar:       edgarClient,
		OFAC:        ofacClient,
		Loader:      loader,
		Queries:     queries,
		Feed:        feed,
		Connections: connSvc,
		Risk:        riskEngine,
		Sanctions:   sanctionsEngine,
		Citations:   citationSvc,
		Scanner:     scanner,
		MarketScan:  marketScan,
	}, nil
}

// Close releases the graph driver's connection pool.
func (a *App) Close(ctx context.Context) error {
	return a.Graph.Close(ctx)
}
