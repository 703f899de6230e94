package app

import (
	"context"
	"fmt"
	"log"

	"safespot/internal/classify"
	"safespot/internal/gateway/config"
	"safespot/internal/gateway/events"
	"safespot/internal/gateway/handler"
	"safespot/internal/gateway/repository/archive"
	"safespot/internal/gateway/repository/media"
	"safespot/internal/gateway/server"
	"safespot/internal/incident"
	incidentstore "safespot/internal/incident/store"
	"safespot/internal/intake"
	"safespot/internal/llmclient"
)

type App struct {
	server  *server.Server
	client  llmclient.LLMClient
	archive *archive.Store
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newLLMClient(ctx, cfg.Classify)
	if err != nil {
		return nil, fmt.Errorf("failed to init LLM client: %w", err)
	}

	hub := events.NewHub()
	esc := hubEscalator(hub)
	classifier := classify.New(client, esc)

	var seed []incident.Record
	if cfg.Seed {
		seed = incident.Seed()
	}
	st := incidentstore.New(seed...)

	photos := newPhotoStore(cfg.Photo)
	arch := archive.NewFromEnv()

	coord := intake.New(classifier, st,
		intake.WithPhotoStore(photos),
		intake.WithArchive(arch),
		intake.WithEventHub(hub),
		intake.WithTimeout(cfg.Classify.Timeout),
	)

	incidentHandler := handler.NewIncidentHandler(coord, st, photos)
	sessionHandler := handler.NewSessionHandler(st)
	eventsHandler := handler.NewEventsHandler(hub)

	mux := server.NewMux(incidentHandler, sessionHandler, eventsHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:  srv,
		client:  client,
		archive: arch,
	}, nil
}

func newLLMClient(ctx context.Context, cfg config.ClassifyConfig) (llmclient.LLMClient, error) {
	var base llmclient.LLMClient
	if cfg.Offline {
		log.Printf("classification running offline with the fake client")
		base = llmclient.NewFakeClient()
	} else {
		gemini, err := llmclient.NewGeminiClient(ctx, "", cfg.Model)
		if err != nil {
			return nil, err
		}
		base = gemini
	}
	return llmclient.Chain(base,
		llmclient.Logging(),
		llmclient.Retry(cfg.MaxAttempts, 0),
	), nil
}

func newPhotoStore(cfg config.PhotoConfig) media.Store {
	if !cfg.Enabled {
		return media.NewMemoryStore()
	}
	s3, err := media.NewS3Store(media.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		log.Printf("photo s3 store unavailable, falling back to memory: %v", err)
		return media.NewMemoryStore()
	}
	return s3
}

// hubEscalator logs the escalation and mirrors it onto the event hub
// for connected reviewers.
func hubEscalator(hub *events.Hub) classify.Escalator {
	base := classify.LogEscalator()
	return classify.EscalatorFunc(func(ctx context.Context, reason string) bool {
		ok := base.Escalate(ctx, reason)
		hub.PublishEscalation(reason)
		return ok
	})
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.client != nil {
		_ = a.client.Close()
	}
	_ = a.archive.Close()
	return a.server.Shutdown(ctx)
}
