package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reposcope/internal/analysis"
	"reposcope/internal/archive"
	"reposcope/internal/config"
	"reposcope/internal/githubapi"
	"reposcope/internal/llm"
	"reposcope/internal/middleware"
	"reposcope/internal/repofetch"
	"reposcope/internal/server"
	"reposcope/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st := store.Open(cfg.DatabaseURL)
	defer st.Close()

	var arc *archive.Store
	if cfg.Archive.Enabled {
		arc, err = archive.New(archive.Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			log.Printf("archive disabled: %v", err)
			arc = nil
		}
	}

	model, err := llm.New(context.Background(), cfg.LLM.Provider, cfg.LLM.Model)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	defer model.Close()
	log.Printf("Using model %s", model.Name())

	svc := &analysis.Service{
		Store:   st,
		Archive: arc,
		LLM:     model,
		Fetcher: repofetch.New(cfg.WorkDir),
	}
	api := &apiServer{
		store:    st,
		github:   githubapi.NewClient(cfg.GitHubToken),
		analysis: svc,
	}

	srv := server.New(cfg.Port, middleware.CORS(api.routes()))

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
