package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumen-labs/moodamp/internal/adapters/library"
	"github.com/lumen-labs/moodamp/internal/adapters/rest"
	"github.com/lumen-labs/moodamp/internal/adapters/spotify"
	"github.com/lumen-labs/moodamp/internal/core/ports"
	"github.com/lumen-labs/moodamp/internal/core/services"
	"github.com/lumen-labs/moodamp/internal/worker"
)

func main() {
	// 1. Configuration (Environment Variables)
	musicRoot := os.Getenv("MUSIC_ROOT")
	if musicRoot == "" {
		musicRoot = "music"
	}
	storagePath := os.Getenv("CATALOG_PATH")
	if storagePath == "" {
		storagePath = "moodamp.db"
	}
	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":5055"
	}

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Library Catalog
	catalog, err := library.NewCatalog(storagePath, musicRoot)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize song catalog: %v", err)
	}
	defer catalog.Close()

	entries, err := catalog.Scan(context.Background())
	if err != nil {
		log.Fatalf("FATAL: Failed to scan music library at %s: %v", musicRoot, err)
	}
	log.Printf("📁 Catalogued %d tracks under %s", len(entries), musicRoot)

	// -- Spotify Adapter (optional fallback)
	var preview ports.PreviewSource
	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		preview = spotify.NewClientCredentials(context.Background(), clientID, clientSecret)
		log.Println("🎧 Spotify preview fallback enabled")
	} else {
		log.Println("WARN spotify: credentials missing, preview fallback disabled")
	}

	// 3. Initialize Core Logic (The Driver)
	svc := services.NewSelector(catalog, preview)

	// 4. Background probe workers fill in track durations after the scan.
	pool := worker.NewPool(catalog, 100)
	pool.Start(2)
	defer pool.Stop()
	for _, e := range entries {
		pool.Submit(worker.Job{SongID: e.ID, Path: e.AbsPath})
	}

	// 5. Initialize "Driving" Adapter (The Interface)
	handler := rest.NewHandler(svc, catalog, musicRoot, preview != nil)

	log.Println("------------------------------------------------")
	log.Printf("🎶 moodamp song API is running on %s", listenAddr)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
