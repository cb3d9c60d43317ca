package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lumen-labs/moodamp/internal/adapters/audio"
	"github.com/lumen-labs/moodamp/internal/adapters/camera"
	"github.com/lumen-labs/moodamp/internal/adapters/console"
	"github.com/lumen-labs/moodamp/internal/adapters/detect"
	"github.com/lumen-labs/moodamp/internal/adapters/songapi"
	"github.com/lumen-labs/moodamp/internal/core/services"
)

func main() {
	// 1. Configuration (Environment Variables)
	songAPIURL := os.Getenv("SONG_API_URL")
	if songAPIURL == "" {
		songAPIURL = "http://localhost:5055"
	}
	detectURL := os.Getenv("DETECT_URL")
	if detectURL == "" {
		detectURL = "http://localhost:5005"
	}
	sampleInterval := durationEnv("SAMPLE_INTERVAL", services.DefaultSampleInterval)
	scheduleInterval := durationEnv("SCHEDULE_INTERVAL", services.DefaultScheduleInterval)

	// 2. Initialize Adapters
	httpClient := &http.Client{Timeout: 10 * time.Second}
	cam := camera.New()
	detector := detect.NewClient(detectURL, httpClient)
	songs := songapi.NewClient(httpClient, songAPIURL)
	player := audio.NewPlayer()
	ui := console.New()

	// 3. Core Controller
	ctrl := services.NewController(services.ControllerConfig{
		Camera:           cam,
		Detector:         detector,
		Songs:            songs,
		Player:           player,
		UI:               ui,
		SampleInterval:   sampleInterval,
		ScheduleInterval: scheduleInterval,
	})

	log.Println("------------------------------------------------")
	log.Printf("🎵 moodamp player - song API %s, detector %s", songAPIURL, detectURL)
	log.Println("   commands: start | stop | play | quit")
	log.Println("------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			commands <- strings.TrimSpace(strings.ToLower(scanner.Text()))
		}
		close(commands)
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			log.Println("Shutting down...")
			ctrl.Stop()
			return
		case cmd, ok := <-commands:
			if !ok {
				ctrl.Stop()
				return
			}
			switch cmd {
			case "start":
				if err := ctrl.Start(ctx); err != nil {
					log.Printf("WARN start failed: %v", err)
				}
			case "stop":
				ctrl.Stop()
			case "play":
				// Retries playback blocked pending a user gesture.
				if err := ctrl.Resume(); err != nil {
					log.Printf("WARN resume failed: %v", err)
				}
			case "quit", "exit":
				ctrl.Stop()
				return
			case "":
			default:
				log.Printf("unknown command %q (start | stop | play | quit)", cmd)
			}
		}
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("WARN invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
