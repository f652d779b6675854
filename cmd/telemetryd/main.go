package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/app"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/samplers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/configs"
)

func main() {
	// Load configuration
	cfg, err := configs.LoadConfig("./configs/configs.yml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize application
	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	// Start export server in goroutine
	go func() {
		if err := application.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	}()

	// Drive a simulated playback session until interrupted
	source := samplers.NewSimulatedSource()
	application.Tracker().Start(source, samplers.Context{
		FlowID:    "demo-flow",
		SegmentID: "segment-0",
		SourceID:  "demo-content",
	})
	source.Emit(samplers.Event{Kind: samplers.EventLoadStart})
	source.Emit(samplers.Event{Kind: samplers.EventReady})
	source.Emit(samplers.Event{Kind: samplers.EventPlay})

	playbackTicker := time.NewTicker(time.Second)
	defer playbackTicker.Stop()
	go func() {
		for range playbackTicker.C {
			source.Advance(time.Second)
		}
	}()

	fmt.Println("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	source.Emit(samplers.Event{Kind: samplers.EventEnded})
	playbackTicker.Stop()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
	}
}
