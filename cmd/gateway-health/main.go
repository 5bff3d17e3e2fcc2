package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/syntaxstudio/gateway/internal/config"
	"github.com/syntaxstudio/gateway/internal/judge0"
)

const probeTimeout = 15 * time.Second

// gateway-health probes every configured Judge0 endpoint and prints a
// per-endpoint report. Exits non-zero when any endpoint is unhealthy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := judge0.NewRegistry(cfg.Endpoints)
	client := judge0.NewClient(registry, cfg.Credentials, judge0.ClientOptions{}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	statuses := client.CheckAll(ctx)

	healthy := color.New(color.FgGreen, color.Bold)
	unhealthy := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	failures := 0
	for _, st := range statuses {
		if st.Healthy {
			healthy.Print("  ok  ")
		} else {
			unhealthy.Print(" FAIL ")
			failures++
		}

		fmt.Printf(" %-40s", st.Endpoint)
		dim.Printf(" type=%s priority=%d", st.Type, st.Priority)
		if st.Healthy {
			dim.Printf(" rate_limit_remaining=%d", st.RateLimitRemaining)
		} else {
			fmt.Printf("  %s", st.Error)
		}
		fmt.Println()
	}

	if failures > 0 {
		unhealthy.Printf("\n%d of %d endpoints unhealthy\n", failures, len(statuses))
		os.Exit(1)
	}
	healthy.Printf("\nall %d endpoints healthy\n", len(statuses))
}
