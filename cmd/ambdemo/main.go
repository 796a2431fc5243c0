// Command ambdemo races simulated upstreams described in a YAML file and
// prints the sequence of the one that answered first.
//
//	ambdemo -config race.yaml -timeout 500ms
//
// Without -config a built-in three-source race is used.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/baxromumarov/amb"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML race description")
	timeout := flag.Duration("timeout", 0, "override timeout_ms from the config")
	verbose := flag.Bool("v", false, "log every race event")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	amb.SetLogger(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *timeout > 0 {
		cfg.TimeoutMS = int(timeout.Milliseconds())
	}

	if err := run(cfg, logger); err != nil {
		fmt.Println("Final error:", err)
		os.Exit(1)
	}
}

func run(cfg *Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	sources := make([]amb.Source[string], len(cfg.Sources))
	for i, sc := range cfg.Sources {
		sources[i] = simulate(sc)
	}

	race := amb.AmbSlice(sources, amb.WithOnEvent(func(e amb.Event) {
		attrs := []any{"subscription", e.Subscription, "event", e.Kind.String()}
		if e.Source >= 0 {
			attrs = append(attrs, "source", cfg.Sources[e.Source].Name)
		}
		if e.Err != nil {
			attrs = append(attrs, "error", e.Err)
		}
		logger.Debug("race", attrs...)
	}))

	now := time.Now()
	values, err := amb.Collect(ctx, race)
	for _, v := range values {
		fmt.Println(" ", v)
	}
	fmt.Println("Elapsed time:", time.Since(now).Round(time.Millisecond))
	return err
}

// simulate builds a source that waits for its configured delay, then
// emits its items paced by a token bucket.
func simulate(sc SourceConfig) amb.Source[string] {
	return amb.FromFunc[string](func(ctx context.Context, emit func(string)) error {
		select {
		case <-time.After(time.Duration(sc.DelayMS) * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}

		if sc.Fail != "" {
			return errors.New(sc.Name + ": " + sc.Fail)
		}

		limit := rate.Inf
		if sc.Rate > 0 {
			limit = rate.Limit(sc.Rate)
		}
		limiter := rate.NewLimiter(limit, 1)

		for i := range sc.Items {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			emit(fmt.Sprintf("%s#%d", sc.Name, i))
		}
		return nil
	})
}
