package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	theme "github.com/goliatone/go-theme"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-courierform/internal/config"
	"github.com/goliatone/go-courierform/internal/printer"
	"github.com/goliatone/go-courierform/internal/prompt"
	"github.com/goliatone/go-courierform/pkg/formschema"
	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/orchestrator"
	"github.com/goliatone/go-courierform/pkg/panel"
	"github.com/goliatone/go-courierform/pkg/pricing"
)

func main() {
	printValues := flag.Bool("values", false, "print the collected values as JSON")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	out := printer.New(nil, nil)

	decl, err := loadDeclaration(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load form declaration: %v", err)
	}
	policy, err := cfg.FormPolicy()
	if err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}

	var updater *panel.Updater
	route := func() pricing.Route {
		return pricing.Route{Distance: cfg.RouteDistance, FromID: cfg.RouteFrom, ToID: cfg.RouteTo}
	}
	options := []orchestrator.Option{orchestrator.WithPolicy(policy)}
	if cfg.PricingEnabled() {
		options = append(options, orchestrator.WithChangeHook(func(r orchestrator.Readiness) {
			if updater != nil {
				updater.Hook(ctx, route, func(err error) {
					out.Warning("price lookup: %v", err)
				})(r)
			}
		}))
	}

	orch, err := orchestrator.New(decl, options...)
	if err != nil {
		log.Fatalf("Failed to start form session: %v", err)
	}

	if cfg.PricingEnabled() {
		updater, err = newUpdater(cfg, orch)
		if err != nil {
			log.Fatalf("Failed to configure pricing: %v", err)
		}
	}

	readiness, err := prompt.NewSession(orch, prompt.NewSurveyDriver(), out).Run(ctx)
	if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
		out.Warning("Aborted")
		os.Exit(130)
	}
	if err != nil {
		log.Fatalf("Form session failed: %v", err)
	}

	if updater != nil {
		view, err := updater.Update(ctx, route())
		if err != nil {
			out.Warning("price lookup: %v", err)
		}
		if view.Price != "" {
			out.Info("Delivery price: %s", view.Price)
		}
	}
	out.Readiness(readiness)

	if *printValues {
		data, err := json.MarshalIndent(orch.Values(), "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode values: %v", err)
		}
		fmt.Println(string(data))
	}
	if !readiness.CanSubmit {
		os.Exit(1)
	}
}

func loadDeclaration(ctx context.Context, cfg config.Config) (formstate.Declaration, error) {
	switch {
	case cfg.OpenAPIFile != "":
		raw, err := os.ReadFile(cfg.OpenAPIFile)
		if err != nil {
			return formstate.Declaration{}, err
		}
		return formschema.FromOpenAPI(ctx, raw, cfg.OperationID)
	case cfg.FormsDir != "":
		store, err := formschema.LoadFS(os.DirFS(cfg.FormsDir))
		if err != nil {
			return formstate.Declaration{}, err
		}
		return store.Form(cfg.FormName)
	default:
		return formschema.Default()
	}
}

func newUpdater(cfg config.Config, source panel.ReadinessSource) (*panel.Updater, error) {
	client, err := pricing.NewHTTPClient(cfg.PriceEndpoint, pricing.WithTimeout(cfg.PriceTimeout))
	if err != nil {
		return nil, err
	}

	var lookup pricing.Lookup = client
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		lookup = pricing.NewCache(rdb, client, pricing.WithTTL(cfg.PriceCacheTTL))
	}

	var renderOpts []panel.Option
	if cfg.ThemeName != "" {
		renderOpts = append(renderOpts, panel.WithTheme(&theme.RendererConfig{
			Theme:   cfg.ThemeName,
			Variant: cfg.ThemeVariant,
		}))
	}
	renderer, err := panel.NewRenderer(renderOpts...)
	if err != nil {
		return nil, err
	}

	var sink panel.Sink
	if cfg.PanelOut != "" {
		sink = func(html string, _ panel.View) {
			if err := os.WriteFile(cfg.PanelOut, []byte(html), 0o644); err != nil {
				log.Printf("write panel: %v", err)
			}
		}
	}
	return panel.NewUpdater(source, pricing.NewTracker(lookup), renderer, sink), nil
}
