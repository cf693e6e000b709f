package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	accountsadapter "github.com/gplaydev/gtv-sdk-go/internal/adapters/accounts"
	statusadapter "github.com/gplaydev/gtv-sdk-go/internal/adapters/render/status"
	tomlstore "github.com/gplaydev/gtv-sdk-go/internal/adapters/store/toml"
	"github.com/gplaydev/gtv-sdk-go/internal/adapters/vendorsim/sim"
	"github.com/gplaydev/gtv-sdk-go/internal/application"
	"github.com/gplaydev/gtv-sdk-go/internal/ports"
	"github.com/spf13/viper"
)

const (
	defaultIssuer      = "https://accounts.gplaydev.com"
	defaultCatalogSeed = "coins_small=$0.99,coins_large=$4.99,premium_pass=$9.99"
)

var errNotInitialized = errors.New(`no client id configured; run "gtv init --client-id <id>" first`)

type app struct {
	facade         *application.SessionFacade
	purchases      *application.PurchaseCoordinator
	store          ports.SessionStore
	sdkConfig      sdkConfig
	statusRenderer func(statusadapter.Snapshot, statusadapter.RenderOptions) (string, error)
	browserLogin   browserLoginConfig
	log            *slog.Logger
	now            func() time.Time
}

// sdkConfig carries the facade configuration that is not persisted in the
// session store; it is resolved from the environment at wire time.
type sdkConfig struct {
	AttributionToken string
	Environment      string
	AdPlacementID    string
}

type browserLoginConfig struct {
	Issuer     string
	ListenAddr string
	Timeout    time.Duration
}

func wireApp() (*app, error) {
	log := newLogger()

	store, err := tomlstore.NewStore(viper.New(), log)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	network := sim.NewAdNetwork(sim.AdNetworkOptions{
		LoadDelay:  envDuration("GTV_SIM_AD_DELAY", 0),
		FailEveryN: envInt("GTV_SIM_AD_FAIL_EVERY", 0),
		Logger:     log,
	})
	storefront := sim.NewStorefront(sim.StorefrontOptions{
		Catalog:  parseCatalogSeed(envOrDefault("GTV_SIM_CATALOG", defaultCatalogSeed)),
		Outcomes: parseOutcomeSeed(os.Getenv("GTV_SIM_OUTCOMES")),
		Clock:    ports.SystemClock{},
		Logger:   log,
	})

	bus := application.NewEventBus()
	purchases := application.NewPurchaseCoordinator(storefront, bus, log)

	facade := application.NewSessionFacade(application.Deps{
		Store:       store,
		Bus:         bus,
		Ads:         application.NewAdSupplyQueue(network, bus, log),
		Purchases:   purchases,
		Attribution: sim.NewAttribution(log),
		Push:        sim.NewPush(log),
		Accounts:    accountsadapter.NewClient(envOrDefault("GTV_ACCOUNTS_BASE_URL", defaultIssuer), http.DefaultClient),
		Logger:      log,
	})

	return &app{
		facade:    facade,
		purchases: purchases,
		store:     store,
		sdkConfig: sdkConfig{
			AttributionToken: os.Getenv("GTV_ATTRIBUTION_TOKEN"),
			Environment:      envOrDefault("GTV_ENVIRONMENT", "production"),
			AdPlacementID:    os.Getenv("GTV_AD_PLACEMENT"),
		},
		statusRenderer: statusadapter.Render,
		browserLogin: browserLoginConfig{
			Issuer:     envOrDefault("GTV_AUTH_ISSUER", defaultIssuer),
			ListenAddr: envOrDefault("GTV_AUTH_LISTEN", "127.0.0.1:1455"),
			Timeout:    5 * time.Minute,
		},
		log: log,
		now: time.Now,
	}, nil
}

// startSDK brings the facade up for commands that need live vendor
// integrations. The client id must have been persisted by a prior init.
// An empty placementID falls back to the environment configuration.
func (a *app) startSDK(ctx context.Context, placementID string) error {
	clientID := a.store.ClientID()
	if clientID == "" {
		return errNotInitialized
	}

	if placementID == "" {
		placementID = a.sdkConfig.AdPlacementID
	}

	err := a.facade.Init(ctx, application.Config{
		ClientID:         clientID,
		AttributionToken: a.sdkConfig.AttributionToken,
		Environment:      a.sdkConfig.Environment,
		AdPlacementID:    placementID,
	})
	if err != nil {
		return fmt.Errorf("initialize sdk: %w", err)
	}

	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("GTV_DEBUG") != "" {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// parseCatalogSeed reads "id=price,id=price" pairs; malformed entries are
// skipped.
func parseCatalogSeed(seed string) map[string]string {
	catalog := make(map[string]string)
	for _, entry := range strings.Split(seed, ",") {
		id, price, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || id == "" || price == "" {
			continue
		}
		catalog[id] = price
	}

	return catalog
}

// parseOutcomeSeed reads "id=outcome,id=outcome" pairs; entries naming an
// unknown outcome are skipped.
func parseOutcomeSeed(seed string) map[string]ports.PurchaseOutcome {
	if seed == "" {
		return nil
	}

	outcomes := make(map[string]ports.PurchaseOutcome)
	for _, entry := range strings.Split(seed, ",") {
		id, raw, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || id == "" {
			continue
		}
		switch outcome := ports.PurchaseOutcome(raw); outcome {
		case ports.PurchaseVerified, ports.PurchaseUnverified, ports.PurchaseCancelled, ports.PurchasePending:
			outcomes[id] = outcome
		}
	}

	return outcomes
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
