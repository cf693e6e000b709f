package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
	"github.com/gplaydev/gtv-sdk-go/internal/ports"
)

var defaultUserInfoFields = []string{"avatar", "frame", "gender", "username", "address", "dob"}

// Config carries the host-supplied SDK configuration.
type Config struct {
	ClientID         string
	AttributionToken string
	Environment      string
	AdPlacementID    string
}

// Deps are the collaborators composed into a SessionFacade.
type Deps struct {
	Store       ports.SessionStore
	Bus         *EventBus
	Ads         *AdSupplyQueue
	Purchases   *PurchaseCoordinator
	Attribution ports.AttributionClient
	Push        ports.PushClient
	Accounts    ports.AccountsAPI
	Logger      *slog.Logger
}

// SessionFacade is the host application's single entry point. Lifecycle
// outcomes reach the host through bus events; vendor failures never
// propagate as errors past this boundary.
type SessionFacade struct {
	store       ports.SessionStore
	bus         *EventBus
	ads         *AdSupplyQueue
	purchases   *PurchaseCoordinator
	attribution ports.AttributionClient
	push        ports.PushClient
	accounts    ports.AccountsAPI
	log         *slog.Logger

	listenerMu sync.Mutex
	listener   *Subscription
}

func NewSessionFacade(deps Deps) *SessionFacade {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &SessionFacade{
		store:       deps.Store,
		bus:         deps.Bus,
		ads:         deps.Ads,
		purchases:   deps.Purchases,
		attribution: deps.Attribution,
		push:        deps.Push,
		accounts:    deps.Accounts,
		log:         log,
	}
}

// Init persists the session configuration, then brings up the dependent
// subsystems so that anything reading session state during its own init
// sees the correct client id. Vendor init failures are logged, never
// returned.
func (f *SessionFacade) Init(ctx context.Context, cfg Config) error {
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return errors.New("client id is required")
	}

	f.store.SaveClientID(clientID)

	if cfg.AdPlacementID != "" {
		f.ads.Configure(ctx, cfg.AdPlacementID)
	}

	if f.attribution != nil {
		if err := f.attribution.Init(ctx, cfg.AttributionToken, cfg.Environment); err != nil {
			f.log.Warn("attribution init failed", "error", err)
		}
	}

	if f.push != nil {
		topic := "games-" + clientID
		if err := f.push.SubscribeTopic(ctx, topic); err != nil {
			f.log.Warn("push topic subscribe failed", "topic", topic, "error", err)
		}
	}

	return nil
}

// SetListener registers fn as the host listener, replacing any previous
// one. The returned subscription cancels this registration.
func (f *SessionFacade) SetListener(fn Listener) *Subscription {
	f.listenerMu.Lock()
	defer f.listenerMu.Unlock()

	if f.listener != nil {
		f.listener.Cancel()
	}
	f.listener = f.bus.Subscribe(fn)

	return f.listener
}

// Subscribe registers an additional listener without replacing the host's.
func (f *SessionFacade) Subscribe(fn Listener) *Subscription {
	return f.bus.Subscribe(fn)
}

// Login stores the bearer token delivered by the login flow and announces
// the session.
func (f *SessionFacade) Login(ctx context.Context, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		f.log.Warn("login ignored: empty token")
		return
	}

	f.store.SaveToken(token)
	f.bus.Dispatch(domain.EventLoginSuccess, nil)
}

// ResumeSession short-circuits login when a stored token is still valid:
// it probes the accounts backend and, on success, announces login_success
// without a new credential exchange.
func (f *SessionFacade) ResumeSession(ctx context.Context) bool {
	token := f.store.Token()
	if token == "" || f.accounts == nil {
		return false
	}

	if _, err := f.accounts.UserInfo(ctx, token, f.store.ClientID(), defaultUserInfoFields); err != nil {
		f.log.Info("stored session rejected", "error", err)
		return false
	}

	f.bus.Dispatch(domain.EventLoginSuccess, nil)

	return true
}

// Logout clears the persisted session and announces it.
func (f *SessionFacade) Logout() {
	f.store.ClearToken()
	f.bus.Dispatch(domain.EventLogoutSuccess, nil)
}

func (f *SessionFacade) Token() string { return f.store.Token() }

func (f *SessionFacade) ClientID() string { return f.store.ClientID() }

func (f *SessionFacade) Status() domain.SessionStatus { return f.store.Status() }

// UserInfo fetches profile fields for the logged-in user. Fields defaults
// to the standard profile set.
func (f *SessionFacade) UserInfo(ctx context.Context, fields ...string) (map[string]any, error) {
	token := f.store.Token()
	if token == "" {
		return nil, domain.ErrNotLoggedIn
	}
	if f.accounts == nil {
		return nil, errors.New("accounts client is not configured")
	}
	if len(fields) == 0 {
		fields = defaultUserInfoFields
	}

	info, err := f.accounts.UserInfo(ctx, token, f.store.ClientID(), fields)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}

	return info, nil
}

// PurchaseProduct ensures the product is cataloged, then purchases it.
// Outcomes are event-only: a failed catalog fetch has already emitted
// billing_error, so the purchase step is skipped rather than reporting a
// second failure.
func (f *SessionFacade) PurchaseProduct(ctx context.Context, productID string) {
	if err := f.purchases.EnsureProducts(ctx, productID); err != nil {
		return
	}

	_ = f.purchases.Purchase(ctx, productID)
}

// RestorePurchases replays current entitlements; outcomes are event-only.
func (f *SessionFacade) RestorePurchases(ctx context.Context) {
	_ = f.purchases.Restore(ctx)
}

// ShowRewardedAd presents the next loaded ad unit, blocking until the
// display lifecycle ends; outcomes are event-only.
func (f *SessionFacade) ShowRewardedAd(ctx context.Context) {
	_ = f.ads.ShowRewarded(ctx)
}

// TrackEvent forwards an event to the attribution vendor. An empty token
// is dropped with a log line, matching the vendor's invalid-token handling.
func (f *SessionFacade) TrackEvent(ctx context.Context, event ports.AttributionEvent) {
	if strings.TrimSpace(event.Token) == "" {
		f.log.Warn("track event ignored: empty event token")
		return
	}
	if f.attribution == nil {
		return
	}

	if err := f.attribution.TrackEvent(ctx, event); err != nil {
		f.log.Warn("track event failed", "event_token", event.Token, "error", err)
	}
}

// SubscribeTopic subscribes the device to a push topic; failures are
// logged, never surfaced.
func (f *SessionFacade) SubscribeTopic(ctx context.Context, topic string) {
	if f.push == nil {
		return
	}
	if err := f.push.SubscribeTopic(ctx, topic); err != nil {
		f.log.Warn("push topic subscribe failed", "topic", topic, "error", err)
	}
}

// UnsubscribeTopic removes a push topic subscription.
func (f *SessionFacade) UnsubscribeTopic(ctx context.Context, topic string) {
	if f.push == nil {
		return
	}
	if err := f.push.UnsubscribeTopic(ctx, topic); err != nil {
		f.log.Warn("push topic unsubscribe failed", "topic", topic, "error", err)
	}
}

// Close announces the end of the billing session to the host.
func (f *SessionFacade) Close() {
	f.bus.Dispatch(domain.EventBillingDisconnected, nil)
}

// AdQueueDepth reports loaded ad units ready for presentation.
func (f *SessionFacade) AdQueueDepth() int { return f.ads.Len() }

// Catalog reports the cached product catalog.
func (f *SessionFacade) Catalog() []domain.Product { return f.purchases.Catalog() }
