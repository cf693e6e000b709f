package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
	"github.com/gplaydev/gtv-sdk-go/internal/ports"
)

type memorySessionStore struct {
	mu       sync.Mutex
	token    string
	clientID string
}

func (s *memorySessionStore) SaveToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *memorySessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *memorySessionStore) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *memorySessionStore) SaveClientID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientID = id
}

func (s *memorySessionStore) ClientID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientID
}

func (s *memorySessionStore) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return domain.StatusLoggedOut
	}
	return domain.StatusLoggedIn
}

// eventRecorder captures dispatched events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *eventRecorder) listen(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *eventRecorder) named(name domain.EventName) []domain.Event {
	var out []domain.Event
	for _, event := range r.all() {
		if event.Name == name {
			out = append(out, event)
		}
	}
	return out
}

func (r *eventRecorder) count(name domain.EventName) int {
	return len(r.named(name))
}

type fakeAdNetwork struct {
	mu         sync.Mutex
	loads      int
	loadErr    error
	presentErr error
	reward     *domain.Reward
	presented  []domain.AdUnit
}

func (n *fakeAdNetwork) Load(_ context.Context, placementID string) (domain.AdUnit, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loads++
	if n.loadErr != nil {
		return domain.AdUnit{}, n.loadErr
	}
	return domain.AdUnit{ID: fmt.Sprintf("unit-%d", n.loads), PlacementID: placementID}, nil
}

func (n *fakeAdNetwork) Present(_ context.Context, unit domain.AdUnit) (*domain.Reward, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.presented = append(n.presented, unit)
	if n.presentErr != nil {
		return nil, n.presentErr
	}
	return n.reward, nil
}

func (n *fakeAdNetwork) loadCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loads
}

type fakeStoreClient struct {
	mu           sync.Mutex
	products     []domain.Product
	queryErr     error
	queries      [][]string
	purchaseRes  ports.PurchaseResult
	purchaseErr  error
	purchased    []string
	entitlements []ports.Entitlement
	entErr       error
	finalizeErr  error
	finalized    []string
}

func (s *fakeStoreClient) QueryProducts(_ context.Context, ids []string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, ids)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.products, nil
}

func (s *fakeStoreClient) Purchase(_ context.Context, productID string) (ports.PurchaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchased = append(s.purchased, productID)
	if s.purchaseErr != nil {
		return ports.PurchaseResult{}, s.purchaseErr
	}
	return s.purchaseRes, nil
}

func (s *fakeStoreClient) CurrentEntitlements(_ context.Context) ([]ports.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entErr != nil {
		return nil, s.entErr
	}
	return s.entitlements, nil
}

func (s *fakeStoreClient) Finalize(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalizeErr != nil {
		return s.finalizeErr
	}
	s.finalized = append(s.finalized, transactionID)
	return nil
}

func (s *fakeStoreClient) finalizedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.finalized))
	copy(out, s.finalized)
	return out
}

func (s *fakeStoreClient) purchaseCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.purchased))
	copy(out, s.purchased)
	return out
}

type fakeAttribution struct {
	mu      sync.Mutex
	initErr error
	inited  []string
	tracked []ports.AttributionEvent
}

func (a *fakeAttribution) Init(_ context.Context, appToken, environment string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inited = append(a.inited, appToken+"/"+environment)
	return a.initErr
}

func (a *fakeAttribution) TrackEvent(_ context.Context, event ports.AttributionEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracked = append(a.tracked, event)
	return nil
}

func (a *fakeAttribution) trackedEvents() []ports.AttributionEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ports.AttributionEvent, len(a.tracked))
	copy(out, a.tracked)
	return out
}

type fakePush struct {
	mu           sync.Mutex
	subscribed   []string
	unsubscribed []string
}

func (p *fakePush) SubscribeTopic(_ context.Context, topic string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribed = append(p.subscribed, topic)
	return nil
}

func (p *fakePush) UnsubscribeTopic(_ context.Context, topic string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unsubscribed = append(p.unsubscribed, topic)
	return nil
}

type fakeAccounts struct {
	info map[string]any
	err  error
}

func (a *fakeAccounts) UserInfo(_ context.Context, _, _ string, _ []string) (map[string]any, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.info, nil
}
