package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/config"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// ProfileService
// ──────────────────────────────────────────────────────────────────────────────

// cachedProfile pairs a profile with its fetch time for TTL checks.
type cachedProfile struct {
	profile   domain.CarrierProfile
	fetchedAt time.Time
}

// ProfileService fetches carrier reputation snapshots from the carrier
// profile service over HTTP and caches them per carrier. Ratings change
// slowly, so a short TTL keeps auto-accept cheap without going stale.
type ProfileService struct {
	client *http.Client
	cfg    *config.CarrierProfileConfig

	mu    sync.RWMutex
	cache map[uuid.UUID]cachedProfile
}

// NewProfileService constructs a ProfileService from the given config.
func NewProfileService(cfg *config.Config) *ProfileService {
	return &ProfileService{
		client: &http.Client{Timeout: cfg.CarrierProfile.FetchTimeout},
		cfg:    &cfg.CarrierProfile,
		cache:  make(map[uuid.UUID]cachedProfile),
	}
}

// GetCarrierProfile returns the carrier's reputation snapshot, served from
// cache while it is fresh (< CacheTTL). Any transport or decode failure is
// wrapped in ErrCarrierProfileUnavailable so callers can treat "service down"
// uniformly.
//
//	GET {base}/carriers/{id}/profile
//	{"carrier_id":"…","overall_rating":4.6,"success_rate":97.2,...}
func (ps *ProfileService) GetCarrierProfile(ctx context.Context, carrierID uuid.UUID) (*domain.CarrierProfile, error) {
	// ── Cache check ──────────────────────────────────────────────────────────
	ps.mu.RLock()
	if entry, ok := ps.cache[carrierID]; ok && time.Since(entry.fetchedAt) < ps.cfg.CacheTTL {
		profile := entry.profile
		ps.mu.RUnlock()
		return &profile, nil
	}
	ps.mu.RUnlock()

	// ── Fetch ────────────────────────────────────────────────────────────────
	url := fmt.Sprintf("%s/carriers/%s/profile", ps.cfg.BaseURL, carrierID)
	body, err := ps.doGet(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("profile_service: %s: %w", err, domain.ErrCarrierProfileUnavailable)
	}

	var profile domain.CarrierProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("profile_service: parse: %w", domain.ErrCarrierProfileUnavailable)
	}
	if profile.CarrierID == uuid.Nil {
		profile.CarrierID = carrierID
	}

	// ── Update cache ─────────────────────────────────────────────────────────
	ps.mu.Lock()
	ps.cache[carrierID] = cachedProfile{profile: profile, fetchedAt: time.Now()}
	ps.mu.Unlock()

	return &profile, nil
}

// Invalidate drops a carrier's cached profile, forcing the next read to hit
// the profile service.
func (ps *ProfileService) Invalidate(carrierID uuid.UUID) {
	ps.mu.Lock()
	delete(ps.cache, carrierID)
	ps.mu.Unlock()
}

// doGet performs an HTTP GET with the service's client and returns the body
// bytes, or an error for any non-200 status code.
func (ps *ProfileService) doGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "freight-bid-pro/1.0")

	resp, err := ps.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
