package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/config"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/service"
)

// buildProfileConfig returns a config pointing the profile client at the
// given test server URL.
func buildProfileConfig(baseURL string, cacheTTL time.Duration) *config.Config {
	return &config.Config{
		CarrierProfile: config.CarrierProfileConfig{
			BaseURL:      baseURL,
			FetchTimeout: 2 * time.Second,
			CacheTTL:     cacheTTL,
		},
	}
}

func TestGetCarrierProfile_Success(t *testing.T) {
	carrierID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := fmt.Sprintf("/carriers/%s/profile", carrierID)
		if r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"carrier_id": %q,
			"company_name": "Atlas Haulage",
			"overall_rating": 4.6,
			"success_rate": 97.2,
			"completed_shipments": 310,
			"verified": true
		}`, carrierID)
	}))
	defer srv.Close()

	ps := service.NewProfileService(buildProfileConfig(srv.URL, time.Minute))
	profile, err := ps.GetCarrierProfile(context.Background(), carrierID)
	if err != nil {
		t.Fatalf("GetCarrierProfile: %v", err)
	}
	if profile.CarrierID != carrierID {
		t.Errorf("carrier id = %s, want %s", profile.CarrierID, carrierID)
	}
	if profile.OverallRating != 4.6 {
		t.Errorf("rating = %v, want 4.6", profile.OverallRating)
	}
	if !profile.Verified {
		t.Error("verified flag lost in decode")
	}
	t.Logf("profile: %+v", profile)
}

func TestGetCarrierProfile_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ps := service.NewProfileService(buildProfileConfig(srv.URL, time.Minute))
	_, err := ps.GetCarrierProfile(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrCarrierProfileUnavailable) {
		t.Fatalf("expected ErrCarrierProfileUnavailable, got %v", err)
	}
}

func TestGetCarrierProfile_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"overall_rating": not-a-number}`)
	}))
	defer srv.Close()

	ps := service.NewProfileService(buildProfileConfig(srv.URL, time.Minute))
	_, err := ps.GetCarrierProfile(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrCarrierProfileUnavailable) {
		t.Fatalf("expected ErrCarrierProfileUnavailable on bad payload, got %v", err)
	}
}

func TestGetCarrierProfile_CacheHit(t *testing.T) {
	carrierID := uuid.New()
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		fmt.Fprintf(w, `{"carrier_id": %q, "overall_rating": 4.1}`, carrierID)
	}))
	defer srv.Close()

	ps := service.NewProfileService(buildProfileConfig(srv.URL, time.Minute))

	for i := 0; i < 3; i++ {
		if _, err := ps.GetCarrierProfile(context.Background(), carrierID); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("upstream hit %d times, want 1 (cache should serve repeats)", got)
	}

	// Invalidate forces the next read back to the upstream.
	ps.Invalidate(carrierID)
	if _, err := ps.GetCarrierProfile(context.Background(), carrierID); err != nil {
		t.Fatalf("post-invalidate fetch: %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Errorf("upstream hit %d times after invalidate, want 2", got)
	}
}

func TestGetCarrierProfile_ZeroTTLAlwaysFetches(t *testing.T) {
	carrierID := uuid.New()
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		fmt.Fprintf(w, `{"carrier_id": %q, "overall_rating": 3.9}`, carrierID)
	}))
	defer srv.Close()

	ps := service.NewProfileService(buildProfileConfig(srv.URL, 0))
	for i := 0; i < 2; i++ {
		if _, err := ps.GetCarrierProfile(context.Background(), carrierID); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Errorf("upstream hit %d times, want 2 with a zero TTL", got)
	}
}
