package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
)

var kyivLviv = Route{Distance: 540000, FromID: "place-kyiv", ToID: "place-lviv"}

func TestTracker_DiscardsSupersededLookup(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	lookup := LookupFunc(func(ctx context.Context, route Route) (Quote, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return Quote{Sum: "old", IsSuccess: true}, nil
		}
		return Quote{Sum: "new", IsSuccess: true}, nil
	})
	tracker := NewTracker(lookup)

	type result struct {
		quote Quote
		err   error
	}
	first := make(chan result, 1)
	go func() {
		q, _, err := tracker.Fetch(context.Background(), kyivLviv)
		first <- result{quote: q, err: err}
	}()

	<-started
	quote, _, err := tracker.Fetch(context.Background(), kyivLviv)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if quote.Sum != "new" {
		t.Fatalf("expected newest quote, got %q", quote.Sum)
	}

	close(release)
	res := <-first
	if !errors.Is(res.err, ErrStaleQuote) {
		t.Fatalf("expected stale error for superseded lookup, got %v (quote %+v)", res.err, res.quote)
	}
}

func TestTracker_FetchWithIssuedToken(t *testing.T) {
	var calls atomic.Int32
	tracker := NewTracker(LookupFunc(func(context.Context, Route) (Quote, error) {
		calls.Add(1)
		return Quote{Sum: "185", IsSuccess: true}, nil
	}))

	older := tracker.Begin()
	newer := tracker.Begin()

	if _, err := tracker.FetchWith(context.Background(), older, kyivLviv); !errors.Is(err, ErrStaleQuote) {
		t.Fatalf("expected stale error for an already superseded token, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("superseded token must not reach the lookup")
	}

	quote, err := tracker.FetchWith(context.Background(), newer, kyivLviv)
	if err != nil {
		t.Fatalf("fetch with latest token: %v", err)
	}
	if diff := cmp.Diff(Quote{Sum: "185", IsSuccess: true}, quote); diff != "" {
		t.Fatalf("quote mismatch (-want +got):\n%s", diff)
	}
}

func TestTracker_Commit(t *testing.T) {
	tracker := NewTracker(nil)
	older := tracker.Begin()
	newer := tracker.Begin()

	applied := ""
	if tracker.Commit(older, func() { applied = "older" }) {
		t.Fatalf("older token must not commit")
	}
	if !tracker.Commit(newer, func() { applied = "newer" }) {
		t.Fatalf("latest token must commit")
	}
	if applied != "newer" {
		t.Fatalf("unexpected applied value %q", applied)
	}
	if tracker.Current(older) || !tracker.Current(newer) {
		t.Fatalf("unexpected current state")
	}
}

func TestHTTPClient_LoadPrice(t *testing.T) {
	var got wireRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sum": 185.5, "isSuccess": true}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, WithHTTPClient(srv.Client()), WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	quote, err := client.LoadPrice(context.Background(), kyivLviv)
	if err != nil {
		t.Fatalf("load price: %v", err)
	}

	if diff := cmp.Diff(Quote{Sum: "185.5", IsSuccess: true}, quote); diff != "" {
		t.Fatalf("quote mismatch (-want +got):\n%s", diff)
	}
	wantReq := wireRequest{Distance: 540000, From: "place-kyiv", To: "place-lviv"}
	if diff := cmp.Diff(wantReq, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_StringSumAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/text":
			_, _ = w.Write([]byte(`{"sum": " 120 грн ", "isSuccess": false}`))
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL + "/text")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	quote, err := client.LoadPrice(context.Background(), kyivLviv)
	if err != nil {
		t.Fatalf("load price: %v", err)
	}
	if quote.Sum != "120 грн" || quote.IsSuccess {
		t.Fatalf("unexpected quote %+v", quote)
	}

	failing, _ := NewHTTPClient(srv.URL + "/fail")
	if _, err := failing.LoadPrice(context.Background(), kyivLviv); err == nil {
		t.Fatalf("expected error for non-2xx status")
	}

	if _, err := NewHTTPClient("  "); !errors.Is(err, ErrEndpointRequired) {
		t.Fatalf("expected ErrEndpointRequired, got %v", err)
	}
}

func TestCache_ServesRepeatedRoutes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	var calls atomic.Int32
	upstream := LookupFunc(func(ctx context.Context, route Route) (Quote, error) {
		calls.Add(1)
		return Quote{Sum: "185", IsSuccess: true}, nil
	})
	cache := NewCache(client, upstream, WithTTL(time.Minute), WithKeyPrefix("test:price"))

	for i := 0; i < 3; i++ {
		quote, err := cache.LoadPrice(context.Background(), kyivLviv)
		if err != nil {
			t.Fatalf("load price: %v", err)
		}
		if quote.Sum != "185" {
			t.Fatalf("unexpected quote %+v", quote)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls.Load())
	}

	key := cache.Key(kyivLviv)
	if key != "test:price:place-kyiv:place-lviv:540000" {
		t.Fatalf("unexpected key %q", key)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("unexpected ttl %s", ttl)
	}
}

func TestCache_SkipsFailedQuotesAndRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	var calls atomic.Int32
	upstream := LookupFunc(func(ctx context.Context, route Route) (Quote, error) {
		calls.Add(1)
		return Quote{Sum: "-", IsSuccess: false}, nil
	})
	cache := NewCache(client, upstream)

	_, _ = cache.LoadPrice(context.Background(), kyivLviv)
	_, _ = cache.LoadPrice(context.Background(), kyivLviv)
	if calls.Load() != 2 {
		t.Fatalf("failed quotes must not be cached, got %d upstream calls", calls.Load())
	}

	mr.Close()
	quote, err := cache.LoadPrice(context.Background(), kyivLviv)
	if err != nil {
		t.Fatalf("redis outage must degrade to upstream, got %v", err)
	}
	if quote.Sum != "-" {
		t.Fatalf("unexpected quote %+v", quote)
	}
}
