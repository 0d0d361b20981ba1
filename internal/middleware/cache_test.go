package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/parintorn/table-reservation/internal/config"
)

func cacheCtx(e *echo.Echo, target string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	// Simulate the router having matched the parameterized catalog route.
	c.SetPath("/api/v1/restaurants/:id")
	return c
}

func TestCacheKey_DistinctPerEntity(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	k1 := cacheKeyFrom(cfg, cacheCtx(e, "/api/v1/restaurants/1"))
	k2 := cacheKeyFrom(cfg, cacheCtx(e, "/api/v1/restaurants/2"))
	if k1 == k2 {
		t.Fatalf("distinct restaurant IDs share cache key %s", k1)
	}
}

func TestCacheKey_StableAndQuerySensitive(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, cacheCtx(e, "/api/v1/restaurants?page=1"))
	b := cacheKeyFrom(cfg, cacheCtx(e, "/api/v1/restaurants?page=1"))
	if a != b {
		t.Errorf("same request produced keys %s and %s", a, b)
	}

	c := cacheKeyFrom(cfg, cacheCtx(e, "/api/v1/restaurants?page=2"))
	if a == c {
		t.Error("different query strings share one cache key")
	}
}

func TestCacheKey_StrategyVariants(t *testing.T) {
	e := echo.New()
	base := "/api/v1/restaurants/7"

	tests := []struct {
		name        string
		strategy    string
		otherTarget string
		wantSame    bool
	}{
		{"route ignores query", "route", base + "?select=name", true},
		{"route still splits ids", "route", "/api/v1/restaurants/8", false},
		{"method_route_query splits on query", "method_route_query", base + "?select=name", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: tt.strategy}
			k1 := cacheKeyFrom(cfg, cacheCtx(e, base))
			k2 := cacheKeyFrom(cfg, cacheCtx(e, tt.otherTarget))
			if (k1 == k2) != tt.wantSame {
				t.Errorf("keys %s vs %s, wantSame=%v", k1, k2, tt.wantSame)
			}
		})
	}
}
