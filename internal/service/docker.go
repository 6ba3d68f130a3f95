package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/devdeck/devdeck/internal/adapter/ws"
	"github.com/devdeck/devdeck/internal/domain"
	"github.com/devdeck/devdeck/internal/domain/docker"
	"github.com/devdeck/devdeck/internal/port/broadcast"
	"github.com/devdeck/devdeck/internal/port/cache"
	"github.com/devdeck/devdeck/internal/port/dockerprovider"
	"github.com/devdeck/devdeck/internal/resilience"
)

// Cache keys for the probe answer and the two listings.
const (
	availabilityKey = "docker.available"
	containersKey   = "docker.containers"
	imagesKey       = "docker.images"
)

// DockerService reads container state through the engine provider. The
// availability probe and successful listings are cached with a short TTL
// and the probe is guarded by a circuit breaker, so a stopped daemon costs
// one timed-out probe per cooldown instead of one per dashboard refresh.
type DockerService struct {
	provider dockerprovider.Provider
	cache    cache.Cache // optional
	breaker  *resilience.Breaker
	ttl      time.Duration
	hub      broadcast.Broadcaster // optional
}

// NewDockerService creates a DockerService. cache and hub may be nil.
func NewDockerService(provider dockerprovider.Provider, c cache.Cache, breaker *resilience.Breaker,
	ttl time.Duration, hub broadcast.Broadcaster) *DockerService {
	return &DockerService{
		provider: provider,
		cache:    c,
		breaker:  breaker,
		ttl:      ttl,
		hub:      hub,
	}
}

// Status reports daemon reachability, answering from the probe cache when
// the last probe is still fresh.
func (s *DockerService) Status(ctx context.Context) docker.EngineStatus {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, availabilityKey); err == nil && ok && len(data) == 1 {
			return docker.EngineStatus{
				Available: data[0] == '1',
				Breaker:   s.breaker.State(),
			}
		}
	}

	available := false
	err := s.breaker.Execute(func() error {
		if !s.provider.Available(ctx) {
			return domain.ErrUnavailable
		}
		available = true
		return nil
	})
	_ = err // an open breaker or failed probe both mean unavailable

	if s.cache != nil {
		flag := []byte("0")
		if available {
			flag = []byte("1")
		}
		_ = s.cache.Set(ctx, availabilityKey, flag, s.ttl)
	}

	return docker.EngineStatus{
		Available: available,
		Breaker:   s.breaker.State(),
	}
}

// Containers lists all containers. An unavailable daemon short-circuits to
// an empty listing without spawning a process; a fresh cached listing is
// served without re-querying the engine.
func (s *DockerService) Containers(ctx context.Context) ([]docker.Container, bool) {
	if !s.Status(ctx).Available {
		return []docker.Container{}, false
	}

	if data, ok := s.cached(ctx, containersKey); ok {
		var containers []docker.Container
		if err := json.Unmarshal(data, &containers); err == nil {
			return containers, true
		}
	}

	containers, ok := s.provider.Containers(ctx)
	if ok {
		s.store(ctx, containersKey, containers)
	}
	s.broadcast(ctx, ws.EventDockerRefreshed, ws.DockerRefreshedEvent{
		Available:  ok,
		Containers: len(containers),
	})
	return containers, ok
}

// Images lists local images under the same availability guard and cache.
func (s *DockerService) Images(ctx context.Context) ([]docker.Image, bool) {
	if !s.Status(ctx).Available {
		return []docker.Image{}, false
	}

	if data, ok := s.cached(ctx, imagesKey); ok {
		var images []docker.Image
		if err := json.Unmarshal(data, &images); err == nil {
			return images, true
		}
	}

	images, ok := s.provider.Images(ctx)
	if ok {
		s.store(ctx, imagesKey, images)
	}
	return images, ok
}

// cached returns the stored value for key, missing on any cache error.
func (s *DockerService) cached(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	return data, true
}

// store caches a successful listing for the configured TTL. Failed listings
// are never cached; the next call re-queries the engine.
func (s *DockerService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, data, s.ttl)
}

func (s *DockerService) broadcast(ctx context.Context, event string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(ctx, event, payload)
}
