// README: Geometry service with a Redis cache over stored route segments.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"backhaul/internal/modules/route"
	"backhaul/internal/types"
)

const (
	segmentKeyPrefix = "geo:route:%s:segments"
	// Segments are immutable once a route is created; the TTL only bounds
	// memory, not staleness.
	segmentKeyTTL = 24 * time.Hour
)

// SegmentSource loads a route's ordered segments from the store of record.
type SegmentSource interface {
	ListSegments(ctx context.Context, routeID types.ID) ([]route.Segment, error)
}

type Service struct {
	segments SegmentSource
	redis    *redis.Client
}

// NewService creates a geometry service. The Redis client may be nil, in
// which case every lookup goes to the segment source.
func NewService(segments SegmentSource, redis *redis.Client) *Service {
	return &Service{segments: segments, redis: redis}
}

// ForRoute builds a snapshot from an already-loaded route. Used on the
// closing path, which holds the full aggregate anyway.
func (s *Service) ForRoute(r *route.Route) *Geometry {
	return NewGeometry(r)
}

// ForRouteID builds a snapshot by route id, consulting the Redis cache
// before the store. Cache failures degrade to a store read.
func (s *Service) ForRouteID(ctx context.Context, routeID types.ID) (*Geometry, error) {
	if segs, ok := s.cachedSegments(ctx, routeID); ok {
		return NewGeometry(&route.Route{ID: routeID, Segments: segs}), nil
	}

	segs, err := s.segments.ListSegments(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, route.ErrNotFound
	}
	s.cacheSegments(ctx, routeID, segs)
	return NewGeometry(&route.Route{ID: routeID, Segments: segs}), nil
}

func (s *Service) cachedSegments(ctx context.Context, routeID types.ID) ([]route.Segment, bool) {
	if s.redis == nil {
		return nil, false
	}
	val, err := s.redis.Get(ctx, segmentKey(routeID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("geo: segment cache read failed for route %s: %v", routeID, err)
		return nil, false
	}
	var segs []route.Segment
	if err := json.Unmarshal([]byte(val), &segs); err != nil {
		log.Printf("geo: segment cache payload invalid for route %s: %v", routeID, err)
		return nil, false
	}
	return segs, len(segs) > 0
}

func (s *Service) cacheSegments(ctx context.Context, routeID types.ID, segs []route.Segment) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(segs)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, segmentKey(routeID), payload, segmentKeyTTL).Err(); err != nil {
		log.Printf("geo: segment cache write failed for route %s: %v", routeID, err)
	}
}

func segmentKey(routeID types.ID) string {
	return fmt.Sprintf(segmentKeyPrefix, string(routeID))
}
