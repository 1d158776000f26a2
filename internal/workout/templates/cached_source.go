package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/gymsession/internal/workout"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const cacheSize = 10 * 1024 * 1024

// CachedSource keeps recently used templates in memory for ttl.
// Missing templates are not cached.
type CachedSource struct {
	source workout.TemplateSource
	cache  *freecache.Cache
	ttl    time.Duration
}

func NewCachedSource(source workout.TemplateSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  freecache.NewCache(cacheSize),
		ttl:    ttl,
	}
}

// fromCache returns the cached template, dropping entries that no longer decode.
func (c *CachedSource) fromCache(key []byte, id int64) (*workout.RoutineTemplate, bool) {
	cached, err := c.cache.Get(key)
	if err != nil {
		return nil, false
	}

	t := &workout.RoutineTemplate{}
	if err := json.Unmarshal(cached, t); err != nil {
		log.Errorf("unmarshal cached routine template %d: %s", id, err)
		c.cache.Del(key)
		return nil, false
	}
	return t, true
}

func (c *CachedSource) Template(ctx context.Context, id int64) (*workout.RoutineTemplate, error) {
	key := []byte(strconv.FormatInt(id, 10))
	if t, ok := c.fromCache(key, id); ok {
		return t, nil
	}

	t, err := c.source.Template(ctx, id)
	if err != nil {
		return nil, err
	}

	tBytes, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal routine template %d: %w", id, err)
	}
	if err := c.cache.Set(key, tBytes, int(c.ttl.Seconds())); err != nil {
		log.Warnf("cache routine template %d: %s", id, err)
	}

	return t, nil
}

// Invalidate drops a template from the cache, e.g. after it was edited.
func (c *CachedSource) Invalidate(id int64) {
	c.cache.Del([]byte(strconv.FormatInt(id, 10)))
}
