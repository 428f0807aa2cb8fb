package catalog

import (
	"context"
	"sync/atomic"

	"github.com/kdsmedia/altoshopbot/internal/model"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// Lister is the slice of the persistent store the cache reads through.
type Lister interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// Cache is a read-through snapshot of the product catalog. Readers always see
// a complete snapshot; Reload builds a fresh one and swaps it in wholesale, so
// a reload never exposes a partially rebuilt view. Concurrent reloads are
// collapsed into one store read.
type Cache struct {
	store Lister
	snap  atomic.Pointer[snapshot]
	sfg   singleflight.Group
}

type snapshot struct {
	byID    map[string]model.Product
	ordered []model.Product
}

var emptySnapshot = &snapshot{byID: map[string]model.Product{}}

func NewCache(store Lister) *Cache {
	c := &Cache{store: store}
	c.snap.Store(emptySnapshot)
	return c
}

// Reload replaces the snapshot with the store's current contents.
func (c *Cache) Reload(ctx context.Context) error {
	_, err, _ := c.sfg.Do("reload", func() (any, error) {
		products, err := c.store.ListProducts(ctx)
		if err != nil {
			logx.Error().Err(err).Msg("failed to reload product catalog")
			return nil, err
		}

		snap := &snapshot{
			byID:    make(map[string]model.Product, len(products)),
			ordered: products,
		}
		for _, p := range products {
			snap.byID[p.ID] = p
		}
		c.snap.Store(snap)

		logx.Info().Int("count", len(products)).Msg("product catalog reloaded")
		return nil, nil
	})
	return err
}

// Get returns the product by id from the current snapshot.
func (c *Cache) Get(id string) (model.Product, bool) {
	p, ok := c.snap.Load().byID[id]
	return p, ok
}

// All returns every product in the current snapshot, in load order.
func (c *Cache) All() []model.Product {
	return c.snap.Load().ordered
}

// ByCategory returns the snapshot's products in the given category, or all
// products when category is empty.
func (c *Cache) ByCategory(category string) []model.Product {
	all := c.snap.Load().ordered
	if category == "" {
		return all
	}
	var out []model.Product
	for _, p := range all {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
