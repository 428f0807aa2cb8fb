package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	mu       sync.Mutex
	products []model.Product
	err      error
	calls    int
}

func (f *fakeLister) ListProducts(context.Context) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Product(nil), f.products...), nil
}

func (f *fakeLister) set(products ...model.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = products
}

func TestCacheStartsEmpty(t *testing.T) {
	c := NewCache(&fakeLister{})

	_, ok := c.Get("p1")
	assert.False(t, ok)
	assert.Empty(t, c.All())
}

func TestReloadSwapsSnapshotWholesale(t *testing.T) {
	lister := &fakeLister{}
	lister.set(
		model.Product{ID: "p1", Name: "Speaker", Category: "Elektronik"},
		model.Product{ID: "p2", Name: "Kemeja", Category: "Fashion"},
	)
	c := NewCache(lister)
	require.NoError(t, c.Reload(context.Background()))

	p, ok := c.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "Speaker", p.Name)
	assert.Len(t, c.All(), 2)

	lister.set(model.Product{ID: "p3", Name: "Palu", Category: "Peralatan"})
	require.NoError(t, c.Reload(context.Background()))

	_, ok = c.Get("p1")
	assert.False(t, ok, "removed products must vanish with the swap")
	_, ok = c.Get("p3")
	assert.True(t, ok)
	assert.Len(t, c.All(), 1)
}

func TestReloadErrorKeepsOldSnapshot(t *testing.T) {
	lister := &fakeLister{}
	lister.set(model.Product{ID: "p1", Name: "Speaker"})
	c := NewCache(lister)
	require.NoError(t, c.Reload(context.Background()))

	lister.mu.Lock()
	lister.err = errors.New("mongo down")
	lister.mu.Unlock()

	assert.Error(t, c.Reload(context.Background()))

	p, ok := c.Get("p1")
	require.True(t, ok, "a failed reload must leave the last good snapshot in place")
	assert.Equal(t, "Speaker", p.Name)
}

func TestByCategory(t *testing.T) {
	lister := &fakeLister{}
	lister.set(
		model.Product{ID: "p1", Category: "Elektronik"},
		model.Product{ID: "p2", Category: "Fashion"},
		model.Product{ID: "p3", Category: "Elektronik"},
	)
	c := NewCache(lister)
	require.NoError(t, c.Reload(context.Background()))

	assert.Len(t, c.ByCategory("Elektronik"), 2)
	assert.Len(t, c.ByCategory("Fashion"), 1)
	assert.Empty(t, c.ByCategory("Makanan"))
	assert.Len(t, c.ByCategory(""), 3, "empty category means every product")
}

func TestConcurrentReadersDuringReload(t *testing.T) {
	lister := &fakeLister{}
	lister.set(model.Product{ID: "p1", Name: "Speaker"})
	c := NewCache(lister)
	require.NoError(t, c.Reload(context.Background()))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if p, ok := c.Get("p1"); ok {
					// A reader must never observe a half-built product.
					assert.Equal(t, "Speaker", p.Name)
				}
				c.All()
			}
		}()
	}

	for i := 0; i < 50; i++ {
		require.NoError(t, c.Reload(context.Background()))
	}
	close(stop)
	wg.Wait()
}
