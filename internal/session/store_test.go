package session

import (
	"sync"
	"testing"
	"time"

	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productWithOptions(colors, sizes, sleeves []string) *model.Product {
	return &model.Product{
		ID:      "p1",
		Options: &model.Options{Colors: colors, Sizes: sizes, Sleeves: sleeves},
	}
}

func TestStoreSetGetClear(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	_, ok := s.Get("u1")
	assert.False(t, ok)

	s.Set("u1", State{Step: StepAIChat})
	st, ok := s.Get("u1")
	require.True(t, ok)
	assert.Equal(t, StepAIChat, st.Step)
	assert.True(t, st.Active())

	s.Clear("u1")
	_, ok = s.Get("u1")
	assert.False(t, ok)
}

func TestStoreEntriesAreIndependent(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	s.Set("u1", State{Step: StepCheckoutName, Checkout: &CheckoutDraft{Name: "Budi"}})
	s.Set("u2", State{Step: StepAddName, Product: &ProductDraft{Category: "Elektronik"}})

	st1, _ := s.Get("u1")
	st2, _ := s.Get("u2")
	assert.Equal(t, StepCheckoutName, st1.Step)
	assert.Equal(t, StepAddName, st2.Step)

	s.Clear("u1")
	_, ok := s.Get("u2")
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStoreExpiry(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	defer s.Close()

	s.Set("u1", State{Step: StepAIChat})
	_, ok := s.Get("u1")
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)

	_, ok = s.Get("u1")
	assert.False(t, ok, "entry must lazily expire after its TTL")
	assert.Zero(t, s.Len())
}

func TestStoreSetRefreshesDeadline(t *testing.T) {
	s := NewStore(50 * time.Millisecond)
	defer s.Close()

	s.Set("u1", State{Step: StepAIChat})
	time.Sleep(30 * time.Millisecond)
	s.Set("u1", State{Step: StepAIChat})
	time.Sleep(30 * time.Millisecond)

	_, ok := s.Get("u1")
	assert.True(t, ok, "a rewrite must push the deadline out")
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	s.Set("u1", State{Step: StepAIChat})
	time.Sleep(10 * time.Millisecond)

	_, ok := s.Get("u1")
	assert.True(t, ok)
}

func TestUserLocksSerializePerUser(t *testing.T) {
	locks := NewUserLocks()

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("u1")
			defer locks.Unlock("u1")

			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight, "same-user handlers must never overlap")
	assert.Empty(t, locks.locks, "lock entries must be dropped once idle")
}

func TestUserLocksAllowDifferentUsersConcurrently(t *testing.T) {
	locks := NewUserLocks()

	locks.Lock("u1")
	done := make(chan struct{})
	go func() {
		locks.Lock("u2")
		locks.Unlock("u2")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("u2 blocked behind u1's lock")
	}
	locks.Unlock("u1")
}

func TestVariantDraftComplete(t *testing.T) {
	p := productWithOptions([]string{"Merah"}, []string{"M"}, nil)

	d := &VariantDraft{ProductID: "p1"}
	assert.False(t, d.Complete(p))

	d.Options.Color = "Merah"
	assert.False(t, d.Complete(p), "size axis still unpicked")

	d.Options.Size = "M"
	assert.True(t, d.Complete(p), "absent sleeve axis must not be required")
}
