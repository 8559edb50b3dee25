package storage

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/eugenenazirov/boxpack/internal/packer"
	"github.com/eugenenazirov/boxpack/internal/scenario"
)

func TestNewMemoryStorageReturnsDefaultScenario(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	got, err := store.GetScenario()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := scenario.Default()
	if got.Box != want.Box || len(got.Items) != len(want.Items) {
		t.Fatalf("expected default scenario %+v, got %+v", want, got)
	}

	// ensure mutation safety
	got.Items[0].Width = 999
	again, err := store.GetScenario()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Items[0].Width == 999 {
		t.Fatalf("expected defensive copy, got %+v", again.Items[0])
	}
}

func TestSetScenarioUpdatesState(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	sc := scenario.Scenario{
		Box:   packer.Box{Width: 10, Height: 10},
		Items: []packer.Item{{Width: 5, Height: 5, Weight: 1}},
	}
	if err := store.SetScenario(sc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sc.Items[0].Width = 7

	got, err := store.GetScenario()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Box != (packer.Box{Width: 10, Height: 10}) || len(got.Items) != 1 || got.Items[0].Width != 5 {
		t.Fatalf("unexpected stored scenario %+v", got)
	}
}

func TestSetScenarioRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []scenario.Scenario{
		{},
		{Box: packer.Box{Width: 0, Height: 10}},
		{Box: packer.Box{Width: 10, Height: 10, Weight: -1}},
		{Box: packer.Box{Width: 10, Height: 10}, Items: []packer.Item{{Width: -1, Height: 1}}},
	}

	for idx, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			store := NewMemoryStorage()
			if err := store.SetScenario(tc); !errors.Is(err, ErrInvalidScenario) {
				t.Fatalf("expected ErrInvalidScenario for %+v, got %v", tc, err)
			}
		})
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := NewMemoryStorage()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			sc := scenario.Scenario{
				Box:   packer.Box{Width: 100 + offset, Height: 100},
				Items: []packer.Item{{Width: 1 + offset, Height: 1}},
			}
			if err := store.SetScenario(sc); err != nil {
				t.Errorf("SetScenario failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := store.GetScenario(); err != nil {
				t.Errorf("GetScenario failed: %v", err)
			}
		}()
	}

	wg.Wait()

	// final read should succeed
	if _, err := store.GetScenario(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
