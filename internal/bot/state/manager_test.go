package state

import (
	"sync"
	"testing"
)

func TestManager(t *testing.T) {
	t.Run("UnknownUserIsNone", func(t *testing.T) {
		m := NewManager()
		if got := m.GetUserState(42); got != None {
			t.Errorf("Expected state %q, got %q", None, got)
		}
	})

	t.Run("SetThenGet", func(t *testing.T) {
		m := NewManager()
		m.SetUserState(42, WaitingForMealText)
		if got := m.GetUserState(42); got != WaitingForMealText {
			t.Errorf("Expected state %q, got %q", WaitingForMealText, got)
		}
	})

	t.Run("StatesAreIndependentPerUser", func(t *testing.T) {
		m := NewManager()
		m.SetUserState(1, WaitingForMealText)
		m.SetUserState(2, WaitingForLabPhoto)
		if got := m.GetUserState(1); got != WaitingForMealText {
			t.Errorf("Expected state %q for user 1, got %q", WaitingForMealText, got)
		}
		if got := m.GetUserState(2); got != WaitingForLabPhoto {
			t.Errorf("Expected state %q for user 2, got %q", WaitingForLabPhoto, got)
		}
	})

	t.Run("ClearResetsToNone", func(t *testing.T) {
		m := NewManager()
		m.SetUserState(42, WaitingForLabPhoto)
		m.ClearUserState(42)
		if got := m.GetUserState(42); got != None {
			t.Errorf("Expected state %q after clear, got %q", None, got)
		}
	})

	t.Run("ConcurrentAccessIsSafe", func(t *testing.T) {
		m := NewManager()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				m.SetUserState(id, WaitingForMealText)
				m.GetUserState(id)
				m.ClearUserState(id)
			}(int64(i))
		}
		wg.Wait()
	})
}
