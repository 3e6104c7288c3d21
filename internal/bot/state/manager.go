package state

import "sync"

// User states
const (
	None               = "none"
	WaitingForMealText = "waiting_for_meal_text"
	WaitingForLabPhoto = "waiting_for_lab_photo"
)

// StateManager tracks what the bot is waiting for from each user.
type StateManager interface {
	SetUserState(userID int64, state string)
	GetUserState(userID int64) string
	ClearUserState(userID int64)
}

// Manager keeps user states in process memory, for single-instance
// deployments.
type Manager struct {
	userStates map[int64]string
	mu         sync.RWMutex
}

// NewManager creates a new in-memory state manager
func NewManager() *Manager {
	return &Manager{
		userStates: make(map[int64]string),
	}
}

// SetUserState sets the state for a user
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userStates[userID] = state
}

// GetUserState gets the state for a user
func (m *Manager) GetUserState(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.userStates[userID]
	if !exists {
		return None
	}
	return state
}

// ClearUserState clears the state for a user
func (m *Manager) ClearUserState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userStates, userID)
}
