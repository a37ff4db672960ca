package restaurant

// Store exposes restaurant retrieval for HTTP handlers.
type Store interface {
	List() []Restaurant
	FindByID(id string) (Restaurant, bool)
	FindByAgent(agentID string) (Restaurant, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Restaurant
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied restaurants.
func NewMemoryStore(items []Restaurant) *MemoryStore {
	return &MemoryStore{items: append([]Restaurant(nil), items...)}
}

// List returns every known restaurant.
func (s *MemoryStore) List() []Restaurant {
	return append([]Restaurant(nil), s.items...)
}

// FindByID looks up a restaurant by identifier.
func (s *MemoryStore) FindByID(id string) (Restaurant, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Restaurant{}, false
}

// FindByAgent looks up the restaurant an AI agent is assigned to.
func (s *MemoryStore) FindByAgent(agentID string) (Restaurant, bool) {
	if agentID == "" {
		return Restaurant{}, false
	}
	for _, item := range s.items {
		for _, a := range item.Agents {
			if a == agentID {
				return item, true
			}
		}
	}
	return Restaurant{}, false
}
