package reconcile

import "sync"

type cacheKey struct {
	budgetID  string
	accountID string
}

// Cache holds fetched remote-transaction windows for the lifetime of a
// session, keyed by (budget, account). It exists so repeated duplicate checks
// against the same account do not refetch, with explicit invalidation on
// refresh instead of implicit shared state.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey][]Remote
}

func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey][]Remote)}
}

// Get returns the cached window for the account, if any.
func (c *Cache) Get(budgetID, accountID string) ([]Remote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	window, ok := c.entries[cacheKey{budgetID, accountID}]
	return window, ok
}

// Put stores a fetched window for the account.
func (c *Cache) Put(budgetID, accountID string, window []Remote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{budgetID, accountID}] = window
}

// Invalidate drops the cached window for one account.
func (c *Cache) Invalidate(budgetID, accountID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey{budgetID, accountID})
}
