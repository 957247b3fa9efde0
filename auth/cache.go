package auth

import "sync"

// TokenCache stores a single cached credential.
//
// Get never fails: any read problem (missing file, malformed payload) is a
// cache miss and returns nil. Set persists fully or returns an error.
type TokenCache interface {
	Get() *TokenInfo
	Set(token *TokenInfo) error
}

// MemoryTokenCache is a process-lifetime token cache.
type MemoryTokenCache struct {
	mu    sync.RWMutex
	token *TokenInfo
}

// NewMemoryTokenCache creates an empty in-memory cache.
func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{}
}

// Get returns the cached token or nil.
func (c *MemoryTokenCache) Get() *TokenInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return nil
	}
	copied := *c.token
	return &copied
}

// Set stores a copy of the token.
func (c *MemoryTokenCache) Set(token *TokenInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *token
	c.token = &copied
	return nil
}
