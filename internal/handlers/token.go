package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// tokenLifetime bounds how long an issued anti-forgery token stays
// valid. Tokens are reusable within the window.
const tokenLifetime = 12 * time.Hour

// TokenStore issues and validates the anti-forgery tokens every admin
// request must carry.
type TokenStore struct {
	tokens map[string]time.Time
	mu     sync.Mutex
	now    func() time.Time
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Issue creates a new token valid for the configured lifetime. Expired
// tokens are swept opportunistically.
func (t *TokenStore) Issue() string {
	token := uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for tok, expiry := range t.tokens {
		if now.After(expiry) {
			delete(t.tokens, tok)
		}
	}

	t.tokens[token] = now.Add(tokenLifetime)
	return token
}

// Valid reports whether token was issued here and has not expired.
func (t *TokenStore) Valid(token string) bool {
	if token == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	expiry, ok := t.tokens[token]
	if !ok {
		return false
	}
	if t.now().After(expiry) {
		delete(t.tokens, token)
		return false
	}
	return true
}

// HandleToken issues an anti-forgery token for the admin surface.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h.writeSuccess(w, map[string]string{"token": h.tokens.Issue()})
}
