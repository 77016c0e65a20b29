package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

const queryTokenTTL = 30 * time.Second

// AuthorizerService hands out short-lived single-use tokens so the
// websocket endpoint can be guarded through a query parameter, where
// headers are unavailable.
type AuthorizerService struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewAuthorizer() *AuthorizerService {
	return &AuthorizerService{
		tokens: make(map[string]time.Time),
	}
}

func (auth *AuthorizerService) GenerateQueryToken() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	token := hex.EncodeToString(buf)

	auth.mu.Lock()
	defer auth.mu.Unlock()
	auth.tokens[token] = time.Now().Add(queryTokenTTL)
	return token
}

func (auth *AuthorizerService) CheckQuery(token string) error {
	auth.mu.Lock()
	defer auth.mu.Unlock()

	expiry, ok := auth.tokens[token]
	if !ok {
		return errors.New("unknown token")
	}
	delete(auth.tokens, token)

	if time.Now().After(expiry) {
		return errors.New("token expired")
	}
	return nil
}
