package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// GoogleCertsURL serves the certificates that sign Firebase ID tokens, keyed by key ID.
const GoogleCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

// KeySource supplies the public keys that sign ID tokens, keyed by key ID.
type KeySource interface {
	Keys(ctx context.Context) (map[string]*rsa.PublicKey, error)
}

// StaticKeys is a fixed KeySource.
type StaticKeys map[string]*rsa.PublicKey

func (s StaticKeys) Keys(context.Context) (map[string]*rsa.PublicKey, error) {
	return s, nil
}

// HTTPKeys fetches signing certificates from a URL and keeps them for an hour.
type HTTPKeys struct {
	URL    string
	Client *http.Client
	Clock  clockwork.Clock

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

// NewHTTPKeys creates an HTTPKeys reading Google's Firebase certificates.
func NewHTTPKeys() *HTTPKeys {
	return &HTTPKeys{URL: GoogleCertsURL, Client: http.DefaultClient, Clock: clockwork.NewRealClock()}
}

func (h *HTTPKeys) Keys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.keys != nil && h.Clock.Since(h.fetched) < time.Hour {
		return h.keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("Keys: %w", err)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Keys: unable to fetch %s: %w", h.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Keys: %s returned %s", h.URL, resp.Status)
	}
	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return nil, fmt.Errorf("Keys: unable to decode certificates: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pem := range certs {
		k, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, fmt.Errorf("Keys: unable to parse certificate %s: %w", kid, err)
		}
		keys[kid] = k
	}
	h.keys = keys
	h.fetched = h.Clock.Now()
	return keys, nil
}

type idTokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier turns a Firebase ID token into a Principal.
type Verifier struct {
	projectID string
	keys      KeySource
	clock     clockwork.Clock
}

// NewVerifier creates a Verifier for tokens issued to projectID.
func NewVerifier(projectID string, keys KeySource, clock clockwork.Clock) *Verifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Verifier{projectID: projectID, keys: keys, clock: clock}
}

// Verify checks the token's signature, audience, issuer, and lifetime.
func (v *Verifier) Verify(ctx context.Context, token string) (Principal, error) {
	keys, err := v.keys.Keys(ctx)
	if err != nil {
		return Principal{}, fmt.Errorf("Verify: %w", err)
	}
	claims := &idTokenClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		k, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("unknown signing key \"%s\"", kid)
		}
		return k, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("Verify: %w", err)
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("Verify: token has no subject")
	}
	return Principal{UID: claims.Subject, Email: claims.Email}, nil
}
