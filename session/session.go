package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Fixed storage keys. Every backend persists the credential pair under
// these names so that stores remain interchangeable.
const (
	KeyAccessToken = "access_token"
	KeyTokenType   = "token_type"
)

// ErrNoSession is returned by TokenSource when no credential pair is stored.
// Callers treat it as "logged out", not as a failure.
var ErrNoSession = errors.New("no session")

// Session is the credential pair issued at login. AccessToken and
// TokenType are always set together or cleared together.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	RememberMe  bool   `json:"remember_me"`
}

// Valid reports whether the session holds a complete credential pair.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.TokenType != ""
}

// Token converts the session into an oauth2 token. The token type is
// carried verbatim so the Authorization header always matches what the
// server issued.
func (s Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
	}
}

// Expiry reads the exp claim of the stored access token without
// verifying the signature. The client holds no signing key; the peek
// only lets callers treat a stale token as logged out before the server
// rejects it. Returns false when the token is not a JWT or carries no
// expiry.
func (s Session) Expiry() (time.Time, bool) {
	if s.AccessToken == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the stored token has passed its exp claim.
// Tokens without a readable expiry are never considered expired.
func (s Session) Expired(now time.Time) bool {
	exp, ok := s.Expiry()
	if !ok {
		return false
	}
	return exp.Before(now)
}

// Store persists the credential pair. Implementations must keep the
// pair atomic: Save writes both values, Clear removes both, and Read
// never returns one without the other.
type Store interface {
	Save(accessToken, tokenType string, rememberMe bool) error
	Read() (Session, bool)
	Clear() error
}

// TokenSource adapts a Store to oauth2.TokenSource so request
// interceptors consume the session through the standard interface.
func TokenSource(store Store) oauth2.TokenSource {
	return storeTokenSource{store: store}
}

type storeTokenSource struct {
	store Store
}

func (t storeTokenSource) Token() (*oauth2.Token, error) {
	sess, ok := t.store.Read()
	if !ok || !sess.Valid() {
		return nil, ErrNoSession
	}
	// A token past its exp claim is logged out; sending it would only
	// earn a 401 from the server.
	if sess.Expired(time.Now()) {
		return nil, ErrNoSession
	}
	return sess.Token(), nil
}
