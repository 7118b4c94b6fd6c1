package session

import (
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Cookie lifetimes in seconds, matching the server-issued token
// lifetimes: 7 days with remember-me, 1 day without.
const (
	MaxAgeRemember = 604800
	MaxAgeDefault  = 86400

	// CookieName mirrors the durable-storage key so requests that bypass
	// the interceptor (plain document fetches) still carry the credential.
	CookieName = KeyAccessToken
)

// CookieMirror maintains the access_token cookie in an http.CookieJar
// for the API origin. It exists for the delivery surface the
// interceptor never sees; the jar attaches the cookie to those requests
// on its own.
type CookieMirror struct {
	jar  http.CookieJar
	base *url.URL
}

func NewCookieMirror(jar http.CookieJar, baseURL string) (*CookieMirror, error) {
	if jar == nil {
		return nil, errors.New("[NewCookieMirror] jar is required")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[NewCookieMirror] parse baseURL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("[NewCookieMirror] baseURL must be absolute")
	}
	return &CookieMirror{jar: jar, base: base}, nil
}

// Set writes the cookie scoped to "/" with SameSite=Lax. Max-age is
// 604800s when rememberMe, 86400s otherwise.
func (m *CookieMirror) Set(accessToken string, rememberMe bool) {
	maxAge := MaxAgeDefault
	if rememberMe {
		maxAge = MaxAgeRemember
	}
	m.jar.SetCookies(m.base, []*http.Cookie{{
		Name:     CookieName,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	}})
}

// Clear expires the cookie immediately.
func (m *CookieMirror) Clear() {
	m.jar.SetCookies(m.base, []*http.Cookie{{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	}})
}

// Mirrored decorates a Store so every Save and Clear is reflected into
// the cookie jar. Reads pass through untouched.
type mirroredStore struct {
	Store
	mirror *CookieMirror
}

func Mirrored(store Store, mirror *CookieMirror) Store {
	return &mirroredStore{Store: store, mirror: mirror}
}

func (m *mirroredStore) Save(accessToken, tokenType string, rememberMe bool) error {
	if err := m.Store.Save(accessToken, tokenType, rememberMe); err != nil {
		return err
	}
	m.mirror.Set(accessToken, rememberMe)
	return nil
}

func (m *mirroredStore) Clear() error {
	if err := m.Store.Clear(); err != nil {
		return err
	}
	m.mirror.Clear()
	return nil
}
