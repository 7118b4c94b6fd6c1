// Package transport attaches the session credential to outbound
// requests. Two delivery surfaces exist: the generic http.Client path
// (Bearer, an http.RoundTripper) and the partial-update path
// (HeaderHook, applied to a header map before send). Both run the same
// rule, setAuthorization, so they can never disagree about which
// requests get authenticated.
package transport

import (
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// ProtectedPrefix marks the paths that require the bearer credential.
const ProtectedPrefix = "/api/"

const authorizationHeader = "Authorization"

// Bearer is an http.RoundTripper that decorates protected-path requests
// with an Authorization header sourced from the session.
type Bearer struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

var _ http.RoundTripper = (*Bearer)(nil)

// NewBearer wraps base with credential injection. A nil base falls back
// to http.DefaultTransport.
func NewBearer(source oauth2.TokenSource, base http.RoundTripper) *Bearer {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Bearer{source: source, base: base}
}

func (b *Bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	if !needsAuthorization(req.URL.Path, req.Header) {
		return b.base.RoundTrip(req)
	}

	tok, err := b.source.Token()
	if err != nil || tok == nil {
		// No session: the request proceeds unauthenticated and the
		// server answers 401/403.
		return b.base.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	setAuthorization(clone.Header, clone.URL.Path, tok)
	return b.base.RoundTrip(clone)
}

// HeaderHook returns a pre-send hook for the partial-update surface.
// It mutates the outgoing header map in place using the same rule the
// RoundTripper applies.
func HeaderHook(source oauth2.TokenSource) func(path string, header http.Header) {
	return func(path string, header http.Header) {
		if !needsAuthorization(path, header) {
			return
		}
		tok, err := source.Token()
		if err != nil || tok == nil {
			return
		}
		setAuthorization(header, path, tok)
	}
}

// needsAuthorization reports whether the request targets a protected
// path and carries no caller-supplied Authorization header. A header
// supplied by the caller is never overwritten.
func needsAuthorization(path string, header http.Header) bool {
	if !strings.HasPrefix(path, ProtectedPrefix) {
		return false
	}
	return header.Get(authorizationHeader) == ""
}

// setAuthorization writes "<tokenType> <accessToken>". The token type
// is used exactly as stored; oauth2's canonical form is only a fallback
// when the server omitted it.
func setAuthorization(header http.Header, path string, tok *oauth2.Token) {
	if !needsAuthorization(path, header) || tok.AccessToken == "" {
		return
	}
	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = tok.Type()
	}
	header.Set(authorizationHeader, tokenType+" "+tok.AccessToken)
}
