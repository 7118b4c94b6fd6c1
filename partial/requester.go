// Package partial fetches server-rendered page fragments, the
// counterpart of the attribute-driven partial-update mechanism on the
// web side. Hooks registered on the Requester run against the outgoing
// header map before each request, which is how the credential hook from
// the transport package gets applied to this surface.
package partial

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Hook mutates the outgoing headers before a fragment request is sent.
type Hook func(path string, header http.Header)

// Fragment is a rendered region replacement.
type Fragment struct {
	Target string // identifier of the region the markup replaces
	HTML   string
}

// Requester issues fragment requests against the API origin.
type Requester struct {
	client  *http.Client
	baseURL *url.URL
	hooks   []Hook
}

func NewRequester(baseURL string, client *http.Client, hooks ...Hook) (*Requester, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[NewRequester] parse baseURL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("[NewRequester] baseURL must be absolute")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Requester{client: client, baseURL: base, hooks: hooks}, nil
}

// Use registers an additional pre-send hook.
func (r *Requester) Use(h Hook) {
	r.hooks = append(r.hooks, h)
}

// Get fetches the fragment at path for the given target region.
func (r *Requester) Get(ctx context.Context, path, target string) (Fragment, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL.String()+path, nil)
	if err != nil {
		return Fragment{}, errors.Wrap(err, "[Requester.Get] NewRequest")
	}
	req.Header.Set("HX-Request", "true")
	if target != "" {
		req.Header.Set("HX-Target", target)
	}

	for _, hook := range r.hooks {
		hook(path, req.Header)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Fragment{}, errors.Wrap(err, "[Requester.Get] Do")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fragment{}, errors.Wrap(err, "[Requester.Get] ReadAll")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Fragment{}, errors.Errorf("[Requester.Get] %s returned %d", path, resp.StatusCode)
	}

	return Fragment{Target: target, HTML: string(body)}, nil
}
