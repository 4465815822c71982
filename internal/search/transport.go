package search

import "net/http"

// keyTransport appends the API key to every outgoing request.
type keyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	q := req.URL.Query()
	q.Set("key", t.key)
	req.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(req)
}

func withAPIKey(client *http.Client, key string) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *client
	wrapped.Transport = &keyTransport{key: key, base: base}
	return &wrapped
}
