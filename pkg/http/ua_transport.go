package http

import "net/http"

type userAgentTransport struct {
	userAgent string
	transport http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.userAgent != "" && reqCopy.Header.Get("User-Agent") == "" {
		reqCopy.Header.Set("User-Agent", t.userAgent)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithUserAgent sets a default User-Agent header on outbound requests that
// do not already carry one.
func WithUserAgent(userAgent string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &userAgentTransport{
			userAgent: userAgent,
			transport: rt,
		}
	})
}
