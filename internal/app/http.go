package app

import (
	"net"
	"net/http"
	"time"
)

// newHighThroughputHTTPClient returns an HTTP client tuned for many parallel
// requests to a few hosts: draft calls to the model endpoint and batch
// downloads of briefing URLs. A non-positive timeout falls back to
// DefaultLLMTimeout so a stalled backend cannot hang a batch.
func newHighThroughputHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          0,   // no global limit
		MaxIdleConnsPerHost:   256, // one endpoint, many workers
		MaxConnsPerHost:       0,   // unlimited
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
