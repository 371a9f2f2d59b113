package whttp

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Method  string
	Body    string
	Headers []WHTTPHeader
}

type WHTTPRes struct {
	StatusCode int
	BodyString string
}

// NewClient returns an *http.Client that retries transient transport
// failures. Non-2xx answers from the Record Store are not retried; they
// surface to the caller unchanged.
func NewClient(proxy string) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.Logger = nil

	if proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = http.ProxyURL(proxyURL)
			rc.HTTPClient.Transport = transport
		}
	}

	return rc.StandardClient()
}

func SendHTTPRequest(ctx context.Context, wReq *WHTTPReq, client *http.Client) (wRes *WHTTPRes, err error) {
	if client == nil {
		client = NewClient("")
	}

	var bodyReader io.Reader
	if wReq.Body != "" {
		bodyReader = strings.NewReader(wReq.Body)
	}

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, wReq.Method, wReq.URL, bodyReader)
	if err != nil {
		return nil, err
	}

	// Set common headers
	req.Header.Set("User-Agent", "biomon/1.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")
	if wReq.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	// Set custom headers
	for _, h := range wReq.Headers {
		req.Header.Set(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &WHTTPRes{
		StatusCode: resp.StatusCode,
		BodyString: string(bodyBytes),
	}, nil
}
