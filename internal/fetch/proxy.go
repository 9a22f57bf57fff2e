package fetch

import (
	"net/http"
	"net/url"
)

// NewProxyFunc routes scraper traffic through scraper.http_proxy and
// scraper.https_proxy. With neither set, HTTP_PROXY/HTTPS_PROXY/NO_PROXY
// from the environment apply.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	var plain, secure *url.URL
	var parseErr error
	if httpProxy != "" {
		plain, parseErr = url.Parse(httpProxy)
	}
	if httpsProxy != "" && parseErr == nil {
		secure, parseErr = url.Parse(httpsProxy)
	}

	return func(req *http.Request) (*url.URL, error) {
		switch {
		case parseErr != nil:
			return nil, parseErr
		case req.URL.Scheme == "https" && secure != nil:
			return secure, nil
		case plain != nil:
			return plain, nil
		default:
			return http.ProxyFromEnvironment(req)
		}
	}
}
