package fetch

import (
	"fmt"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
)

// Rewrite GitHub "blob" URLs to raw.githubusercontent.com so the fetch
// returns the file itself instead of the page wrapped around it. Any other
// URL is returned unchanged.
func Rewrite(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return rawURL
	}
	if !strings.Contains(u.Path, "/blob/") {
		return rawURL
	}
	u.Host = "raw.githubusercontent.com"
	u.Path = strings.Replace(u.Path, "/blob/", "/", 1)
	u.RawPath = ""
	return u.String()
}

// IsPrivateAddress reports whether the URL points at localhost or at a
// loopback, private (RFC 1918) or link-local address. Hostnames aren't
// resolved and URLs that don't parse are not considered private.
func IsPrivateAddress(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast()
}

// NewClient returns an HTTP client that routes every request through proxy.
// An empty proxy means direct connections, whatever the environment says.
func NewClient(proxy string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("fetch: unable to parse proxy: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("fetch: proxy %q must be an absolute url", u.Redacted())
		}
		transport.Proxy = http.ProxyURL(u)
	}
	return &http.Client{Transport: transport}, nil
}
