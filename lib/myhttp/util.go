package myhttp

import (
	"fmt"
	"net/http"
	"strings"
)

// HostnameWithScheme is the fallback when no public base url is configured
func HostnameWithScheme(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// BaseURL prefers the configured url and strips a trailing slash
func BaseURL(configured string, r *http.Request) string {
	if configured == "" {
		return HostnameWithScheme(r)
	}
	return strings.TrimSuffix(configured, "/")
}
