package tui

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/studiowebux/blogdesk/internal/client"
)

const msgTimeout = "Request timeout - the blog server took too long, raise timeout in the profile"

// categorizeError turns a repository error into a short, actionable line.
// HTTP status failures are described by status class; transport failures
// are unwrapped and matched against known network conditions.
func categorizeError(err error) string {
	if err == nil {
		return ""
	}

	if f, ok := client.AsFailure(err); ok {
		if f.Kind == client.KindHTTPStatus {
			return categorizeStatus(f.Status)
		}
		if f.Err == nil {
			return "Could not reach the blog server"
		}
		err = f.Err
	}

	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	switch e := rootErr.(type) {
	case *url.Error:
		return categorizeURLError(e)
	case *net.OpError:
		return categorizeNetError(e)
	case x509.CertificateInvalidError:
		return "TLS certificate is invalid: " + e.Error()
	case x509.UnknownAuthorityError:
		return "TLS certificate signed by unknown authority - set tls.ca_file in the profile or disable verification (insecure)"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}

	return categorizeRequestError(err.Error())
}

// categorizeStatus describes a non-2xx answer from the posts collection
func categorizeStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "Post no longer exists (404)"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Sprintf("Not allowed (HTTP %d) - check the profile headers", status)
	case client.IsClientErrorStatus(status):
		return fmt.Sprintf("Request rejected (HTTP %d) - check the post fields", status)
	case client.IsServerErrorStatus(status):
		return fmt.Sprintf("Server error (HTTP %d) - the blog server failed, try again later", status)
	}
	return fmt.Sprintf("Unexpected response (HTTP %d)", status)
}

// categorizeRequestError matches error text from the HTTP stack
func categorizeRequestError(errStr string) string {
	if errStr == "" {
		return ""
	}

	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "context canceled") ||
		strings.Contains(errLower, "context cancelled") {
		return "Request cancelled"
	}

	if strings.Contains(errLower, "deadline exceeded") {
		return msgTimeout
	}

	// proxy errors often also contain "connection refused"
	if strings.Contains(errLower, "proxy") {
		return "Proxy connection failed - check HTTP_PROXY and HTTPS_PROXY"
	}

	if strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "dial tcp: lookup") {
		return "DNS resolution failed - verify the base URL hostname"
	}

	if strings.Contains(errLower, "connection refused") {
		return "Connection refused - is the blog server running? Try `blogdesk mock`"
	}

	if strings.Contains(errLower, "connection reset") {
		return "Connection reset by server"
	}

	if strings.Contains(errLower, "network is unreachable") ||
		strings.Contains(errLower, "no route to host") {
		return "Network unreachable - check the network connection"
	}

	if strings.Contains(errLower, "tls") ||
		strings.Contains(errLower, "certificate") ||
		strings.Contains(errLower, "x509") {
		return categorizeSSLError(errStr)
	}

	if strings.Contains(errLower, "unsupported protocol") ||
		strings.Contains(errLower, "invalid url") {
		return "Invalid base URL - use http:// or https://"
	}

	if strings.Contains(errLower, "invalid character") ||
		strings.Contains(errLower, "cannot unmarshal") ||
		strings.Contains(errLower, "unexpected end of json") {
		return "Unexpected response body - the server did not return post JSON"
	}

	if strings.Contains(errLower, "eof") {
		return "Connection closed unexpectedly"
	}

	if strings.Contains(errLower, "timeout") ||
		strings.Contains(errLower, "timed out") {
		return msgTimeout
	}

	return "Request failed: " + errStr
}

func categorizeSSLError(errStr string) string {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "unknown authority"):
		return "TLS certificate verification failed - set tls.ca_file in the profile or disable verification (insecure)"
	case strings.Contains(errLower, "expired"):
		return "TLS certificate has expired"
	case strings.Contains(errLower, "certificate is valid for"):
		return "TLS hostname mismatch - certificate doesn't match the base URL host"
	case strings.Contains(errLower, "handshake"):
		return "TLS handshake failed"
	}
	return "TLS error: " + errStr
}

func categorizeURLError(e *url.Error) string {
	if e.Timeout() {
		return msgTimeout
	}
	return categorizeError(e.Err)
}

func categorizeNetError(e *net.OpError) string {
	if e.Timeout() {
		return msgTimeout
	}

	if errno, ok := e.Err.(syscall.Errno); ok {
		switch errno {
		case syscall.ECONNREFUSED:
			return "Connection refused - is the blog server running? Try `blogdesk mock`"
		case syscall.ECONNRESET:
			return "Connection reset by server"
		case syscall.ENETUNREACH, syscall.EHOSTUNREACH:
			return "Network unreachable - check the network connection"
		}
	}

	return categorizeError(e.Err)
}
