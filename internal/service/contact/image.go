package contact

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// Image loading errors
var (
	ErrInvalidImageURI = errors.New("invalid image URL")
	ErrImageUnreadable = errors.New("image data unreadable")

	// ErrImageHostBlocked marks a fetch that would reach a loopback, private or
	// link-local address.
	ErrImageHostBlocked = errors.New("image host not allowed")
)

const (
	defaultImageMaxBytes = 512 << 10
	defaultImageTimeout  = 10 * time.Second
	maxImageRedirects    = 3
	imageUserAgent       = "huma-contacts"
)

// Reasons reported by ImageFailureReason.
const (
	ImageReasonHostBlocked = "host not allowed"
	ImageReasonFetch       = "fetch failed"
	ImageReasonStatus      = "unexpected status"
	ImageReasonEmpty       = "empty body"
	ImageReasonTooLarge    = "too large"
	ImageReasonNotPNG      = "not a PNG image"
	ImageReasonMalformed   = "malformed data URI"
)

// imageFailure is an ErrImageUnreadable carrying a caller-safe reason and the detailed cause.
type imageFailure struct {
	reason string
	cause  error
}

func (e *imageFailure) Error() string {
	if e.cause == nil {
		return ErrImageUnreadable.Error() + ": " + e.reason
	}
	return ErrImageUnreadable.Error() + ": " + e.reason + ": " + e.cause.Error()
}

func (e *imageFailure) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrImageUnreadable}
	}
	return []error{ErrImageUnreadable, e.cause}
}

func unreadable(reason string, cause error) error {
	return &imageFailure{reason: reason, cause: cause}
}

// ImageFailureReason returns the short reason behind an ErrImageUnreadable, or ""
// when err carries none. The reason never includes addresses or transport details.
func ImageFailureReason(err error) string {
	var f *imageFailure
	if errors.As(err, &f) {
		return f.reason
	}
	return ""
}

// ImageLoader fetches thumbnail bytes for a caller-supplied URI.
type ImageLoader interface {
	Load(ctx context.Context, uri string) ([]byte, error)
}

// HTTPImageLoader implements ImageLoader for http, https and data URIs.
type HTTPImageLoader struct {
	httpClient *http.Client
	maxBytes   int64
}

// ImageOption configures an HTTPImageLoader.
type ImageOption func(*HTTPImageLoader)

// WithMaxBytes caps the accepted image size.
func WithMaxBytes(n int64) ImageOption {
	return func(l *HTTPImageLoader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// NewImageHTTPClient returns a client for fetching caller-supplied image URLs. It
// refuses to dial loopback, private, link-local, multicast and unspecified
// addresses after DNS resolution, and follows at most a few http(s) redirects.
func NewImageHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultImageTimeout
	}
	dialer := &net.Dialer{
		Timeout: timeout,
		Control: publicAddressOnly,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:       timeout,
		Transport:     transport,
		CheckRedirect: checkImageRedirect,
	}
}

// NewHTTPImageLoader creates a loader. A nil httpClient gets NewImageHTTPClient with
// the default timeout; any other client is used as given.
func NewHTTPImageLoader(httpClient *http.Client, opts ...ImageOption) *HTTPImageLoader {
	if httpClient == nil {
		httpClient = NewImageHTTPClient(defaultImageTimeout)
	}
	l := &HTTPImageLoader{httpClient: httpClient, maxBytes: defaultImageMaxBytes}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the PNG bytes behind uri.
func (l *HTTPImageLoader) Load(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return nil, ErrInvalidImageURI
	}

	var data []byte
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, ErrInvalidImageURI
		}
		data, err = l.fetch(ctx, u.String())
	case "data":
		data, err = decodeDataURI(u.Opaque)
	default:
		return nil, ErrInvalidImageURI
	}
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, unreadable(ImageReasonEmpty, nil)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, unreadable(ImageReasonTooLarge, fmt.Errorf("over %d bytes", l.maxBytes))
	}
	// Thumbnails are rendered as data:image/png.
	if ct := http.DetectContentType(data); ct != "image/png" {
		return nil, unreadable(ImageReasonNotPNG, fmt.Errorf("content type %s", ct))
	}
	return data, nil
}

func (l *HTTPImageLoader) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, ErrInvalidImageURI
	}
	req.Header.Set("Accept", "image/png")
	req.Header.Set("User-Agent", imageUserAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, ErrImageHostBlocked) {
			return nil, unreadable(ImageReasonHostBlocked, err)
		}
		return nil, unreadable(ImageReasonFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unreadable(ImageReasonStatus, fmt.Errorf("status %d", resp.StatusCode))
	}

	// One byte over the limit is enough to reject.
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, unreadable(ImageReasonFetch, err)
	}
	return data, nil
}

// publicAddressOnly is a net.Dialer Control hook; address is the resolved ip:port.
func publicAddressOnly(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrImageHostBlocked, address)
	}
	if !isPublicAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrImageHostBlocked, ap.Addr())
	}
	return nil
}

var carrierGradeNAT = netip.MustParsePrefix("100.64.0.0/10")

func isPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsUnspecified(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast(),
		carrierGradeNAT.Contains(addr):
		return false
	}
	return true
}

func checkImageRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxImageRedirects {
		return fmt.Errorf("stopped after %d redirects", maxImageRedirects)
	}
	if s := req.URL.Scheme; s != "http" && s != "https" {
		return fmt.Errorf("redirect to unsupported scheme %q", s)
	}
	return nil
}

// decodeDataURI decodes the part of a data: URI after the scheme.
func decodeDataURI(opaque string) ([]byte, error) {
	meta, payload, ok := strings.Cut(opaque, ",")
	if !ok {
		return nil, ErrInvalidImageURI
	}
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, unreadable(ImageReasonMalformed, err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, unreadable(ImageReasonMalformed, err)
	}
	return []byte(data), nil
}

// Compile-time interface check
var _ ImageLoader = (*HTTPImageLoader)(nil)
