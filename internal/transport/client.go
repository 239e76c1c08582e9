package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// checkProxyTimeout bounds the SOCKS5 handshake performed by CheckConnection.
	checkProxyTimeout = 2 * time.Second

	// maxRedirects is the number of redirects followed before the last
	// response is returned as is.
	maxRedirects = 10
)

// HostRule holds the extra request data configured for one host.
type HostRule struct {
	Cookie  string
	Headers map[string]string
}

// IsZero reports whether the rule adds nothing to a request.
func (r HostRule) IsZero() bool {
	return r.Cookie == "" && len(r.Headers) == 0
}

// HostRules returns the rule for a request host (without port).
type HostRules func(host string) HostRule

// Client builds HTTP clients that dial directly or through a SOCKS5 proxy.
type Client struct {
	proxyAddress string
	dialer       proxy.Dialer
	timeout      time.Duration
	rules        HostRules
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHostRules sets the per-host cookie and header rules.
func WithHostRules(rules HostRules) Option {
	return func(c *Client) {
		c.rules = rules
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client. An empty proxyAddress means direct connections;
// otherwise it must be a SOCKS5 proxy in "host:port" form. The timeout bounds
// every request made by clients built from it; zero means no limit.
//
// The proxy is not contacted here. Call CheckConnection to verify it.
func NewClient(proxyAddress string, timeout time.Duration, opts ...Option) (*Client, error) {
	c := &Client{
		proxyAddress: proxyAddress,
		timeout:      timeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if proxyAddress == "" {
		return c, nil
	}

	if !isValidProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	c.dialer = dialer

	return c, nil
}

// isValidProxyAddress reports whether address is host:port with a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" || port == "" {
		return false
	}
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// ProxyAddress returns the configured proxy address, or "" for direct.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// UsesProxy reports whether connections go through a SOCKS5 proxy.
func (c *Client) UsesProxy() bool {
	return c.dialer != nil
}

// NewHTTPClient returns an HTTP client with a cookie jar, a redirect limit
// and, when configured, per-host cookie and header injection.
func (c *Client) NewHTTPClient() *http.Client {
	var rt http.RoundTripper = c.newTransport()
	if c.rules != nil {
		rt = &headerInjectingTransport{base: rt, rules: c.rules}
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: rt,
		Timeout:   c.timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

func (c *Client) newTransport() *http.Transport {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{}
	}
	t := base.Clone()
	if c.dialer == nil {
		return t
	}

	t.Proxy = nil
	t.DialContext = c.DialContext
	t.MaxIdleConns = 10
	t.MaxIdleConnsPerHost = 2
	t.IdleConnTimeout = 30 * time.Second
	return t
}

// DialContext connects to address, through the proxy when one is configured.
func (c *Client) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if c.dialer == nil {
		var d net.Dialer
		return d.DialContext(ctx, network, address)
	}
	if cd, ok := c.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, address)
	}

	type dialResult struct {
		conn net.Conn
		err  error
	}
	resultCh := make(chan dialResult, 1)
	go func() {
		conn, err := c.dialer.Dial(network, address)
		resultCh <- dialResult{conn, err}
	}()

	select {
	case result := <-resultCh:
		return result.conn, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SOCKS5 protocol constants used by CheckConnection.
const (
	socks5Version       = 0x05
	socks5AuthNone      = 0x00
	socks5CmdConnect    = 0x01
	socks5AddrTypeDomID = 0x03

	// socks5ProbeHost is never resolved; any CONNECT reply proves the proxy works.
	socks5ProbeHost = "qrtitle-probe.invalid"
)

// CheckConnection performs a SOCKS5 greeting and a CONNECT request against
// the proxy. Any well-formed CONNECT reply, including a failure code, counts
// as OK. Direct clients always report OK.
func (c *Client) CheckConnection(ctx context.Context) ProxyStatus {
	if c.dialer == nil {
		return ProxyStatusOK
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		return readFailure(err)
	}
	if authResp[0] != socks5Version || authResp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	connectReq := []byte{
		socks5Version,
		socks5CmdConnect,
		0x00,
		socks5AddrTypeDomID,
		byte(len(socks5ProbeHost)),
	}
	connectReq = append(connectReq, socks5ProbeHost...)
	connectReq = append(connectReq, 0x00, 80)

	if _, err := conn.Write(connectReq); err != nil {
		return ProxyStatusCannotConnect
	}

	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		return readFailure(err)
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}

	c.logger.Debug("proxy check passed", "proxy", c.proxyAddress, "reply", connectResp[1])
	return ProxyStatusOK
}

// readFailure maps a handshake read error to a status.
func readFailure(err error) ProxyStatus {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ProxyStatusTimeout
	}
	return ProxyStatusWrongType
}

// headerInjectingTransport adds the host rule's cookie and headers to every
// request it forwards.
type headerInjectingTransport struct {
	base  http.RoundTripper
	rules HostRules
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rule := t.rules(req.URL.Hostname())
	if rule.IsZero() {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())

	if rule.Cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+rule.Cookie)
		} else {
			clone.Header.Set("Cookie", rule.Cookie)
		}
	}

	for key, value := range rule.Headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
