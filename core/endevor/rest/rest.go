// Package rest adapts the Endevor web services REST API to the Gateway
// interface. All classification of remote failures into protocol error
// kinds happens here, at the trust boundary; callers above only ever see
// classified errors.
package rest

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang/glog"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/errors"
)

// FingerprintHeader carries the opaque element version on retrieve
// responses and update requests.
const FingerprintHeader = "Fingerprint"

const (
	defaultTimeout        = 60 * time.Second
	defaultConnectTimeout = 5 * time.Second
	defaultTLSTimeout     = 5 * time.Second

	listingCacheSize = 64
)

// Client implements endevor.Gateway against an Endevor web services
// instance. It keeps two HTTP clients so that the per-connection TLS
// verification policy never leaks between connections, and a small LRU
// of processor listings keyed by element path, invalidated whenever the
// element is generated again.
type Client struct {
	verified *http.Client
	insecure *http.Client
	listings *lru.Cache[string, string]
}

var _ endevor.Gateway = (*Client)(nil)

func NewClient() (*Client, error) {
	listings, err := lru.New[string, string](listingCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		verified: newHTTPClient(false),
		insecure: newHTTPClient(true),
		listings: listings,
	}, nil
}

func newHTTPClient(skipVerify bool) *http.Client {
	dialer := &net.Dialer{Timeout: defaultConnectTimeout}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultTLSTimeout,
	}
	if skipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- honoring the connection's rejectUnauthorized=false setting.
	}
	return &http.Client{Transport: transport, Timeout: defaultTimeout}
}

func (c *Client) httpClient(connection endevor.ConnectionDetails) *http.Client {
	if connection.RejectUnauthorized {
		return c.verified
	}
	return c.insecure
}

// resultEnvelope is the JSON body Endevor web services wrap failures in.
type resultEnvelope struct {
	ReturnCode int      `json:"returnCode"`
	ReasonCode int      `json:"reasonCode"`
	Messages   []string `json:"messages"`
}

func elementPath(element endevor.ElementMapPath) string {
	segments := []string{
		"configurations", element.Configuration,
		"environments", element.Environment,
		"stages", element.StageNumber,
		"systems", element.System,
		"subsystems", element.SubSystem,
		"types", element.Type,
		"elements", element.Name,
	}
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return "/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, connection endevor.ConnectionDetails, method string, path string, query url.Values, header http.Header, body io.Reader) (*http.Response, error) {
	target := connection.BaseURL() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	request.SetBasicAuth(connection.Credential.User, connection.Credential.Password)
	glog.V(2).Infof("endevor %s %s", method, path)
	return c.httpClient(connection).Do(request)
}

// classify maps a non-2xx Endevor response onto a protocol error kind.
// Message codes are authoritative; the envelope text is kept as the
// error message so users see what the remote actually said.
func classify(name string, status int, envelope resultEnvelope) error {
	joined := strings.ToUpper(strings.Join(envelope.Messages, " "))
	message := fmt.Sprintf("endevor request for element %s failed with status %d, return code %d: %s",
		name, status, envelope.ReturnCode, strings.Join(envelope.Messages, "; "))
	switch {
	case strings.Contains(joined, "C1G0167E") || strings.Contains(joined, "SIGN-OUT") || strings.Contains(joined, "SIGNOUT"):
		return errors.Signout(name, message)
	case strings.Contains(joined, "C1G0410E") || strings.Contains(joined, "FINGERPRINT"):
		return errors.FingerprintMismatch(name, message)
	case strings.Contains(joined, "C1G0129E") || strings.Contains(joined, "MAX RC"):
		return errors.ProcessorStepMaxRc(name, message)
	default:
		return errors.New(errors.KindGeneric, name, message)
	}
}

func failureOf(name string, response *http.Response) error {
	body, readErr := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if readErr != nil {
		return errors.New(errors.KindGeneric, name, fmt.Sprintf("endevor request for element %s failed with status %d", name, response.StatusCode))
	}
	var envelope resultEnvelope
	if unmarshalErr := json.Unmarshal(body, &envelope); unmarshalErr != nil {
		envelope.Messages = []string{strings.TrimSpace(string(body))}
	}
	return classify(name, response.StatusCode, envelope)
}

func changeControlQuery(changeControl endevor.ChangeControlValue) url.Values {
	query := url.Values{}
	if changeControl.CCID != "" {
		query.Set("ccid", changeControl.CCID)
	}
	if changeControl.Comment != "" {
		query.Set("comment", changeControl.Comment)
	}
	return query
}

func (c *Client) retrieve(ctx context.Context, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, query url.Values) (endevor.ElementContent, error) {
	header := http.Header{}
	header.Set("Accept", "application/octet-stream")
	response, err := c.do(ctx, connection, http.MethodGet, elementPath(identity.ElementMapPath), query, header, nil)
	if err != nil {
		return endevor.ElementContent{}, errors.Wrap(err, errors.KindGeneric, identity.Name, fmt.Sprintf("unable to reach endevor for element %s: %v", identity.Name, err))
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return endevor.ElementContent{}, failureOf(identity.Name, response)
	}
	fingerprint := response.Header.Get(FingerprintHeader)
	if fingerprint == "" {
		return endevor.ElementContent{}, errors.New(errors.KindGeneric, identity.Name, fmt.Sprintf("retrieve of element %s returned no fingerprint", identity.Name))
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return endevor.ElementContent{}, errors.Wrap(err, errors.KindGeneric, identity.Name, fmt.Sprintf("unable to read element %s content: %v", identity.Name, err))
	}
	return endevor.ElementContent{
		Content:     string(body),
		Fingerprint: endevor.Fingerprint(fingerprint),
	}, nil
}

func (c *Client) Retrieve(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity) (endevor.ElementContent, error) {
	progress.Report(fmt.Sprintf("Fetching element %s", identity.Name))
	return c.retrieve(ctx, connection, identity, url.Values{})
}

func (c *Client) RetrieveWithSignout(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, signOut endevor.SignOutParams) (endevor.ElementContent, error) {
	progress.Report(fmt.Sprintf("Fetching element %s with signout", identity.Name))
	query := changeControlQuery(signOut.ChangeControlValue)
	query.Set("signout", "yes")
	if signOut.OverrideSignOut {
		query.Set("override-signout", "yes")
	}
	return c.retrieve(ctx, connection, identity, query)
}

// Update writes content against the fingerprint it carries. A 201 means
// the target map position did not hold the element before, so the write
// added it rather than updating it.
func (c *Client) Update(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, target endevor.ElementMapPath, changeControl endevor.ChangeControlValue, content endevor.ElementContent) (endevor.UpdateResult, error) {
	progress.Report(fmt.Sprintf("Uploading element %s", target.Name))
	header := http.Header{}
	header.Set("Content-Type", "text/plain")
	header.Set(FingerprintHeader, string(content.Fingerprint))
	response, err := c.do(ctx, connection, http.MethodPut, elementPath(target), changeControlQuery(changeControl), header, strings.NewReader(content.Content))
	if err != nil {
		return endevor.UpdateResult{}, errors.Wrap(err, errors.KindGeneric, target.Name, fmt.Sprintf("unable to reach endevor for element %s: %v", target.Name, err))
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
		return endevor.UpdateResult{ReturnCode: 0}, nil
	case http.StatusCreated:
		return endevor.UpdateResult{ReturnCode: 0, Created: true}, nil
	default:
		return endevor.UpdateResult{}, failureOf(target.Name, response)
	}
}

func (c *Client) action(ctx context.Context, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, action string, query url.Values) error {
	response, err := c.do(ctx, connection, http.MethodPut, elementPath(identity.ElementMapPath)+"/"+action, query, nil, nil)
	if err != nil {
		return errors.Wrap(err, errors.KindGeneric, identity.Name, fmt.Sprintf("unable to reach endevor for element %s: %v", identity.Name, err))
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return failureOf(identity.Name, response)
	}
	return nil
}

func (c *Client) SignOut(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, signOut endevor.SignOutParams) error {
	progress.Report(fmt.Sprintf("Signing out element %s", identity.Name))
	query := changeControlQuery(signOut.ChangeControlValue)
	if signOut.OverrideSignOut {
		query.Set("override-signout", "yes")
	}
	return c.action(ctx, connection, identity, "signout", query)
}

func (c *Client) SignIn(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity) error {
	progress.Report(fmt.Sprintf("Signing in element %s", identity.Name))
	return c.action(ctx, connection, identity, "signin", url.Values{})
}

// Generate runs the element's processor. Any generate attempt, even one
// whose processor tripped its return code ceiling, produces a new
// listing, so the cached one is dropped first.
func (c *Client) Generate(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, changeControl endevor.ChangeControlValue, options endevor.GenerateOptions) error {
	progress.Report(fmt.Sprintf("Generating element %s", identity.Name))
	c.listings.Remove(elementPath(identity.ElementMapPath))
	query := changeControlQuery(changeControl)
	if options.CopyBack {
		query.Set("copy-back", "yes")
	}
	if options.NoSource {
		query.Set("no-source", "yes")
	}
	return c.action(ctx, connection, identity, "generate", query)
}

func (c *Client) RetrieveListing(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity) (string, error) {
	path := elementPath(identity.ElementMapPath)
	if listing, ok := c.listings.Get(path); ok {
		glog.V(2).Infof("listing of element %s served from cache", identity.Name)
		return listing, nil
	}
	progress.Report(fmt.Sprintf("Fetching listing of element %s", identity.Name))
	header := http.Header{}
	header.Set("Accept", "text/plain")
	response, err := c.do(ctx, connection, http.MethodGet, path+"/listing", url.Values{}, header, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.KindGeneric, identity.Name, fmt.Sprintf("unable to reach endevor for element %s: %v", identity.Name, err))
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", failureOf(identity.Name, response)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", errors.Wrap(err, errors.KindGeneric, identity.Name, fmt.Sprintf("unable to read listing of element %s: %v", identity.Name, err))
	}
	listing := string(body)
	c.listings.Add(path, listing)
	return listing, nil
}
