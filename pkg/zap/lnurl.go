package zap

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zapcampaign/zapcampaign/pkg/errors"
)

// lnurlClient speaks the LNURL-pay protocol: one GET for the endpoint
// metadata, one GET against its callback for the invoice. Both fetches
// are individually time-bounded; a timeout is a recoverable failure.
type lnurlClient struct {
	http    *http.Client
	timeout time.Duration
}

func newLNURLClient(timeout time.Duration) *lnurlClient {
	return &lnurlClient{
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// payMetadata is the LNURL-pay endpoint document. allowsNostr
// advertises NIP-57 support and gates whether the zap request rides
// along on the callback.
type payMetadata struct {
	Callback    string `json:"callback"`
	AllowsNostr bool   `json:"allowsNostr"`
}

type invoiceResponse struct {
	PR     string `json:"pr"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Endpoint derives the HTTP endpoint for a payment address. A
// user@domain lightning address maps to the LNURL-pay well-known path
// under the domain; anything else is treated as a direct endpoint URL.
func Endpoint(address string) string {
	if name, domain, ok := strings.Cut(address, "@"); ok {
		return fmt.Sprintf("https://%s/.well-known/lnurlp/%s", domain, name)
	}
	return address
}

// fetchInvoice runs both protocol hops and returns the bolt11 payment
// request.
func (c *lnurlClient) fetchInvoice(ctx context.Context, address string, amount int64, zapRequest string) (string, error) {
	endpoint := Endpoint(address)

	var meta payMetadata
	if err := c.getJSON(ctx, endpoint, &meta); err != nil {
		return "", err
	}
	if meta.Callback == "" {
		return "", errors.New(errors.KindInvalidEndpoint, "endpoint %s has no callback", address)
	}

	callback, err := url.Parse(meta.Callback)
	if err != nil {
		return "", errors.Wrap(err, errors.KindInvalidEndpoint, "endpoint %s callback is not a URL", address)
	}

	query := callback.Query()
	query.Set("amount", strconv.FormatInt(amount*1000, 10)) // millisats
	if meta.AllowsNostr && zapRequest != "" {
		query.Set("nostr", zapRequest)
	}
	callback.RawQuery = query.Encode()

	var inv invoiceResponse
	if err := c.getJSON(ctx, callback.String(), &inv); err != nil {
		return "", err
	}
	if inv.PR == "" {
		if inv.Reason != "" {
			return "", errors.New(errors.KindNoInvoice, "endpoint refused invoice: %s", inv.Reason)
		}
		return "", errors.New(errors.KindNoInvoice, "endpoint returned no invoice")
	}
	return inv.PR, nil
}

// getJSON fetches a URL under the client timeout and decodes the JSON
// body. Timeouts map to the timeout kind; every other transport or
// decode failure is an invalid endpoint.
func (c *lnurlClient) getJSON(ctx context.Context, rawURL string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, errors.KindInvalidEndpoint, "bad endpoint URL")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return errors.Wrap(err, errors.KindTimeout, "endpoint fetch timed out")
		}
		return errors.Wrap(err, errors.KindInvalidEndpoint, "endpoint fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(errors.KindInvalidEndpoint, "endpoint returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.KindInvalidEndpoint, "endpoint returned invalid JSON")
	}
	return nil
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
