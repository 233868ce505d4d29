// Package zap prepares NIP-57 zap payments: it resolves a recipient's
// lightning address, builds an ephemeral-key zap request, and fetches a
// redeemable invoice over LNURL-pay. It never settles payments.
package zap

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/sirupsen/logrus"

	"github.com/zapcampaign/zapcampaign/pkg/errors"
)

// AddressResolver looks up a recipient's lightning address from their
// profile metadata. Implemented by the relay client.
type AddressResolver interface {
	LightningAddress(ctx context.Context, pubkey string) (string, error)
}

// Payment is everything an external payment MCP needs to settle one zap.
type Payment struct {
	LightningAddress string `json:"lightningAddress"`
	Amount           int64  `json:"amount"`
	Invoice          string `json:"invoice"`
	ZapRequest       string `json:"zapRequest"`
	Note             string `json:"note"`
}

// Preparer drives the multi-hop preparation protocol.
type Preparer struct {
	resolver AddressResolver
	relays   []string
	lnurl    *lnurlClient
	log      *logrus.Entry
}

// NewPreparer builds a Preparer. The relays are advertised inside each
// zap request so the receiving wallet knows where to publish the
// receipt.
func NewPreparer(resolver AddressResolver, relays []string, timeout time.Duration, log *logrus.Entry) *Preparer {
	return &Preparer{
		resolver: resolver,
		relays:   relays,
		lnurl:    newLNURLClient(timeout),
		log:      log,
	}
}

// Prepare resolves the recipient (hex pubkey or npub), fetches an
// invoice for amount sats, and returns the payment bundle. Internal
// failures are re-wrapped under a single "prepare zap" shape; the
// error kind survives so callers can branch on the failure category.
func (p *Preparer) Prepare(ctx context.Context, pubkeyOrNpub string, amount int64, note string) (*Payment, error) {
	payment, err := p.prepare(ctx, pubkeyOrNpub, amount, note)
	if err != nil {
		kind := errors.KindOf(err)
		p.log.WithError(err).WithField("kind", kind).Debug("zap preparation failed")
		return nil, errors.Wrap(err, kind, "prepare zap: %s", userMessage(err))
	}
	return payment, nil
}

func (p *Preparer) prepare(ctx context.Context, pubkeyOrNpub string, amount int64, note string) (*Payment, error) {
	pubkey, err := normalizeIdentity(pubkeyOrNpub)
	if err != nil {
		return nil, err
	}

	address, err := p.resolver.LightningAddress(ctx, pubkey)
	if err != nil {
		return nil, err
	}

	zapRequest, err := buildZapRequest(pubkey, amount, note, p.relays)
	if err != nil {
		return nil, err
	}

	invoice, err := p.lnurl.fetchInvoice(ctx, address, amount, zapRequest)
	if err != nil {
		return nil, err
	}

	return &Payment{
		LightningAddress: address,
		Amount:           amount,
		Invoice:          invoice,
		ZapRequest:       zapRequest,
		Note:             note,
	}, nil
}

// normalizeIdentity accepts a hex pubkey or an npub. Portable npub
// encodings are decoded; anything bech32 that isn't an npub is
// rejected.
func normalizeIdentity(id string) (string, error) {
	if !strings.HasPrefix(id, "npub") {
		return id, nil
	}
	prefix, value, err := nip19.Decode(id)
	if err != nil {
		return "", errors.Wrap(err, errors.KindInvalidIdentity, "invalid npub encoding")
	}
	if prefix != "npub" {
		return "", errors.New(errors.KindInvalidIdentity, "unexpected bech32 entity %q", prefix)
	}
	pubkey, ok := value.(string)
	if !ok {
		return "", errors.New(errors.KindInvalidIdentity, "npub did not decode to a pubkey")
	}
	return pubkey, nil
}

// buildZapRequest creates and signs a kind-9734 zap request. The
// signing key is generated fresh per call and discarded; the request's
// authenticity rests only on its own signature.
func buildZapRequest(recipient string, amount int64, note string, relays []string) (string, error) {
	sk := nostr.GeneratePrivateKey()

	ev := nostr.Event{
		Kind:      nostr.KindZapRequest,
		CreatedAt: nostr.Now(),
		Content:   note,
		Tags: nostr.Tags{
			nostr.Tag{"p", recipient},
			nostr.Tag{"amount", strconv.FormatInt(amount*1000, 10)}, // millisats
			append(nostr.Tag{"relays"}, relays...),
		},
	}
	if err := ev.Sign(sk); err != nil {
		return "", errors.Wrap(err, errors.KindInternal, "sign zap request")
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		return "", errors.Wrap(err, errors.KindInternal, "encode zap request")
	}
	return string(raw), nil
}

// userMessage extracts the sanitized message from a kinded error,
// hiding transport internals from plain errors.
func userMessage(err error) string {
	var kerr *errors.Error
	if stderrors.As(err, &kerr) {
		return kerr.Message
	}
	return "unexpected error"
}
