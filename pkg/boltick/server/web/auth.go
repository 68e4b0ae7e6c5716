package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/cache"
)

const (
	signerHeaderName    = "x-boltick-signer"
	signatureHeaderName = "x-boltick-signature"
)

var (
	ErrMissingSignature = errors.New("request signature missing")
	ErrInvalidSignature = errors.New("request signature invalid")
	ErrRequestExpired   = errors.New("request timestamp outside the accepted window")
	ErrReplayedRequest  = errors.New("request signature already used")
)

// signedEnvelope holds the fields every signed body carries. Clients that
// send the same request twice within a second set a distinct nonce so the
// signatures differ.
type signedEnvelope struct {
	Timestamp int64  `json:"timestamp"`
	Nonce     string `json:"nonce,omitempty"`
}

// SignedMessage is what the signer signs: the method, the path and the raw
// body
func SignedMessage(method, path string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(method)
	buf.WriteByte(' ')
	buf.WriteString(path)
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes()
}

// SignRequest sets the signature headers on r for body
func SignRequest(r *http.Request, signer *common.Account, body []byte) error {
	signature, err := signer.Sign(SignedMessage(r.Method, r.URL.Path, body))
	if err != nil {
		return err
	}
	r.Header.Set(signerHeaderName, signer.ToBase58())
	r.Header.Set(signatureHeaderName, base58.Encode(signature))
	return nil
}

// authenticate returns the account that signed the request and the verified
// signature. The body's timestamp must be within maxAge of now.
func authenticate(r *http.Request, body []byte, now time.Time, maxAge time.Duration) (*common.Account, []byte, error) {
	signerValue := r.Header.Get(signerHeaderName)
	signatureValue := r.Header.Get(signatureHeaderName)
	if len(signerValue) == 0 || len(signatureValue) == 0 {
		return nil, nil, ErrMissingSignature
	}

	signer, err := common.NewAccountFromPublicKeyString(signerValue)
	if err != nil {
		return nil, nil, errors.Wrap(ErrInvalidSignature, "signer is not a public key")
	}

	signature, err := base58.Decode(signatureValue)
	if err != nil {
		return nil, nil, errors.Wrap(ErrInvalidSignature, "signature is not base58")
	}

	if err := signer.Verify(SignedMessage(r.Method, r.URL.Path, body), signature); err != nil {
		return nil, nil, ErrInvalidSignature
	}

	var envelope signedEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil, errors.Wrap(err, "invalid request body")
	}
	age := now.Sub(time.Unix(envelope.Timestamp, 0))
	if age > maxAge || age < -maxAge {
		return nil, nil, ErrRequestExpired
	}

	return signer, signature, nil
}

// replayGuard remembers signatures of requests that were accepted. A signed
// body is only valid within the request age window, so an entry only has to
// outlive that window. The oldest entries are evicted once the budget is
// reached.
type replayGuard struct {
	seen cache.Cache[struct{}]
}

func newReplayGuard(maxTracked int) *replayGuard {
	return &replayGuard{
		seen: cache.NewCache[struct{}](maxTracked),
	}
}

// claim records the signature, failing with ErrReplayedRequest when it was
// already recorded
func (g *replayGuard) claim(signature []byte) error {
	err := g.seen.Insert(base58.Encode(signature), struct{}{}, 1)
	if err == cache.ErrExists {
		return ErrReplayedRequest
	}
	return err
}
