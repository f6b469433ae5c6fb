// Package gate decides whether a mutating request may reach validation and
// storage. It is deliberately coarse: one shared secret for all legitimate
// clients, plus a honeypot field that only automated form-fillers populate.
package gate

import (
	"crypto/subtle"
	"errors"
)

// SecretHeader carries the shared write secret. The name is part of the wire
// contract with the frontend; it is configured out-of-band, not negotiated.
const SecretHeader = "X-Not-Very-Secret-Key"

// HoneypotField is present in the frontend markup but never visible to
// humans. A non-empty value means an automated submission.
const HoneypotField = "email"

var (
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSuspectedBot maps to 404 so the response is indistinguishable from
	// an unknown route and the honeypot stays unsignaled.
	ErrSuspectedBot = errors.New("suspected bot")
)

type Gate struct {
	apiKey string
}

func New(apiKey string) *Gate {
	return &Gate{apiKey: apiKey}
}

// CheckSecret is the first rule: the presented header value must equal the
// server-held secret. It needs no payload, so callers run it before reading
// the request body.
func (g *Gate) CheckSecret(presented string) error {
	if subtle.ConstantTimeCompare([]byte(presented), []byte(g.apiKey)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// CheckHoneypot is the second rule, run against the raw decoded payload
// before schema validation strips unknown fields.
func (g *Gate) CheckHoneypot(payload map[string]any) error {
	v, ok := payload[HoneypotField]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return nil
		}
		return ErrSuspectedBot
	}
	// Any non-string value is not something the real frontend sends.
	return ErrSuspectedBot
}
