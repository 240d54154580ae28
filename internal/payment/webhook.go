package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	// EventCheckoutCompleted is the only event kind this system models.
	// All other kinds are acknowledged and ignored.
	EventCheckoutCompleted = "checkout.session.completed"

	// DefaultSignatureTolerance bounds how stale a signed timestamp may be.
	DefaultSignatureTolerance = 5 * time.Minute
)

var (
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Event is the envelope of a provider notification: a kind string tagging
// the union, and the raw member object.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutCompleted is the member carried by a checkout.session.completed
// event. ClientReferenceID is the caller-chosen user reference set when
// the session was created; Metadata carries the plan reference.
type CheckoutCompleted struct {
	ID                string            `json:"id"`
	ClientReferenceID string            `json:"client_reference_id"`
	SubscriptionID    *string           `json:"subscription"`
	Metadata          map[string]string `json:"metadata"`
}

func (e *Event) CheckoutCompleted() (*CheckoutCompleted, error) {
	if e.Type != EventCheckoutCompleted {
		return nil, ErrInvalidPayload
	}
	var obj CheckoutCompleted
	if err := json.Unmarshal(e.Data.Object, &obj); err != nil {
		return nil, ErrInvalidPayload
	}
	return &obj, nil
}

// ConstructEvent verifies the signature header against the shared secret
// and parses the payload. The header carries a unix timestamp and an HMAC
// of "<timestamp>.<payload>": "t=1700000000,v1=5257a86...". Any failure is
// a rejection with no side effects.
func ConstructEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	return constructEventAt(payload, sigHeader, secret, time.Now(), DefaultSignatureTolerance)
}

func constructEventAt(payload []byte, sigHeader, secret string, now time.Time, tolerance time.Duration) (*Event, error) {
	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	if now.Sub(time.Unix(timestamp, 0)) > tolerance {
		return nil, ErrInvalidSignature
	}

	expected := computeSignature(timestamp, payload, secret)
	valid := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ErrInvalidPayload
	}
	if event.Type == "" {
		return nil, ErrInvalidPayload
	}
	return &event, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, v)
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return timestamp, signatures, nil
}

func computeSignature(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayload produces a signature header for payload, timestamped at now.
// The webhook sender side of ConstructEvent; used by tests and local tools.
func SignPayload(payload []byte, secret string, now time.Time) string {
	ts := now.Unix()
	return "t=" + strconv.FormatInt(ts, 10) + ",v1=" + computeSignature(ts, payload, secret)
}
