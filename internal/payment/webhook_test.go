package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test"

var completedPayload = []byte(`{
	"id": "evt_1",
	"type": "checkout.session.completed",
	"data": {
		"object": {
			"id": "cs_test_1",
			"client_reference_id": "alice",
			"subscription": "sub_123",
			"metadata": {"plan_id": "b7a5f3f2-95ec-45d8-bf9f-7ad1fc9f0001"}
		}
	}
}`)

func TestConstructEvent(t *testing.T) {
	header := SignPayload(completedPayload, webhookSecret, time.Now())

	event, err := ConstructEvent(completedPayload, header, webhookSecret)
	require.NoError(t, err)
	require.Equal(t, EventCheckoutCompleted, event.Type)

	completed, err := event.CheckoutCompleted()
	require.NoError(t, err)
	require.Equal(t, "alice", completed.ClientReferenceID)
	require.Equal(t, "sub_123", *completed.SubscriptionID)
	require.Equal(t, "b7a5f3f2-95ec-45d8-bf9f-7ad1fc9f0001", completed.Metadata["plan_id"])
}

func TestConstructEventWrongSecret(t *testing.T) {
	header := SignPayload(completedPayload, "whsec_other", time.Now())

	_, err := ConstructEvent(completedPayload, header, webhookSecret)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventTamperedPayload(t *testing.T) {
	header := SignPayload(completedPayload, webhookSecret, time.Now())
	tampered := append([]byte(nil), completedPayload...)
	tampered[len(tampered)-2] = ' '

	_, err := ConstructEvent(tampered, header, webhookSecret)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventStaleTimestamp(t *testing.T) {
	signedAt := time.Now()
	header := SignPayload(completedPayload, webhookSecret, signedAt)

	// Within tolerance.
	_, err := constructEventAt(completedPayload, header, webhookSecret,
		signedAt.Add(DefaultSignatureTolerance-time.Second), DefaultSignatureTolerance)
	require.NoError(t, err)

	// Past it.
	_, err = constructEventAt(completedPayload, header, webhookSecret,
		signedAt.Add(DefaultSignatureTolerance+time.Second), DefaultSignatureTolerance)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventMalformedHeader(t *testing.T) {
	for _, header := range []string{
		"",
		"garbage",
		"t=notanumber,v1=abc",
		"v1=abcdef",
		"t=1700000000",
	} {
		_, err := ConstructEvent(completedPayload, header, webhookSecret)
		require.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestConstructEventMultipleSignatures(t *testing.T) {
	// Secret rotation sends the old scheme's signature alongside the
	// current one; one valid v1 is enough.
	valid := SignPayload(completedPayload, webhookSecret, time.Now())
	header := valid + ",v1=deadbeef"

	_, err := ConstructEvent(completedPayload, header, webhookSecret)
	require.NoError(t, err)
}

func TestConstructEventBadPayload(t *testing.T) {
	now := time.Now()

	payload := []byte("not json")
	_, err := ConstructEvent(payload, SignPayload(payload, webhookSecret, now), webhookSecret)
	require.ErrorIs(t, err, ErrInvalidPayload)

	payload = []byte(`{"id": "evt_1"}`)
	_, err = ConstructEvent(payload, SignPayload(payload, webhookSecret, now), webhookSecret)
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestCheckoutCompletedWrongKind(t *testing.T) {
	event := &Event{ID: "evt_1", Type: "invoice.paid"}
	_, err := event.CheckoutCompleted()
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestCheckoutCompletedMalformedObject(t *testing.T) {
	event := &Event{ID: "evt_1", Type: EventCheckoutCompleted}
	event.Data.Object = []byte(`"just a string"`)
	_, err := event.CheckoutCompleted()
	require.ErrorIs(t, err, ErrInvalidPayload)
}
