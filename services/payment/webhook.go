// Package payment reconciles external payment-provider events into the
// wallet ledger and creates checkout sessions for top-ups. Verification and
// parsing happen fully before the crediting transaction begins; the
// transactional section never spans a network call.
package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"lms/services/wallet"

	"gorm.io/gorm"
)

var ErrMalformedEvent = errors.New("malformed provider event")

const eventCheckoutCompleted = "checkout.session.completed"

type providerEvent struct {
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSession struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	Currency      string            `json:"currency"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

// HandleProviderEvent verifies, parses and reconciles one webhook delivery.
//
// A nil return acknowledges the event: that covers unknown event types,
// sessions that are not yet paid, and redeliveries of an already credited
// session (the provider must not retry any of these). ErrInvalidSignature
// and ErrMalformedEvent are permanent rejections. Anything else is a
// transient failure the provider should retry.
func HandleProviderEvent(db *gorm.DB, payload []byte, sigHeader string, secret string) error {
	if err := VerifySignature(payload, sigHeader, secret, DefaultTolerance); err != nil {
		return err
	}

	var event providerEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ErrMalformedEvent
	}

	log.Printf("[WEBHOOK] Received event: %s", event.Type)

	// Only completed checkouts move money; everything else is a no-op
	// success so the provider does not retry events we don't consume.
	if event.Type != eventCheckoutCompleted {
		return nil
	}

	var session checkoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil || session.ID == "" {
		return ErrMalformedEvent
	}

	// Valid but not yet actionable; the provider sends a follow-up event
	// once the session is paid.
	if !strings.EqualFold(session.PaymentStatus, "paid") {
		log.Printf("[WEBHOOK] Session %s not paid yet, skipping", session.ID)
		return nil
	}

	userID, err := beneficiaryID(session)
	if err != nil {
		return err
	}

	amount := AmountFromMinorUnits(session.AmountTotal, strings.ToLower(session.Currency))
	if !amount.IsPositive() {
		return ErrMalformedEvent
	}

	description := fmt.Sprintf("Wallet top-up via Stripe - session %s", session.ID)
	sessionID := session.ID

	newBalance, err := wallet.TopUp(db, userID, amount, description, &sessionID)
	if errors.Is(err, wallet.ErrDuplicateEvent) {
		// Redelivery of a session we already credited. Documented provider
		// behavior; acknowledge without touching the ledger.
		log.Printf("[WEBHOOK] Session %s already processed, ignoring redelivery", session.ID)
		return nil
	}
	if errors.Is(err, wallet.ErrNotFound) {
		return ErrMalformedEvent
	}
	if err != nil {
		return err
	}

	log.Printf("[WEBHOOK] Credited user %d with %s %s (session %s), new balance %s",
		userID, amount.String(), session.Currency, session.ID, newBalance.String())
	return nil
}

func beneficiaryID(session checkoutSession) (uint, error) {
	raw, ok := session.Metadata["userId"]
	if !ok || raw == "" {
		return 0, ErrMalformedEvent
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrMalformedEvent
	}
	return uint(id), nil
}
