package grcAuth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLinkConsumeDoesNotSpendRecord(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newLinkStore(rdb)

	token, _, err := store.Issue(ctx, "0", LinkReset, "alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		record, err := store.Consume(ctx, "0", token)
		if err != nil {
			t.Fatalf("Consume %d failed: %v", i, err)
		}
		if record.BoundIdentity != "alice@example.com" || record.Kind != LinkReset {
			t.Fatalf("unexpected record: %+v", record)
		}
	}
}

func TestLinkDeleteExactlyOneWinner(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newLinkStore(rdb)

	token, _, err := store.Issue(ctx, "0", LinkInvite, "bob@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	first, err := store.Delete(ctx, "0", token)
	if err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	second, err := store.Delete(ctx, "0", token)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	if !first || second {
		t.Fatalf("expected exactly one winning delete, got first=%v second=%v", first, second)
	}

	if _, err := store.Consume(ctx, "0", token); !errors.Is(err, errLinkNotFound) {
		t.Fatalf("expected errLinkNotFound after delete, got %v", err)
	}
}

func TestLinkExpiryOnReadDeletes(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newLinkStore(rdb)

	// logical expiry already in the past, Redis record still inside the
	// grace window
	token, _, err := store.Issue(ctx, "0", LinkReset, "carol@example.com", -time.Second)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := store.Consume(ctx, "0", token); !errors.Is(err, errLinkExpired) {
		t.Fatalf("expected errLinkExpired, got %v", err)
	}

	// the expired record was removed on that read
	if _, err := store.Consume(ctx, "0", token); !errors.Is(err, errLinkNotFound) {
		t.Fatalf("expected errLinkNotFound on second read, got %v", err)
	}
}

func TestLinkUnknownTokenNotFound(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newLinkStore(rdb)

	if _, err := store.Consume(context.Background(), "0", "no-such-token"); !errors.Is(err, errLinkNotFound) {
		t.Fatalf("expected errLinkNotFound, got %v", err)
	}
}

func TestLinkTokenShape(t *testing.T) {
	token, err := newLinkToken()
	if err != nil {
		t.Fatalf("newLinkToken failed: %v", err)
	}
	if len(token) != linkTokenRawSize*2 {
		t.Fatalf("expected %d hex chars, got %d", linkTokenRawSize*2, len(token))
	}

	other, err := newLinkToken()
	if err != nil {
		t.Fatalf("newLinkToken failed: %v", err)
	}
	if token == other {
		t.Fatal("expected distinct tokens")
	}
}

func TestLinkRecordCodecRoundTrip(t *testing.T) {
	record := &linkRecord{
		Kind:          LinkInvite,
		BoundIdentity: "dave@example.com",
		ExpiresAt:     time.Now().Add(time.Hour).Unix(),
	}

	encoded, err := encodeLinkRecord(record)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodeLinkRecord(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.Kind != record.Kind || decoded.BoundIdentity != record.BoundIdentity || decoded.ExpiresAt != record.ExpiresAt {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, record)
	}
}
