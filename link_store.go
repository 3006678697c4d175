package grcAuth

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

// LinkKind defines a public type used by grcAuth APIs.
//
// LinkKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LinkKind uint8

const (
	// LinkInvite is an exported constant or variable used by the authentication engine.
	LinkInvite LinkKind = iota + 1
	// LinkReset is an exported constant or variable used by the authentication engine.
	LinkReset
)

const (
	linkKeyPrefix       = "lnk"
	linkRecordVersionV1 = 1
	linkTokenRawSize    = 30
)

var (
	errLinkNotFound         = errors.New("link record not found")
	errLinkExpired          = errors.New("link record expired")
	errLinkRedisUnavailable = errors.New("link redis unavailable")
)

type linkRecord struct {
	Kind          LinkKind
	BoundIdentity string
	ExpiresAt     int64
}

type linkStore struct {
	redis  *redis.Client
	prefix string
}

func newLinkStore(redisClient *redis.Client) *linkStore {
	return &linkStore{
		redis:  redisClient,
		prefix: linkKeyPrefix,
	}
}

func (s *linkStore) key(tenantID, token string) string {
	if tenantID == "" {
		tenantID = "0"
	}
	return s.prefix + ":" + tenantID + ":" + token
}

func newLinkToken() (string, error) {
	raw := make([]byte, linkTokenRawSize)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// Issue generates a high-entropy token, persists it keyed by its value, and
// returns it together with the expiry for out-of-band delivery.
func (s *linkStore) Issue(ctx context.Context, tenantID string, kind LinkKind, boundIdentity string, ttl time.Duration) (string, time.Time, error) {
	token, err := newLinkToken()
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := time.Now().Add(ttl)
	record := &linkRecord{
		Kind:          kind,
		BoundIdentity: boundIdentity,
		ExpiresAt:     expiresAt.Unix(),
	}

	encoded, err := encodeLinkRecord(record)
	if err != nil {
		return "", time.Time{}, err
	}

	// The Redis TTL outlives the logical expiry slightly so a late consume
	// observes errLinkExpired rather than errLinkNotFound.
	if err := s.redis.Set(ctx, s.key(tenantID, token), encoded, ttl+time.Hour).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", errLinkRedisUnavailable, err)
	}

	return token, expiresAt, nil
}

// Consume looks the token up and deletes it only on detected expiry. A live
// record is returned without deletion: the caller removes it after its
// dependent operation commits, so a failed follow-up can retry the same link.
func (s *linkStore) Consume(ctx context.Context, tenantID, token string) (*linkRecord, error) {
	key := s.key(tenantID, token)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errLinkNotFound
		}
		return nil, fmt.Errorf("%w: %v", errLinkRedisUnavailable, err)
	}

	record, err := decodeLinkRecord(data)
	if err != nil {
		return nil, err
	}

	if time.Now().Unix() > record.ExpiresAt {
		if err := s.redis.Del(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", errLinkRedisUnavailable, err)
		}
		return nil, errLinkExpired
	}

	return record, nil
}

// Delete removes the token record. The DEL count makes concurrent deletions
// race-safe: exactly one caller observes true.
func (s *linkStore) Delete(ctx context.Context, tenantID, token string) (bool, error) {
	n, err := s.redis.Del(ctx, s.key(tenantID, token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", errLinkRedisUnavailable, err)
	}
	return n > 0, nil
}

func encodeLinkRecord(record *linkRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(linkRecordVersionV1)
	buf.WriteByte(byte(record.Kind))

	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	if len(record.BoundIdentity) > 65535 {
		return nil, errors.New("link record identity too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.BoundIdentity))); err != nil {
		return nil, err
	}
	buf.WriteString(record.BoundIdentity)

	return buf.Bytes(), nil
}

func decodeLinkRecord(data []byte) (*linkRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != linkRecordVersionV1 {
		return nil, errors.New("invalid link record version")
	}

	kind, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	record := &linkRecord{
		Kind: LinkKind(kind),
	}

	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}

	var identityLen uint16
	if err := binary.Read(reader, binary.BigEndian, &identityLen); err != nil {
		return nil, err
	}

	identity := make([]byte, identityLen)
	if _, err := io.ReadFull(reader, identity); err != nil {
		return nil, err
	}
	record.BoundIdentity = string(identity)

	return record, nil
}
