package grcAuth

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix       = "otp"
	otpRecordVersionV1 = 1
)

var (
	errOTPNotFound         = errors.New("otp record not found")
	errOTPMismatch         = errors.New("otp code mismatch")
	errOTPAttemptsExceeded = errors.New("otp attempts exceeded")
	errOTPRedisUnavailable = errors.New("otp redis unavailable")
)

type otpRecord struct {
	Code      string
	Tries     uint16
	ExpiresAt int64
}

type otpStore struct {
	redis  *redis.Client
	prefix string
}

func newOTPStore(redisClient *redis.Client) *otpStore {
	return &otpStore{
		redis:  redisClient,
		prefix: otpKeyPrefix,
	}
}

func (s *otpStore) key(tenantID, ownerID string) string {
	if tenantID == "" {
		tenantID = "0"
	}
	return s.prefix + ":" + tenantID + ":" + ownerID
}

// Issue persists a fresh code for owner, superseding any live one. Plain SET
// replaces atomically, so concurrent issues leave exactly one live record.
func (s *otpStore) Issue(ctx context.Context, tenantID, ownerID, code string, ttl time.Duration) error {
	record := &otpRecord{
		Code:      code,
		Tries:     0,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}

	encoded, err := encodeOTPRecord(record)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(tenantID, ownerID), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
	}

	return nil
}

// Verify runs the read-check-increment sequence inside a per-key transaction.
// Return values: (remaining, nil) on match — the record is deleted;
// errOTPMismatch with remaining tries — a wrong code only increments;
// errOTPAttemptsExceeded when the attempt finds tries already at maxTries —
// that attempt deletes the record; errOTPNotFound when no live record exists.
func (s *otpStore) Verify(ctx context.Context, tenantID, ownerID, candidate string, maxTries int) (int, error) {
	const maxRetries = 4
	key := s.key(tenantID, ownerID)

	for i := 0; i < maxRetries; i++ {
		remaining := 0

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodeOTPRecord(data)
			if err != nil {
				return err
			}

			now := time.Now()
			if now.Unix() > record.ExpiresAt {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return errOTPNotFound
			}

			if int(record.Tries) >= maxTries {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return errOTPAttemptsExceeded
			}

			if subtle.ConstantTimeCompare([]byte(record.Code), []byte(candidate)) != 1 {
				record.Tries++

				ttl := time.Until(time.Unix(record.ExpiresAt, 0))
				if ttl <= 0 {
					_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
						pipe.Del(ctx, key)
						return nil
					})
					if err != nil {
						return err
					}
					return errOTPNotFound
				}

				updated, err := encodeOTPRecord(record)
				if err != nil {
					return err
				}

				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Set(ctx, key, updated, ttl)
					return nil
				})
				if err != nil {
					return err
				}
				remaining = maxTries - int(record.Tries)
				return errOTPMismatch
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err != nil {
				return err
			}

			remaining = maxTries - int(record.Tries)
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return 0, errOTPNotFound
			case errors.Is(err, errOTPNotFound), errors.Is(err, errOTPMismatch), errors.Is(err, errOTPAttemptsExceeded):
				return remaining, err
			default:
				return 0, fmt.Errorf("%w: %v", errOTPRedisUnavailable, err)
			}
		}

		return remaining, nil
	}

	return 0, fmt.Errorf("%w: transaction retries exhausted", errOTPRedisUnavailable)
}

func encodeOTPRecord(record *otpRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(otpRecordVersionV1)

	if err := binary.Write(&buf, binary.BigEndian, record.Tries); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	if len(record.Code) > 255 {
		return nil, errors.New("otp record code too long")
	}
	buf.WriteByte(byte(len(record.Code)))
	buf.WriteString(record.Code)

	return buf.Bytes(), nil
}

func decodeOTPRecord(data []byte) (*otpRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != otpRecordVersionV1 {
		return nil, errors.New("invalid otp record version")
	}

	record := &otpRecord{}

	if err := binary.Read(reader, binary.BigEndian, &record.Tries); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}

	codeLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	code := make([]byte, codeLen)
	if _, err := io.ReadFull(reader, code); err != nil {
		return nil, err
	}
	record.Code = string(code)

	return record, nil
}
