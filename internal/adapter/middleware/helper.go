package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idemp:fieldops"

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

// replayKey names one remembered request. Role and caller come first so every
// key a caller owns shares a prefix, and a supervisor and an admin who pick the
// same Idempotency-Key never collide.
type replayKey struct {
	Role      string
	Caller    string
	Method    string
	Route     string
	RequestID string
}

func (k replayKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s", keyPrefix, k.Role, k.Caller, strings.ToLower(k.Method), k.Route, k.RequestID)
}

// keyFor reads the caller the same way the handlers do: a verified token
// first, then the role and userId query parameters.
func keyFor(c echo.Context, requestID string) replayKey {
	k := replayKey{
		Role:      "anonymous",
		Caller:    "-",
		Method:    c.Request().Method,
		Route:     c.Path(),
		RequestID: requestID,
	}
	if id, ok := IdentityFrom(c); ok {
		k.Role, k.Caller = id.Role, id.UserID
		return k
	}
	if r := strings.ToLower(strings.TrimSpace(c.QueryParam("role"))); r != "" {
		k.Role = r
	}
	if u := strings.TrimSpace(c.QueryParam("userId")); u != "" {
		k.Caller = u
	}
	return k
}

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// validReqID accepts a lowercase RFC 4122 UUID (v1-v5) or 32 lowercase hex chars.
func validReqID(raw string) bool {
	if reHex32.MatchString(raw) {
		return true
	}
	u, err := uuid.Parse(raw)
	if err != nil || u.String() != raw {
		return false
	}
	return u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 5
}

var errRequestAt = errors.New("X-Request-At must be epoch seconds, epoch milliseconds or RFC3339 with a zone")

// parseRequestAt reads X-Request-At. Thirteen or more digits are milliseconds.
// Timestamps without a zone are refused.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing X-Request-At")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if len(raw) >= 13 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errRequestAt
	}
	return t.UTC(), nil
}

// entryStore keeps replay entries in Redis. reserve takes the in-progress
// lock, finish replaces it with the outcome, release forgets the key.
type entryStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func (s entryStore) reserve(ctx context.Context, key replayKey, e idempEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key.String(), payload, provisionalLockTTL).Result()
}

func (s entryStore) load(ctx context.Context, key replayKey) (idempEntry, error) {
	var e idempEntry
	raw, err := s.rdb.Get(ctx, key.String()).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(raw, &e)
	return e, err
}

func (s entryStore) finish(ctx context.Context, key replayKey, e idempEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key.String(), payload, s.ttl).Err()
}

func (s entryStore) release(ctx context.Context, key replayKey) error {
	return s.rdb.Del(ctx, key.String()).Err()
}
