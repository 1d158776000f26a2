package auth

import (
	"context"
	"crypto/sha256"
	"time"

	"github.com/2beens/gymsession/pkg"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const verifiedTokensCacheSize = 1024 * 1024

// ClientChecker verifies the shared client token against a bcrypt hash.
// bcrypt is slow on purpose, so tokens that passed are remembered for ttl.
type ClientChecker struct {
	secretHash string
	ttl        time.Duration
	verified   *freecache.Cache
}

func NewClientChecker(secretHash string, ttl time.Duration) *ClientChecker {
	return &ClientChecker{
		secretHash: secretHash,
		ttl:        ttl,
		verified:   freecache.NewCache(verifiedTokensCacheSize),
	}
}

func (c *ClientChecker) IsAuthorized(_ context.Context, token string) (bool, error) {
	if token == "" || c.secretHash == "" {
		return false, nil
	}

	key := sha256.Sum256([]byte(token))
	if _, err := c.verified.Get(key[:]); err == nil {
		return true, nil
	}

	if !pkg.CheckPasswordHash(token, c.secretHash) {
		return false, nil
	}

	if err := c.verified.Set(key[:], []byte{1}, int(c.ttl.Seconds())); err != nil {
		log.Warnf("client checker, cache verified token: %s", err)
	}
	return true, nil
}
