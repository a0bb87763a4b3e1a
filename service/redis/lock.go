package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"

	"github.com/x-xyz/auction/base/backoff"
	"github.com/x-xyz/auction/base/ctx"
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/domain/keys"
)

const (
	lockRetryStart = 5 * time.Millisecond
	lockRetryLimit = 100 * time.Millisecond
)

// unlockScript deletes the lock only if it is still held by the same token,
// so an expired holder never releases a lock taken by someone else.
var unlockScript = redis.NewScript(1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (r *redImpl) Lock(context ctx.Ctx, key string, ttl time.Duration) (func(), error) {
	tags := []string{"func", "lock", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	token := []byte(uuid.New().String())
	b := backoff.NewLinear(lockRetryStart, lockRetryLimit)
	for {
		err := r.SetNX(context, key, token, ttl)
		if err == nil {
			break
		} else if err != ErrNotSet {
			return nil, err
		}
		if err := b.Backoff(context); err != nil {
			r.met.BumpSum("lock.timeout", 1, tags...)
			context.WithFields(log.Fields{"key": key, "waits": b.Count()}).Warn("lock timeout")
			return nil, ErrLockTimeout
		}
	}
	r.met.BumpHistogram("lock.waits", float64(b.Count()), tags...)

	return func() {
		r.unlock(ctx.Detach(context), key, token)
	}, nil
}

func (r *redImpl) unlock(context ctx.Ctx, key string, token []byte) {
	conn, err := r.getConn("EVALSHA")
	if err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("unlock getConn failed")
		return
	}
	defer conn.Close()

	if _, err := unlockScript.Do(conn, key, token); err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("unlock redis failed")
	}
}
