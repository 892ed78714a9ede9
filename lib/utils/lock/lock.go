package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Provider аренда ключа на время ttl.
// ok=false означает, что ключ уже занят другим владельцем.
type Provider interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

var Instance Provider = NewLocal()

// NewHandler выбирает redis, если задан адрес, иначе блокировки внутри процесса
func NewHandler(client *redis.Client) {
	if client == nil {
		Instance = NewLocal()
		return
	}
	Instance = NewRedis(client)
}

type localImpl struct {
	lockMap *sync.Map
}

func NewLocal() Provider {
	return &localImpl{
		lockMap: &sync.Map{},
	}
}

func (i localImpl) TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error) {
	owner := uuid.NewString()
	expire := time.Now().Add(ttl)
	for {
		current, loaded := i.lockMap.LoadOrStore(key, localLease{owner: owner, expire: expire})
		if !loaded {
			break
		}
		lease := current.(localLease)
		if time.Now().Before(lease.expire) {
			return nil, false, nil
		}
		// аренда истекла, забираем ключ
		if i.lockMap.CompareAndSwap(key, current, localLease{owner: owner, expire: expire}) {
			break
		}
	}
	release = func() {
		current, loaded := i.lockMap.Load(key)
		if loaded && current.(localLease).owner == owner {
			i.lockMap.CompareAndDelete(key, current)
		}
	}
	return release, true, nil
}

type localLease struct {
	owner  string
	expire time.Time
}

// снимаем ключ, только если он все еще принадлежит нам
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisImpl struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) Provider {
	return &redisImpl{
		client: client,
	}
}

func (i redisImpl) TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error) {
	owner := uuid.NewString()
	ok, err = i.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return nil, false, errors.Wrapf(err, "ошибка захвата блокировки %v", key)
	}
	if !ok {
		return nil, false, nil
	}
	release = func() {
		err := unlockScript.Run(context.Background(), i.client, []string{key}, owner).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.WithField("lock_key", key).WithError(err).Warn("ошибка освобождения блокировки")
		}
	}
	return release, true, nil
}

// WithLease выполняет safeCode, только если удалось взять аренду ключа
func WithLease(ctx context.Context, provider Provider, key string, ttl time.Duration, safeCode func() error) (success bool, err error) {
	release, ok, err := provider.TryLock(ctx, key, ttl)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	defer release()
	return true, safeCode()
}
