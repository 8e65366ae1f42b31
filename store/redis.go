package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/kestrelbank/kestrel/cache"
	"github.com/kestrelbank/kestrel/config"
	redis_db "github.com/kestrelbank/kestrel/internal/redis-db"
	"github.com/kestrelbank/kestrel/model"
)

const (
	accountsKey     = "kestrel:accounts"
	transactionsKey = "kestrel:transactions"

	readCacheTTL = 5 * time.Minute
)

// RedisStore keeps accounts and transactions as JSON blobs in two redis
// hashes. Single-record reads go through the cache tier; every write
// invalidates the corresponding cache entry (write-through).
type RedisStore struct {
	client redis.UniversalClient
	cache  cache.Cache
}

// NewRedisStore connects to the configured redis instance.
func NewRedisStore() (*RedisStore, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	client, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", cfg.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	readCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: client.Client(), cache: readCache}, nil
}

func accountCacheKey(username string) string {
	return "account:" + username
}

func transactionCacheKey(id string) string {
	return "transaction:" + id
}

func (s *RedisStore) LoadAllAccounts(ctx context.Context) ([]*model.Account, error) {
	blobs, err := s.client.HGetAll(ctx, accountsKey).Result()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "loading accounts")
	}
	accounts := make([]*model.Account, 0, len(blobs))
	for username, blob := range blobs {
		var account model.Account
		if err := json.Unmarshal([]byte(blob), &account); err != nil {
			return nil, pkgerrors.Wrapf(err, "decoding account %q", username)
		}
		accounts = append(accounts, &account)
	}
	return accounts, nil
}

func (s *RedisStore) LoadAllTransactions(ctx context.Context) ([]*model.Transaction, error) {
	blobs, err := s.client.HGetAll(ctx, transactionsKey).Result()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "loading transactions")
	}
	transactions := make([]*model.Transaction, 0, len(blobs))
	for id, blob := range blobs {
		var transaction model.Transaction
		if err := json.Unmarshal([]byte(blob), &transaction); err != nil {
			return nil, pkgerrors.Wrapf(err, "decoding transaction %q", id)
		}
		transactions = append(transactions, &transaction)
	}
	return transactions, nil
}

func (s *RedisStore) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	// Records cross the cache as their JSON blobs so the cache codec never
	// has to understand decimal amounts.
	var cachedBlob string
	if err := s.cache.Get(ctx, accountCacheKey(username), &cachedBlob); err == nil && cachedBlob != "" {
		var account model.Account
		if err := json.Unmarshal([]byte(cachedBlob), &account); err == nil {
			return &account, nil
		}
	}

	blob, err := s.client.HGet(ctx, accountsKey, username).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "fetching account %q", username)
	}
	var account model.Account
	if err := json.Unmarshal([]byte(blob), &account); err != nil {
		return nil, pkgerrors.Wrapf(err, "decoding account %q", username)
	}
	_ = s.cache.Set(ctx, accountCacheKey(username), blob, readCacheTTL)
	return &account, nil
}

func (s *RedisStore) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	var cachedBlob string
	if err := s.cache.Get(ctx, transactionCacheKey(id), &cachedBlob); err == nil && cachedBlob != "" {
		var transaction model.Transaction
		if err := json.Unmarshal([]byte(cachedBlob), &transaction); err == nil {
			return &transaction, nil
		}
	}

	blob, err := s.client.HGet(ctx, transactionsKey, id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "fetching transaction %q", id)
	}
	var transaction model.Transaction
	if err := json.Unmarshal([]byte(blob), &transaction); err != nil {
		return nil, pkgerrors.Wrapf(err, "decoding transaction %q", id)
	}
	_ = s.cache.Set(ctx, transactionCacheKey(id), blob, readCacheTTL)
	return &transaction, nil
}

func (s *RedisStore) UpsertAccount(ctx context.Context, account *model.Account) error {
	blob, err := json.Marshal(account)
	if err != nil {
		return pkgerrors.Wrapf(err, "encoding account %q", account.Username)
	}
	if err := s.client.HSet(ctx, accountsKey, account.Username, blob).Err(); err != nil {
		return pkgerrors.Wrapf(err, "upserting account %q", account.Username)
	}
	_ = s.cache.Delete(ctx, accountCacheKey(account.Username))
	return nil
}

func (s *RedisStore) UpsertTransaction(ctx context.Context, transaction *model.Transaction) error {
	blob, err := transaction.ToJSON()
	if err != nil {
		return pkgerrors.Wrapf(err, "encoding transaction %q", transaction.TransactionID)
	}
	if err := s.client.HSet(ctx, transactionsKey, transaction.TransactionID, blob).Err(); err != nil {
		return pkgerrors.Wrapf(err, "upserting transaction %q", transaction.TransactionID)
	}
	_ = s.cache.Delete(ctx, transactionCacheKey(transaction.TransactionID))
	return nil
}

func (s *RedisStore) DeleteAccount(ctx context.Context, username string) error {
	if err := s.client.HDel(ctx, accountsKey, username).Err(); err != nil {
		return pkgerrors.Wrapf(err, "deleting account %q", username)
	}
	_ = s.cache.Delete(ctx, accountCacheKey(username))
	return nil
}
