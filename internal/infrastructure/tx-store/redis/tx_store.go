package redistxstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
	"github.com/arkade-os/ledgerkit/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

const txsHashKey = "txStore:txs"

var errTxExists = errors.New("tx already exists")

type txStore struct {
	rdb          *redis.Client
	numOfRetries int
	retryDelay   time.Duration
}

func NewTxStore(rdb *redis.Client, numOfRetries int) ports.TxStore {
	return &txStore{
		rdb:          rdb,
		numOfRetries: numOfRetries,
		retryDelay:   10 * time.Millisecond,
	}
}

func (s *txStore) AddTransaction(ctx context.Context, tx domain.Transaction) error {
	val, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal tx %s: %v", tx.Txid, err)
	}

	for range s.numOfRetries {
		if err = s.rdb.Watch(ctx, func(rtx *redis.Tx) error {
			exists, err := rtx.HExists(ctx, txsHashKey, tx.Txid).Result()
			if err != nil {
				return err
			}
			if exists {
				return errTxExists
			}
			_, err = rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, txsHashKey, tx.Txid, val)
				return nil
			})
			return err
		}, txsHashKey); err == nil {
			return nil
		}
		if errors.Is(err, errTxExists) {
			return fmt.Errorf("tx %s already exists", tx.Txid)
		}
		time.Sleep(s.retryDelay)
	}
	return fmt.Errorf("failed to add tx %s after max number of retries: %v", tx.Txid, err)
}

func (s *txStore) GetTransaction(ctx context.Context, txid string) (*domain.Transaction, error) {
	txStr, err := s.rdb.HGet(ctx, txsHashKey, txid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tx %s: %v", txid, err)
	}

	var tx domain.Transaction
	if err := json.Unmarshal([]byte(txStr), &tx); err != nil {
		return nil, fmt.Errorf("malformed tx in storage %s: %v", txid, err)
	}
	return &tx, nil
}

func (s *txStore) Close() {
	// nolint:all
	s.rdb.Close()
}
