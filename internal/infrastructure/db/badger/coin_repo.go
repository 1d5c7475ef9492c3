package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

const coinStoreDir = "coins"

type coinRepository struct {
	store *badgerhold.Store
}

type coinDTO struct {
	domain.Coin
	UpdatedAt int64
}

// NewCoinRepository expects the base directory of the store and an optional
// badger logger. An empty directory makes the store in-memory.
func NewCoinRepository(config ...interface{}) (domain.CoinRepository, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, coinStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open coin store: %s", err)
	}

	return &coinRepository{store}, nil
}

func (r *coinRepository) AddCoins(_ context.Context, coins []domain.Coin) error {
	for _, coin := range coins {
		dto := coinDTO{
			Coin:      coin,
			UpdatedAt: time.Now().UnixMilli(),
		}
		insertFn := func() error {
			return r.store.Insert(coin.UtxoID, dto)
		}
		if err := withRetry(insertFn); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				continue
			}
			return err
		}
	}
	return nil
}

func (r *coinRepository) ApplyTransaction(
	_ context.Context, txid string, spent []string, created []domain.Coin,
) error {
	applyFn := func() error {
		return r.store.Badger().Update(func(tx *badger.Txn) error {
			now := time.Now().UnixMilli()
			for _, id := range spent {
				var dto coinDTO
				if err := r.store.TxGet(tx, id, &dto); err != nil {
					if errors.Is(err, badgerhold.ErrNotFound) {
						return fmt.Errorf("coin %s not found", id)
					}
					return err
				}
				if dto.Spent {
					if dto.SpentBy == txid {
						continue
					}
					return fmt.Errorf("coin %s already spent by %s", id, dto.SpentBy)
				}
				dto.Spent = true
				dto.SpentBy = txid
				dto.UpdatedAt = now
				if err := r.store.TxUpdate(tx, id, dto); err != nil {
					return err
				}
			}
			for _, coin := range created {
				dto := coinDTO{Coin: coin, UpdatedAt: now}
				if err := r.store.TxInsert(tx, coin.UtxoID, dto); err != nil {
					if errors.Is(err, badgerhold.ErrKeyExists) {
						continue
					}
					return err
				}
			}
			return nil
		})
	}
	return withRetry(applyFn)
}

func (r *coinRepository) RevertTransaction(
	_ context.Context, txid string, spent, created []string,
) error {
	revertFn := func() error {
		return r.store.Badger().Update(func(tx *badger.Txn) error {
			for _, id := range created {
				if err := r.store.TxDelete(tx, id, coinDTO{}); err != nil {
					if errors.Is(err, badgerhold.ErrNotFound) {
						continue
					}
					return err
				}
			}
			now := time.Now().UnixMilli()
			for _, id := range spent {
				var dto coinDTO
				if err := r.store.TxGet(tx, id, &dto); err != nil {
					if errors.Is(err, badgerhold.ErrNotFound) {
						continue
					}
					return err
				}
				if !dto.Spent || dto.SpentBy != txid {
					continue
				}
				dto.Spent = false
				dto.SpentBy = ""
				dto.UpdatedAt = now
				if err := r.store.TxUpdate(tx, id, dto); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return withRetry(revertFn)
}

func (r *coinRepository) GetCoins(_ context.Context, utxoIDs []string) ([]domain.Coin, error) {
	coins := make([]domain.Coin, 0, len(utxoIDs))
	for _, id := range utxoIDs {
		var dto coinDTO
		if err := r.store.Get(id, &dto); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				continue
			}
			return nil, err
		}
		coins = append(coins, dto.Coin)
	}
	return coins, nil
}

func (r *coinRepository) FindUnspentCoins(
	_ context.Context, filter domain.CoinFilter,
) ([]domain.Coin, error) {
	query := badgerhold.Where("Owner").Eq(filter.Owner).And("Spent").Eq(false)
	if filter.AssetID != nil {
		query = query.And("AssetID").Eq(*filter.AssetID)
	}
	if filter.After != nil {
		query = query.And("UtxoID").Gt(*filter.After)
	}
	if filter.Before != nil {
		query = query.And("UtxoID").Lt(*filter.Before)
	}
	query = query.SortBy("UtxoID")
	if filter.Descending {
		query = query.Reverse()
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	dtos := make([]coinDTO, 0)
	if err := r.store.Find(&dtos, query); err != nil {
		return nil, err
	}

	coins := make([]domain.Coin, 0, len(dtos))
	for _, dto := range dtos {
		coins = append(coins, dto.Coin)
	}
	return coins, nil
}

// Compact runs the garbage collector of the badger value log.
func (r *coinRepository) Compact() error {
	err := r.store.Badger().RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

func (r *coinRepository) Close() {
	// nolint:all
	r.store.Close()
}

func withRetry(fn func() error) error {
	err := fn()
	attempts := 1
	for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
		time.Sleep(100 * time.Millisecond)
		err = fn()
		attempts++
	}
	return err
}
