package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
)

const (
	insertCoinQuery = `
INSERT INTO coin (
	utxo_id, owner, asset_id, amount, maturity, block_created, spent, spent_by,
	created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (utxo_id) DO NOTHING;`

	spendCoinQuery = `
UPDATE coin SET spent = TRUE, spent_by = ?, updated_at = ?
WHERE utxo_id = ? AND spent = FALSE;`

	unspendCoinQuery = `
UPDATE coin SET spent = FALSE, spent_by = '', updated_at = ?
WHERE utxo_id = ? AND spent = TRUE AND spent_by = ?;`

	deleteCoinQuery = `DELETE FROM coin WHERE utxo_id = ?;`

	selectSpenderQuery = `SELECT spent_by FROM coin WHERE utxo_id = ?;`

	selectCoinQuery = `
SELECT utxo_id, owner, asset_id, amount, maturity, block_created, spent, spent_by, created_at
FROM coin WHERE utxo_id = ?;`

	selectUnspentCoinsQuery = `
SELECT utxo_id, owner, asset_id, amount, maturity, block_created, spent, spent_by, created_at
FROM coin WHERE owner = ? AND spent = FALSE`
)

type coinRepository struct {
	db *sql.DB
}

func NewCoinRepository(config ...interface{}) (domain.CoinRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf("cannot open coin repository: invalid config, expected db at 0")
	}

	return &coinRepository{db}, nil
}

func (r *coinRepository) AddCoins(ctx context.Context, coins []domain.Coin) error {
	return r.execTx(ctx, func(tx *sql.Tx) error {
		return insertCoins(ctx, tx, coins)
	})
}

func (r *coinRepository) ApplyTransaction(
	ctx context.Context, txid string, spent []string, created []domain.Coin,
) error {
	return r.execTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UnixMilli()
		for _, id := range spent {
			res, err := tx.ExecContext(ctx, spendCoinQuery, txid, now, id)
			if err != nil {
				return fmt.Errorf("failed to spend coin %s: %w", id, err)
			}
			if count, err := res.RowsAffected(); err == nil && count > 0 {
				continue
			}

			// the coin is either unknown or already spent
			var spentBy string
			if err := tx.QueryRowContext(ctx, selectSpenderQuery, id).Scan(&spentBy); err != nil {
				if err == sql.ErrNoRows {
					return fmt.Errorf("coin %s not found", id)
				}
				return err
			}
			if spentBy != txid {
				return fmt.Errorf("coin %s already spent by %s", id, spentBy)
			}
		}
		return insertCoins(ctx, tx, created)
	})
}

func (r *coinRepository) RevertTransaction(
	ctx context.Context, txid string, spent, created []string,
) error {
	return r.execTx(ctx, func(tx *sql.Tx) error {
		for _, id := range created {
			if _, err := tx.ExecContext(ctx, deleteCoinQuery, id); err != nil {
				return fmt.Errorf("failed to delete coin %s: %w", id, err)
			}
		}
		now := time.Now().UnixMilli()
		for _, id := range spent {
			if _, err := tx.ExecContext(ctx, unspendCoinQuery, now, id, txid); err != nil {
				return fmt.Errorf("failed to unspend coin %s: %w", id, err)
			}
		}
		return nil
	})
}

func (r *coinRepository) GetCoins(ctx context.Context, utxoIDs []string) ([]domain.Coin, error) {
	coins := make([]domain.Coin, 0, len(utxoIDs))
	for _, id := range utxoIDs {
		coin, err := scanCoin(r.db.QueryRowContext(ctx, selectCoinQuery, id))
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, fmt.Errorf("failed to get coin %s: %w", id, err)
		}
		coins = append(coins, *coin)
	}
	return coins, nil
}

func (r *coinRepository) FindUnspentCoins(
	ctx context.Context, filter domain.CoinFilter,
) ([]domain.Coin, error) {
	query := strings.Builder{}
	query.WriteString(selectUnspentCoinsQuery)
	args := []any{filter.Owner}

	if filter.AssetID != nil {
		query.WriteString(" AND asset_id = ?")
		args = append(args, *filter.AssetID)
	}
	if filter.After != nil {
		query.WriteString(" AND utxo_id > ?")
		args = append(args, *filter.After)
	}
	if filter.Before != nil {
		query.WriteString(" AND utxo_id < ?")
		args = append(args, *filter.Before)
	}
	if filter.Descending {
		query.WriteString(" ORDER BY utxo_id DESC")
	} else {
		query.WriteString(" ORDER BY utxo_id ASC")
	}
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	query.WriteString(";")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query coins: %w", err)
	}
	// nolint
	defer rows.Close()

	coins := make([]domain.Coin, 0)
	for rows.Next() {
		coin, err := scanCoin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coin: %w", err)
		}
		coins = append(coins, *coin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coins: %w", err)
	}
	return coins, nil
}

// Compact rebuilds the db file, reclaiming the space of deleted pages.
func (r *coinRepository) Compact() error {
	_, err := r.db.Exec("VACUUM;")
	return err
}

func (r *coinRepository) Close() {
	// nolint:all
	r.db.Close()
}

func (r *coinRepository) execTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		// nolint:all
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertCoins(ctx context.Context, tx *sql.Tx, coins []domain.Coin) error {
	now := time.Now().UnixMilli()
	for _, coin := range coins {
		if _, err := tx.ExecContext(
			ctx, insertCoinQuery,
			coin.UtxoID, coin.Owner, coin.AssetID, int64(coin.Amount), coin.Maturity,
			coin.BlockCreated, coin.Spent, coin.SpentBy, coin.CreatedAt, now,
		); err != nil {
			return fmt.Errorf("failed to insert coin %s: %w", coin.UtxoID, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCoin(row scanner) (*domain.Coin, error) {
	var coin domain.Coin
	var amount int64
	if err := row.Scan(
		&coin.UtxoID, &coin.Owner, &coin.AssetID, &amount, &coin.Maturity,
		&coin.BlockCreated, &coin.Spent, &coin.SpentBy, &coin.CreatedAt,
	); err != nil {
		return nil, err
	}
	// amounts are stored as int64 bit patterns
	coin.Amount = uint64(amount)
	return &coin, nil
}
