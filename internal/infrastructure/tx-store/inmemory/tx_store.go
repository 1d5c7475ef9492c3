package inmemorytxstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
	"github.com/arkade-os/ledgerkit/internal/core/ports"
)

type txStore struct {
	lock sync.RWMutex
	txs  map[string]domain.Transaction
}

func NewTxStore() ports.TxStore {
	return &txStore{
		txs: make(map[string]domain.Transaction),
	}
}

func (m *txStore) AddTransaction(_ context.Context, tx domain.Transaction) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.txs[tx.Txid]; ok {
		return fmt.Errorf("tx %s already exists", tx.Txid)
	}
	m.txs[tx.Txid] = tx
	return nil
}

func (m *txStore) GetTransaction(_ context.Context, txid string) (*domain.Transaction, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	tx, ok := m.txs[txid]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (m *txStore) Close() {}
