package application

import (
	"context"
	"fmt"
	"math/bits"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
	"github.com/arkade-os/ledgerkit/internal/core/ports"
	"github.com/arkade-os/ledgerkit/pkg/errors"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
	log "github.com/sirupsen/logrus"
)

const (
	defaultMaxInputs  = 255
	gasPerInstruction = 1
	gasPerInput       = 10
)

type Service interface {
	Start() errors.Error
	Stop()
	GetInfo(ctx context.Context) (*ServiceInfo, errors.Error)
	AddGenesisCoins(ctx context.Context, coins []ledgerlib.Coin) errors.Error
	GetCoins(
		ctx context.Context, owner ledgerlib.Address, assetID *ledgerlib.AssetID, page *Page,
	) (*CoinsResp, errors.Error)
	GetCoinsToSpend(
		ctx context.Context, owner ledgerlib.Address, queries []SpendQuery,
		excludedIDs []ledgerlib.UtxoID, maxInputs *uint64,
	) ([]ledgerlib.Coin, errors.Error)
	GetBalance(
		ctx context.Context, owner ledgerlib.Address, assetID ledgerlib.AssetID,
	) (uint64, errors.Error)
	GetBalances(ctx context.Context, owner ledgerlib.Address, page *Page) (*BalancesResp, errors.Error)
	SubmitTransaction(ctx context.Context, tx *ledgerlib.Transaction) (ledgerlib.TxID, errors.Error)
	GetReceipts(ctx context.Context, txid ledgerlib.TxID) ([]ledgerlib.Receipt, errors.Error)
	// GetTransaction returns nil if the tx is unknown.
	GetTransaction(
		ctx context.Context, txid ledgerlib.TxID,
	) (*ledgerlib.TransactionResponse, errors.Error)
}

type service struct {
	cfg         Config
	repoManager ports.RepoManager
	txStore     ports.TxStore
	scheduler   ports.SchedulerService
	telemetry   ports.Telemetry

	// lock serializes the execution of transactions.
	lock        *sync.Mutex
	blockHeight atomic.Uint32
}

func NewService(
	cfg Config,
	repoManager ports.RepoManager,
	txStore ports.TxStore,
	scheduler ports.SchedulerService,
	telemetry ports.Telemetry,
) (Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if txStore == nil {
		return nil, fmt.Errorf("missing tx store")
	}
	if cfg.MaxPageSize <= 0 || cfg.MaxPageSize > maxPageSize {
		cfg.MaxPageSize = maxPageSize
	}
	if cfg.MaxInputs == 0 {
		cfg.MaxInputs = defaultMaxInputs
	}

	return &service{
		cfg:         cfg,
		repoManager: repoManager,
		txStore:     txStore,
		scheduler:   scheduler,
		telemetry:   telemetry,
		lock:        &sync.Mutex{},
	}, nil
}

func (s *service) Start() errors.Error {
	log.Debug("starting app service...")

	if s.telemetry != nil {
		s.repoManager.Events().RegisterEventsHandler(
			domain.TransactionTopic, s.telemetry.ObserveEvents,
		)
	}

	if len(s.cfg.GenesisCoins) > 0 {
		if err := s.AddGenesisCoins(context.Background(), s.cfg.GenesisCoins); err != nil {
			return err
		}
	}

	if s.scheduler != nil {
		s.scheduler.Start()
		if s.cfg.CompactionInterval > 0 {
			if err := s.scheduler.ScheduleTask(s.cfg.CompactionInterval, s.compact); err != nil {
				return errors.INTERNAL_ERROR.New("failed to schedule compaction: %s", err)
			}
		}
	}

	log.Debug("app service started")
	return nil
}

func (s *service) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
		log.Debug("stopped scheduler")
	}
	s.repoManager.Events().ClearRegisteredHandlers()
	s.repoManager.Close()
	log.Debug("closed connection to db")
	s.txStore.Close()
	log.Debug("closed connection to tx store")
}

func (s *service) GetInfo(_ context.Context) (*ServiceInfo, errors.Error) {
	return &ServiceInfo{
		NodeID:           s.cfg.NodeID,
		Version:          s.cfg.Version,
		BlockHeight:      s.blockHeight.Load(),
		MaxPageSize:      s.cfg.MaxPageSize,
		MaxInputs:        s.cfg.MaxInputs,
		VerifySignatures: s.cfg.VerifySignatures,
	}, nil
}

func (s *service) AddGenesisCoins(ctx context.Context, coins []ledgerlib.Coin) errors.Error {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := time.Now().Unix()
	amounts := make(map[string]uint64)
	list := make([]domain.Coin, 0, len(coins))
	for _, coin := range coins {
		coin.Status = ledgerlib.CoinStatusUnspent
		list = append(list, domain.NewCoin(coin, now))
		total, ok := addAmounts(amounts[coin.AssetID.String()], coin.Amount)
		if !ok {
			return errors.INVALID_ASSET_ID.New("genesis amounts overflow for asset %s", coin.AssetID).
				WithMetadata(errors.AssetMetadata{AssetID: coin.AssetID.String()})
		}
		amounts[coin.AssetID.String()] = total
	}
	if err := s.repoManager.Coins().AddCoins(ctx, list); err != nil {
		return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to add genesis coins: %s", err))
	}

	event := domain.GenesisCoinsAdded{
		Id:       fmt.Sprintf("genesis-%d", now),
		Type:     domain.EventTypeGenesisCoinsAdded,
		NumCoins: len(coins),
		Amounts:  amounts,
	}
	s.publish(event.Id, event)

	log.WithField("coins", len(coins)).Debug("added genesis coins")
	return nil
}

func (s *service) GetCoins(
	ctx context.Context, owner ledgerlib.Address, assetID *ledgerlib.AssetID, page *Page,
) (*CoinsResp, errors.Error) {
	size := pageSize(page, s.cfg.MaxPageSize)
	filter := domain.CoinFilter{
		Owner: owner.String(),
		// fetch one more coin to know whether there's a next page
		Limit: size + 1,
	}
	if assetID != nil {
		asset := assetID.String()
		filter.AssetID = &asset
	}
	if page != nil {
		filter.Descending = page.Backward
		if page.Cursor != nil {
			from, err := decodeCursor(*page.Cursor)
			if err != nil {
				return nil, errors.INVALID_CURSOR.Wrap(err).
					WithMetadata(errors.CursorMetadata{Cursor: *page.Cursor})
			}
			if _, err := ledgerlib.UtxoIDFromString(from); err != nil {
				return nil, errors.INVALID_CURSOR.Wrap(err).
					WithMetadata(errors.CursorMetadata{Cursor: *page.Cursor})
			}
			if page.Backward {
				filter.Before = &from
			} else {
				filter.After = &from
			}
		}
	}

	list, err := s.repoManager.Coins().FindUnspentCoins(ctx, filter)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to get coins: %s", err))
	}

	list, pageResp, _ := trimPage(list, func(c domain.Coin) string { return c.UtxoID }, size)
	coins, err := toLedgerCoins(list)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return &CoinsResp{Coins: coins, Page: pageResp}, nil
}

func (s *service) GetCoinsToSpend(
	ctx context.Context, owner ledgerlib.Address, queries []SpendQuery,
	excludedIDs []ledgerlib.UtxoID, maxInputs *uint64,
) ([]ledgerlib.Coin, errors.Error) {
	limit := s.cfg.MaxInputs
	if maxInputs != nil {
		limit = *maxInputs
	}

	excluded := make(map[string]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id.String()] = struct{}{}
	}

	// merge queries for the same asset, keeping the order of first appearance
	targets := make(map[ledgerlib.AssetID]uint64)
	assets := make([]ledgerlib.AssetID, 0, len(queries))
	for _, q := range queries {
		if _, ok := targets[q.AssetID]; !ok {
			assets = append(assets, q.AssetID)
		}
		targets[q.AssetID] += q.Amount
	}

	selected := make([]domain.Coin, 0)
	for _, assetID := range assets {
		asset := assetID.String()
		coins, err := s.repoManager.Coins().FindUnspentCoins(ctx, domain.CoinFilter{
			Owner:   owner.String(),
			AssetID: &asset,
		})
		if err != nil {
			return nil, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to get coins: %s", err))
		}

		spendable := make([]domain.Coin, 0, len(coins))
		for _, coin := range coins {
			if _, ok := excluded[coin.UtxoID]; ok {
				continue
			}
			spendable = append(spendable, coin)
		}

		coinsForAsset, total, ok := selectCoins(spendable, targets[assetID])
		if !ok {
			return nil, errors.INSUFFICIENT_FUNDS.New(
				"not enough coins to fit the target for asset %s", asset,
			).WithMetadata(errors.InsufficientFundsMetadata{
				AssetID:   asset,
				Requested: targets[assetID],
				Available: total,
			})
		}

		selected = append(selected, coinsForAsset...)
		if uint64(len(selected)) > limit {
			return nil, errors.MAX_COINS_REACHED.New(
				"selection for asset %s exceeds the max number of coins", asset,
			).WithMetadata(errors.MaxCoinsMetadata{AssetID: asset, MaxCoins: limit})
		}
	}

	coins, err := toLedgerCoins(selected)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	return coins, nil
}

func (s *service) GetBalance(
	ctx context.Context, owner ledgerlib.Address, assetID ledgerlib.AssetID,
) (uint64, errors.Error) {
	asset := assetID.String()
	coins, err := s.repoManager.Coins().FindUnspentCoins(ctx, domain.CoinFilter{
		Owner:   owner.String(),
		AssetID: &asset,
	})
	if err != nil {
		return 0, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to get coins: %s", err))
	}

	var balance uint64
	for _, coin := range coins {
		var ok bool
		if balance, ok = addAmounts(balance, coin.Amount); !ok {
			return 0, errors.INTERNAL_ERROR.New("balance of asset %s overflows", asset)
		}
	}
	return balance, nil
}

func (s *service) GetBalances(
	ctx context.Context, owner ledgerlib.Address, page *Page,
) (*BalancesResp, errors.Error) {
	coins, err := s.repoManager.Coins().FindUnspentCoins(ctx, domain.CoinFilter{
		Owner: owner.String(),
	})
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to get coins: %s", err))
	}

	amounts := make(map[string]uint64)
	for _, coin := range coins {
		total, ok := addAmounts(amounts[coin.AssetID], coin.Amount)
		if !ok {
			return nil, errors.INTERNAL_ERROR.New("balance of asset %s overflows", coin.AssetID)
		}
		amounts[coin.AssetID] = total
	}
	assets := make([]string, 0, len(amounts))
	for asset := range amounts {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	if page != nil && page.Cursor != nil {
		from, err := decodeCursor(*page.Cursor)
		if err == nil {
			_, err = ledgerlib.AssetIDFromString(from)
		}
		if err != nil {
			return nil, errors.INVALID_CURSOR.Wrap(err).
				WithMetadata(errors.CursorMetadata{Cursor: *page.Cursor})
		}
	}

	assets, pageResp, err := paginateByKey(
		assets, func(asset string) string { return asset }, page, s.cfg.MaxPageSize,
	)
	if err != nil {
		return nil, errors.INVALID_CURSOR.Wrap(err)
	}

	balances := make([]ledgerlib.Balance, 0, len(assets))
	for _, asset := range assets {
		assetID, err := ledgerlib.AssetIDFromString(asset)
		if err != nil {
			return nil, errors.INTERNAL_ERROR.Wrap(err)
		}
		balances = append(balances, ledgerlib.Balance{AssetID: assetID, Amount: amounts[asset]})
	}
	return &BalancesResp{Balances: balances, Page: pageResp}, nil
}

func (s *service) SubmitTransaction(
	ctx context.Context, tx *ledgerlib.Transaction,
) (ledgerlib.TxID, errors.Error) {
	if tx == nil {
		return ledgerlib.TxID{}, errors.INVALID_TX.New("missing transaction")
	}

	txid := tx.ID()
	txMetadata := errors.TxMetadata{Txid: txid.String()}

	if err := tx.Validate(); err != nil {
		return ledgerlib.TxID{}, errors.INVALID_TX.Wrap(err).WithMetadata(txMetadata)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	height := s.blockHeight.Load() + 1
	if tx.Maturity > height {
		return ledgerlib.TxID{}, errors.INVALID_TX.New(
			"tx maturity %d is greater than next block height %d", tx.Maturity, height,
		).WithMetadata(txMetadata)
	}

	gasUsed := gasUsedBy(tx)
	if gasUsed > tx.GasLimit {
		return ledgerlib.TxID{}, errors.INVALID_TX.New(
			"gas used %d exceeds gas limit %d", gasUsed, tx.GasLimit,
		).WithMetadata(txMetadata)
	}

	existing, err := s.txStore.GetTransaction(ctx, txid.String())
	if err != nil {
		return ledgerlib.TxID{}, errors.INTERNAL_ERROR.Wrap(
			fmt.Errorf("failed to get tx from store: %s", err),
		)
	}
	if existing != nil {
		return ledgerlib.TxID{}, errors.TX_ALREADY_EXISTS.New("tx %s already executed", txid).
			WithMetadata(txMetadata)
	}

	spentIDs := make([]string, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		spentIDs = append(spentIDs, in.UtxoID.String())
	}
	coins, err := s.repoManager.Coins().GetCoins(ctx, spentIDs)
	if err != nil {
		return ledgerlib.TxID{}, errors.INTERNAL_ERROR.Wrap(
			fmt.Errorf("failed to get coins: %s", err),
		)
	}
	coinsByID := make(map[string]domain.Coin, len(coins))
	for _, coin := range coins {
		coinsByID[coin.UtxoID] = coin
	}

	inputAmounts := make(map[ledgerlib.AssetID]uint64)
	for i, in := range tx.Inputs {
		id := in.UtxoID.String()
		coin, ok := coinsByID[id]
		if !ok {
			return ledgerlib.TxID{}, errors.COIN_NOT_FOUND.New("input %d: coin %s not found", i, id).
				WithMetadata(errors.CoinMetadata{UtxoID: id})
		}
		if coin.Spent {
			return ledgerlib.TxID{}, errors.COIN_ALREADY_SPENT.New(
				"input %d: coin %s already spent by %s", i, id, coin.SpentBy,
			).WithMetadata(errors.CoinMetadata{UtxoID: id})
		}
		if coin.Owner != in.Owner.String() || coin.Amount != in.Amount ||
			coin.AssetID != in.AssetID.String() {
			return ledgerlib.TxID{}, errors.INVALID_TX.New("input %d does not match coin %s", i, id).
				WithMetadata(txMetadata)
		}

		if s.cfg.VerifySignatures {
			inputMetadata := errors.InputMetadata{Txid: txid.String(), InputIndex: i}
			if int(in.WitnessIndex) >= len(tx.Witnesses) {
				return ledgerlib.TxID{}, errors.INVALID_SIGNATURE.New(
					"input %d: missing witness at index %d", i, in.WitnessIndex,
				).WithMetadata(inputMetadata)
			}
			signer, err := ledgerlib.VerifyWitness(tx.Witnesses[in.WitnessIndex], txid)
			if err != nil {
				return ledgerlib.TxID{}, errors.INVALID_SIGNATURE.Wrap(
					fmt.Errorf("input %d: %s", i, err),
				).WithMetadata(inputMetadata)
			}
			if signer != in.Owner {
				return ledgerlib.TxID{}, errors.INVALID_SIGNATURE.New(
					"input %d: witness signed by %s, expected owner %s", i, signer, in.Owner,
				).WithMetadata(inputMetadata)
			}
		}

		total, ok := addAmounts(inputAmounts[in.AssetID], in.Amount)
		if !ok {
			return ledgerlib.TxID{}, errors.INVALID_TX.New(
				"input amounts overflow for asset %s", in.AssetID,
			).WithMetadata(txMetadata)
		}
		inputAmounts[in.AssetID] = total
	}

	outputAmounts := make(map[ledgerlib.AssetID]uint64)
	for i, out := range tx.Outputs {
		available, ok := inputAmounts[out.AssetID]
		if !ok {
			return ledgerlib.TxID{}, errors.INVALID_TX.New(
				"output %d: no input for asset %s", i, out.AssetID,
			).WithMetadata(txMetadata)
		}
		if out.Type != ledgerlib.OutputCoin {
			continue
		}
		if out.Amount > available-outputAmounts[out.AssetID] {
			return ledgerlib.TxID{}, errors.INVALID_TX.New(
				"outputs exceed inputs for asset %s", out.AssetID,
			).WithMetadata(txMetadata)
		}
		outputAmounts[out.AssetID] += out.Amount
	}

	now := time.Now()
	newCoins := make([]domain.Coin, 0, len(tx.Outputs))
	for i, out := range tx.Outputs {
		amount := out.Amount
		if out.Type == ledgerlib.OutputChange {
			amount = inputAmounts[out.AssetID] - outputAmounts[out.AssetID]
		}
		if amount == 0 {
			continue
		}
		newCoins = append(newCoins, domain.Coin{
			UtxoID:       ledgerlib.UtxoID{TxID: txid, OutputIndex: uint8(i)}.String(),
			Owner:        out.To.String(),
			AssetID:      out.AssetID.String(),
			Amount:       amount,
			Maturity:     tx.Maturity,
			BlockCreated: height,
			CreatedAt:    now.Unix(),
		})
	}

	receipts := []ledgerlib.Receipt{
		{Type: ledgerlib.ReceiptReturn, Val: 1},
		{Type: ledgerlib.ReceiptScriptResult, Result: 0, GasUsed: gasUsed},
	}

	createdIDs := make([]string, 0, len(newCoins))
	for _, coin := range newCoins {
		createdIDs = append(createdIDs, coin.UtxoID)
	}
	coinRepo := s.repoManager.Coins()
	if err := coinRepo.ApplyTransaction(ctx, txid.String(), spentIDs, newCoins); err != nil {
		return ledgerlib.TxID{}, errors.INTERNAL_ERROR.Wrap(
			fmt.Errorf("failed to apply tx to coins: %s", err),
		)
	}
	if err := s.txStore.AddTransaction(ctx, domain.Transaction{
		Txid:        txid.String(),
		Tx:          *tx,
		Receipts:    receipts,
		Status:      ledgerlib.TxStatusSuccess,
		BlockHeight: height,
		Timestamp:   now.Unix(),
	}); err != nil {
		// coins must not move for a tx that was not recorded
		if rerr := coinRepo.RevertTransaction(
			context.WithoutCancel(ctx), txid.String(), spentIDs, createdIDs,
		); rerr != nil {
			log.WithError(rerr).WithField("txid", txid.String()).Error(
				"failed to revert coins of unrecorded tx",
			)
		}
		return ledgerlib.TxID{}, errors.INTERNAL_ERROR.Wrap(
			fmt.Errorf("failed to store tx: %s", err),
		)
	}
	s.blockHeight.Store(height)
	if s.telemetry != nil {
		s.telemetry.SetBlockHeight(height)
	}

	moved := make(map[string]uint64)
	for asset, amount := range inputAmounts {
		moved[asset.String()] = amount
	}
	s.publish(txid.String(), domain.TransactionExecuted{
		Id:          txid.String(),
		Type:        domain.EventTypeTransactionExecuted,
		BlockHeight: height,
		NumInputs:   len(tx.Inputs),
		NumOutputs:  len(tx.Outputs),
		Amounts:     moved,
		GasUsed:     gasUsed,
	})

	log.WithFields(log.Fields{
		"txid":    txid.String(),
		"height":  height,
		"inputs":  len(tx.Inputs),
		"outputs": len(newCoins),
	}).Debug("executed transaction")

	return txid, nil
}

func (s *service) GetReceipts(
	ctx context.Context, txid ledgerlib.TxID,
) ([]ledgerlib.Receipt, errors.Error) {
	tx, err := s.txStore.GetTransaction(ctx, txid.String())
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to get tx: %s", err))
	}
	if tx == nil {
		return nil, errors.TX_NOT_FOUND.New("tx %s not found", txid).
			WithMetadata(errors.TxMetadata{Txid: txid.String()})
	}
	return tx.Receipts, nil
}

func (s *service) GetTransaction(
	ctx context.Context, txid ledgerlib.TxID,
) (*ledgerlib.TransactionResponse, errors.Error) {
	tx, err := s.txStore.GetTransaction(ctx, txid.String())
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to get tx: %s", err))
	}
	if tx == nil {
		return nil, nil
	}
	return &ledgerlib.TransactionResponse{
		Transaction: tx.Tx,
		ID:          txid,
		Status:      tx.Status,
		BlockHeight: tx.BlockHeight,
		Time:        time.Unix(tx.Timestamp, 0),
	}, nil
}

func (s *service) publish(id string, events ...domain.Event) {
	if err := s.repoManager.Events().Save(domain.TransactionTopic, id, events); err != nil {
		log.WithError(err).Warn("failed to publish events")
	}
}

func (s *service) compact() {
	if err := s.repoManager.Compact(context.Background()); err != nil {
		log.WithError(err).Warn("failed to compact coin store")
		return
	}
	log.Debug("compacted coin store")
}

// addAmounts returns a+b, or false if the sum overflows.
func addAmounts(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

func gasUsedBy(tx *ledgerlib.Transaction) uint64 {
	instructions := uint64(len(tx.Script) / ledgerlib.InstructionSize)
	return instructions*gasPerInstruction + uint64(len(tx.Inputs))*gasPerInput
}

func toLedgerCoins(list []domain.Coin) ([]ledgerlib.Coin, error) {
	coins := make([]ledgerlib.Coin, 0, len(list))
	for _, c := range list {
		coin, err := c.ToLedgerCoin()
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored coin %s: %s", c.UtxoID, err)
		}
		coins = append(coins, coin)
	}
	return coins, nil
}
