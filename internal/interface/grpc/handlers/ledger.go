package handlers

import (
	"context"

	ledgerv1 "github.com/arkade-os/ledgerkit/api-spec/ledger/v1"
	"github.com/arkade-os/ledgerkit/internal/core/application"
	"github.com/arkade-os/ledgerkit/pkg/errors"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

type ledgerHandler struct {
	ledgerv1.UnimplementedLedgerServiceServer

	svc application.Service
}

func NewLedgerHandler(svc application.Service) ledgerv1.LedgerServiceServer {
	return &ledgerHandler{svc: svc}
}

func (h *ledgerHandler) GetInfo(
	ctx context.Context, _ *ledgerv1.GetInfoRequest,
) (*ledgerv1.GetInfoResponse, error) {
	info, err := h.svc.GetInfo(ctx)
	if err != nil {
		return nil, err
	}
	return &ledgerv1.GetInfoResponse{
		NodeId:           info.NodeID,
		Version:          info.Version,
		BlockHeight:      info.BlockHeight,
		MaxPageSize:      info.MaxPageSize,
		MaxInputs:        info.MaxInputs,
		VerifySignatures: info.VerifySignatures,
	}, nil
}

func (h *ledgerHandler) GetCoins(
	ctx context.Context, req *ledgerv1.GetCoinsRequest,
) (*ledgerv1.GetCoinsResponse, error) {
	owner, err := parseAddress(req.Owner)
	if err != nil {
		return nil, err
	}
	assetID, err := parseOptionalAssetID(req.AssetId)
	if err != nil {
		return nil, err
	}
	page, err := parsePage(req.Page)
	if err != nil {
		return nil, err
	}

	resp, err := h.svc.GetCoins(ctx, owner, assetID, page)
	if err != nil {
		return nil, err
	}
	return &ledgerv1.GetCoinsResponse{
		Coins: ledgerv1.FromCoins(resp.Coins),
		Page:  toPageResponse(resp.Page),
	}, nil
}

func (h *ledgerHandler) GetCoinsToSpend(
	ctx context.Context, req *ledgerv1.GetCoinsToSpendRequest,
) (*ledgerv1.GetCoinsToSpendResponse, error) {
	owner, err := parseAddress(req.Owner)
	if err != nil {
		return nil, err
	}
	queries, err := parseSpendQueries(req.Queries)
	if err != nil {
		return nil, err
	}
	excluded, err := parseUtxoIDs(req.ExcludedIds)
	if err != nil {
		return nil, err
	}

	coins, err := h.svc.GetCoinsToSpend(ctx, owner, queries, excluded, req.MaxInputs)
	if err != nil {
		return nil, err
	}
	return &ledgerv1.GetCoinsToSpendResponse{Coins: ledgerv1.FromCoins(coins)}, nil
}

func (h *ledgerHandler) GetBalance(
	ctx context.Context, req *ledgerv1.GetBalanceRequest,
) (*ledgerv1.GetBalanceResponse, error) {
	owner, err := parseAddress(req.Owner)
	if err != nil {
		return nil, err
	}
	asset, err := parseOptionalAssetID(req.AssetId)
	if err != nil {
		return nil, err
	}
	assetID := ledgerlib.BaseAssetID
	if asset != nil {
		assetID = *asset
	}

	amount, err := h.svc.GetBalance(ctx, owner, assetID)
	if err != nil {
		return nil, err
	}
	return &ledgerv1.GetBalanceResponse{Amount: amount}, nil
}

func (h *ledgerHandler) GetBalances(
	ctx context.Context, req *ledgerv1.GetBalancesRequest,
) (*ledgerv1.GetBalancesResponse, error) {
	owner, err := parseAddress(req.Owner)
	if err != nil {
		return nil, err
	}
	page, err := parsePage(req.Page)
	if err != nil {
		return nil, err
	}

	resp, err := h.svc.GetBalances(ctx, owner, page)
	if err != nil {
		return nil, err
	}
	return &ledgerv1.GetBalancesResponse{
		Balances: ledgerv1.FromBalances(resp.Balances),
		Page:     toPageResponse(resp.Page),
	}, nil
}

func (h *ledgerHandler) SubmitTransaction(
	ctx context.Context, req *ledgerv1.SubmitTransactionRequest,
) (*ledgerv1.SubmitTransactionResponse, error) {
	if req.Transaction == nil {
		return nil, errors.INVALID_TX.New("missing transaction")
	}
	tx, parseErr := req.Transaction.Parse()
	if parseErr != nil {
		return nil, errors.INVALID_TX.Wrap(parseErr)
	}

	txid, err := h.svc.SubmitTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	return &ledgerv1.SubmitTransactionResponse{Txid: txid.String()}, nil
}

func (h *ledgerHandler) GetReceipts(
	ctx context.Context, req *ledgerv1.GetReceiptsRequest,
) (*ledgerv1.GetReceiptsResponse, error) {
	txid, err := parseTxid(req.Txid)
	if err != nil {
		return nil, err
	}

	receipts, err := h.svc.GetReceipts(ctx, txid)
	if err != nil {
		return nil, err
	}
	return &ledgerv1.GetReceiptsResponse{Receipts: ledgerv1.FromReceipts(receipts)}, nil
}

func (h *ledgerHandler) GetTransaction(
	ctx context.Context, req *ledgerv1.GetTransactionRequest,
) (*ledgerv1.GetTransactionResponse, error) {
	txid, err := parseTxid(req.Txid)
	if err != nil {
		return nil, err
	}

	tx, err := h.svc.GetTransaction(ctx, txid)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return &ledgerv1.GetTransactionResponse{}, nil
	}
	return &ledgerv1.GetTransactionResponse{
		Transaction: ledgerv1.FromTransactionResponse(tx),
	}, nil
}
