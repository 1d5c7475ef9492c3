package handlers

import (
	"fmt"

	ledgerv1 "github.com/arkade-os/ledgerkit/api-spec/ledger/v1"
	"github.com/arkade-os/ledgerkit/internal/core/application"
	"github.com/arkade-os/ledgerkit/pkg/errors"
	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

func parseAddress(addr string) (ledgerlib.Address, errors.Error) {
	if len(addr) <= 0 {
		return ledgerlib.Address{}, errors.INVALID_ADDRESS.New("missing address")
	}
	address, err := ledgerlib.AddressFromString(addr)
	if err != nil {
		return ledgerlib.Address{}, errors.INVALID_ADDRESS.Wrap(err).
			WithMetadata(errors.AddressMetadata{Address: addr})
	}
	return address, nil
}

func parseAssetID(asset string) (ledgerlib.AssetID, errors.Error) {
	assetID, err := ledgerlib.AssetIDFromString(asset)
	if err != nil {
		return ledgerlib.AssetID{}, errors.INVALID_ASSET_ID.Wrap(err).
			WithMetadata(errors.AssetMetadata{AssetID: asset})
	}
	return assetID, nil
}

// parseOptionalAssetID returns nil if the asset is not set.
func parseOptionalAssetID(asset *string) (*ledgerlib.AssetID, errors.Error) {
	if asset == nil || len(*asset) <= 0 {
		return nil, nil
	}
	assetID, err := parseAssetID(*asset)
	if err != nil {
		return nil, err
	}
	return &assetID, nil
}

func parseTxid(txid string) (ledgerlib.TxID, errors.Error) {
	if len(txid) <= 0 {
		return ledgerlib.TxID{}, errors.INVALID_TX.New("missing txid")
	}
	id, err := ledgerlib.TxIDFromString(txid)
	if err != nil {
		return ledgerlib.TxID{}, errors.INVALID_TX.Wrap(fmt.Errorf("invalid txid: %s", err)).
			WithMetadata(errors.TxMetadata{Txid: txid})
	}
	return id, nil
}

func parsePage(page *ledgerv1.PageRequest) (*application.Page, errors.Error) {
	if page == nil {
		return nil, nil
	}

	var backward bool
	switch page.Direction {
	case "", ledgerv1.PageDirectionForward:
	case ledgerv1.PageDirectionBackward:
		backward = true
	default:
		return nil, errors.INVALID_CURSOR.New("invalid page direction %q", page.Direction)
	}
	return &application.Page{
		Cursor:   page.Cursor,
		Size:     page.Size,
		Backward: backward,
	}, nil
}

func parseSpendQueries(list []*ledgerv1.SpendQuery) ([]application.SpendQuery, errors.Error) {
	queries := make([]application.SpendQuery, 0, len(list))
	for _, q := range list {
		if q == nil {
			continue
		}
		assetID, err := parseAssetID(q.AssetId)
		if err != nil {
			return nil, err
		}
		queries = append(queries, application.SpendQuery{AssetID: assetID, Amount: q.Amount})
	}
	return queries, nil
}

func parseUtxoIDs(list []string) ([]ledgerlib.UtxoID, errors.Error) {
	ids := make([]ledgerlib.UtxoID, 0, len(list))
	for _, s := range list {
		id, err := ledgerlib.UtxoIDFromString(s)
		if err != nil {
			return nil, errors.COIN_NOT_FOUND.Wrap(fmt.Errorf("invalid utxo id: %s", err)).
				WithMetadata(errors.CoinMetadata{UtxoID: s})
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toPageResponse(page application.PageResp) *ledgerv1.PageResponse {
	return &ledgerv1.PageResponse{
		Cursor:      page.Cursor,
		HasNextPage: page.HasNextPage,
	}
}
