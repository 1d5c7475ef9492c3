package ledgerv1

import (
	"fmt"
	"time"

	ledgerlib "github.com/arkade-os/ledgerkit/pkg/ledger-lib"
)

func FromCoin(c ledgerlib.Coin) *Coin {
	return &Coin{
		UtxoId:       c.UtxoID.String(),
		Owner:        c.Owner.String(),
		Amount:       c.Amount,
		AssetId:      c.AssetID.String(),
		Maturity:     c.Maturity,
		BlockCreated: c.BlockCreated,
		Status:       c.Status.String(),
	}
}

func FromCoins(coins []ledgerlib.Coin) []*Coin {
	list := make([]*Coin, 0, len(coins))
	for _, c := range coins {
		list = append(list, FromCoin(c))
	}
	return list
}

func (c *Coin) Parse() (ledgerlib.Coin, error) {
	utxoID, err := ledgerlib.UtxoIDFromString(c.UtxoId)
	if err != nil {
		return ledgerlib.Coin{}, err
	}
	owner, err := ledgerlib.AddressFromString(c.Owner)
	if err != nil {
		return ledgerlib.Coin{}, err
	}
	assetID, err := ledgerlib.AssetIDFromString(c.AssetId)
	if err != nil {
		return ledgerlib.Coin{}, err
	}
	status := ledgerlib.CoinStatusUnspent
	if c.Status == CoinStatusSpent {
		status = ledgerlib.CoinStatusSpent
	}
	return ledgerlib.Coin{
		UtxoID:       utxoID,
		Owner:        owner,
		Amount:       c.Amount,
		AssetID:      assetID,
		Maturity:     c.Maturity,
		BlockCreated: c.BlockCreated,
		Status:       status,
	}, nil
}

func ParseCoins(list []*Coin) ([]ledgerlib.Coin, error) {
	coins := make([]ledgerlib.Coin, 0, len(list))
	for _, c := range list {
		coin, err := c.Parse()
		if err != nil {
			return nil, err
		}
		coins = append(coins, coin)
	}
	return coins, nil
}

func FromBalances(balances []ledgerlib.Balance) []*Balance {
	list := make([]*Balance, 0, len(balances))
	for _, b := range balances {
		list = append(list, &Balance{AssetId: b.AssetID.String(), Amount: b.Amount})
	}
	return list
}

func ParseBalances(list []*Balance) ([]ledgerlib.Balance, error) {
	balances := make([]ledgerlib.Balance, 0, len(list))
	for _, b := range list {
		assetID, err := ledgerlib.AssetIDFromString(b.AssetId)
		if err != nil {
			return nil, err
		}
		balances = append(balances, ledgerlib.Balance{AssetID: assetID, Amount: b.Amount})
	}
	return balances, nil
}

func FromTransaction(tx *ledgerlib.Transaction) *Transaction {
	inputs := make([]*Input, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		inputs = append(inputs, &Input{
			UtxoId:       in.UtxoID.String(),
			Owner:        in.Owner.String(),
			Amount:       in.Amount,
			AssetId:      in.AssetID.String(),
			WitnessIndex: uint32(in.WitnessIndex),
			Maturity:     in.Maturity,
		})
	}
	outputs := make([]*Output, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		outputs = append(outputs, &Output{
			Type:    out.Type.String(),
			To:      out.To.String(),
			Amount:  out.Amount,
			AssetId: out.AssetID.String(),
		})
	}
	witnesses := make([][]byte, 0, len(tx.Witnesses))
	for _, w := range tx.Witnesses {
		witnesses = append(witnesses, w)
	}
	return &Transaction{
		GasPrice:     tx.GasPrice,
		GasLimit:     tx.GasLimit,
		BytePrice:    tx.BytePrice,
		Maturity:     tx.Maturity,
		ReceiptsRoot: ledgerlib.TxID(tx.ReceiptsRoot).String(),
		Script:       tx.Script,
		ScriptData:   tx.ScriptData,
		Inputs:       inputs,
		Outputs:      outputs,
		Witnesses:    witnesses,
	}
}

func (t *Transaction) Parse() (*ledgerlib.Transaction, error) {
	if t == nil {
		return nil, fmt.Errorf("missing transaction")
	}
	receiptsRoot, err := ledgerlib.TxIDFromString(t.ReceiptsRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid receipts root: %s", err)
	}

	inputs := make([]ledgerlib.Input, 0, len(t.Inputs))
	for i, in := range t.Inputs {
		utxoID, err := ledgerlib.UtxoIDFromString(in.UtxoId)
		if err != nil {
			return nil, fmt.Errorf("input %d: %s", i, err)
		}
		owner, err := ledgerlib.AddressFromString(in.Owner)
		if err != nil {
			return nil, fmt.Errorf("input %d: %s", i, err)
		}
		assetID, err := ledgerlib.AssetIDFromString(in.AssetId)
		if err != nil {
			return nil, fmt.Errorf("input %d: %s", i, err)
		}
		if in.WitnessIndex > 255 {
			return nil, fmt.Errorf("input %d: witness index out of range", i)
		}
		inputs = append(inputs, ledgerlib.Input{
			UtxoID:       utxoID,
			Owner:        owner,
			Amount:       in.Amount,
			AssetID:      assetID,
			WitnessIndex: uint8(in.WitnessIndex),
			Maturity:     in.Maturity,
		})
	}

	outputs := make([]ledgerlib.Output, 0, len(t.Outputs))
	for i, out := range t.Outputs {
		var outType ledgerlib.OutputType
		switch out.Type {
		case ledgerlib.OutputCoin.String():
			outType = ledgerlib.OutputCoin
		case ledgerlib.OutputChange.String():
			outType = ledgerlib.OutputChange
		default:
			return nil, fmt.Errorf("output %d: unknown type %s", i, out.Type)
		}
		to, err := ledgerlib.AddressFromString(out.To)
		if err != nil {
			return nil, fmt.Errorf("output %d: %s", i, err)
		}
		assetID, err := ledgerlib.AssetIDFromString(out.AssetId)
		if err != nil {
			return nil, fmt.Errorf("output %d: %s", i, err)
		}
		outputs = append(outputs, ledgerlib.Output{
			Type:    outType,
			To:      to,
			Amount:  out.Amount,
			AssetID: assetID,
		})
	}

	witnesses := make([]ledgerlib.Witness, 0, len(t.Witnesses))
	for _, w := range t.Witnesses {
		witnesses = append(witnesses, w)
	}

	script := t.Script
	if script == nil {
		script = []byte{}
	}
	scriptData := t.ScriptData
	if scriptData == nil {
		scriptData = []byte{}
	}

	return &ledgerlib.Transaction{
		TxParameters: ledgerlib.TxParameters{
			GasPrice:  t.GasPrice,
			GasLimit:  t.GasLimit,
			BytePrice: t.BytePrice,
			Maturity:  t.Maturity,
		},
		ReceiptsRoot: receiptsRoot,
		Script:       script,
		ScriptData:   scriptData,
		Inputs:       inputs,
		Outputs:      outputs,
		Witnesses:    witnesses,
	}, nil
}

func FromReceipts(receipts []ledgerlib.Receipt) []*Receipt {
	list := make([]*Receipt, 0, len(receipts))
	for _, r := range receipts {
		receipt := &Receipt{
			Type:    r.Type.String(),
			Val:     r.Val,
			Result:  r.Result,
			GasUsed: r.GasUsed,
			Amount:  r.Amount,
		}
		if r.Type == ledgerlib.ReceiptTransfer {
			receipt.To = r.To.String()
			receipt.AssetId = r.AssetID.String()
		}
		list = append(list, receipt)
	}
	return list
}

func ParseReceipts(list []*Receipt) ([]ledgerlib.Receipt, error) {
	receipts := make([]ledgerlib.Receipt, 0, len(list))
	for i, r := range list {
		receipt := ledgerlib.Receipt{
			Val:     r.Val,
			Result:  r.Result,
			GasUsed: r.GasUsed,
			Amount:  r.Amount,
		}
		switch r.Type {
		case ledgerlib.ReceiptReturn.String():
			receipt.Type = ledgerlib.ReceiptReturn
		case ledgerlib.ReceiptScriptResult.String():
			receipt.Type = ledgerlib.ReceiptScriptResult
		case ledgerlib.ReceiptTransfer.String():
			receipt.Type = ledgerlib.ReceiptTransfer
			to, err := ledgerlib.AddressFromString(r.To)
			if err != nil {
				return nil, fmt.Errorf("receipt %d: %s", i, err)
			}
			assetID, err := ledgerlib.AssetIDFromString(r.AssetId)
			if err != nil {
				return nil, fmt.Errorf("receipt %d: %s", i, err)
			}
			receipt.To = to
			receipt.AssetID = assetID
		default:
			return nil, fmt.Errorf("receipt %d: unknown type %s", i, r.Type)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

func FromTransactionResponse(tx *ledgerlib.TransactionResponse) *TransactionInfo {
	return &TransactionInfo{
		Id:          tx.ID.String(),
		Transaction: FromTransaction(&tx.Transaction),
		Status:      tx.Status.String(),
		BlockHeight: tx.BlockHeight,
		Time:        tx.Time.Unix(),
	}
}

func (t *TransactionInfo) Parse() (*ledgerlib.TransactionResponse, error) {
	id, err := ledgerlib.TxIDFromString(t.Id)
	if err != nil {
		return nil, err
	}
	tx, err := t.Transaction.Parse()
	if err != nil {
		return nil, err
	}
	var status ledgerlib.TransactionStatus
	switch t.Status {
	case ledgerlib.TxStatusSubmitted.String():
		status = ledgerlib.TxStatusSubmitted
	case ledgerlib.TxStatusSuccess.String():
		status = ledgerlib.TxStatusSuccess
	case ledgerlib.TxStatusFailure.String():
		status = ledgerlib.TxStatusFailure
	default:
		return nil, fmt.Errorf("unknown tx status %s", t.Status)
	}
	return &ledgerlib.TransactionResponse{
		Transaction: *tx,
		ID:          id,
		Status:      status,
		BlockHeight: t.BlockHeight,
		Time:        time.Unix(t.Time, 0),
	}, nil
}
