package ledgerlib

import "time"

type ReceiptType uint8

const (
	ReceiptReturn ReceiptType = iota
	ReceiptScriptResult
	ReceiptTransfer
)

func (t ReceiptType) String() string {
	switch t {
	case ReceiptReturn:
		return "return"
	case ReceiptScriptResult:
		return "script_result"
	case ReceiptTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Receipt is a record of one effect of an executed transaction. Only the fields
// relevant to its Type are set.
type Receipt struct {
	Type    ReceiptType
	Val     uint64
	Result  uint64
	GasUsed uint64
	To      Address
	Amount  uint64
	AssetID AssetID
}

type TransactionStatus uint8

const (
	TxStatusSubmitted TransactionStatus = iota
	TxStatusSuccess
	TxStatusFailure
)

func (s TransactionStatus) String() string {
	switch s {
	case TxStatusSubmitted:
		return "submitted"
	case TxStatusSuccess:
		return "success"
	case TxStatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// TransactionResponse is the node's view of a transaction it knows about.
type TransactionResponse struct {
	Transaction Transaction
	ID          TxID
	Status      TransactionStatus
	BlockHeight uint32
	Time        time.Time
}
