package ledgerv1

const (
	PageDirectionForward  = "forward"
	PageDirectionBackward = "backward"

	CoinStatusUnspent = "unspent"
	CoinStatusSpent   = "spent"
)

type PageRequest struct {
	Cursor    *string `protobuf:"bytes,1,opt,name=cursor,proto3,oneof" json:"cursor,omitempty"`
	Size      int32   `protobuf:"varint,2,opt,name=size,proto3" json:"size"`
	Direction string  `protobuf:"bytes,3,opt,name=direction,proto3" json:"direction"`
}

type PageResponse struct {
	Cursor      *string `protobuf:"bytes,1,opt,name=cursor,proto3,oneof" json:"cursor,omitempty"`
	HasNextPage bool    `protobuf:"varint,2,opt,name=has_next_page,proto3" json:"has_next_page"`
}

type Coin struct {
	UtxoId       string `protobuf:"bytes,1,opt,name=utxo_id,proto3" json:"utxo_id"`
	Owner        string `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
	Amount       uint64 `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,string"`
	AssetId      string `protobuf:"bytes,4,opt,name=asset_id,proto3" json:"asset_id"`
	Maturity     uint32 `protobuf:"varint,5,opt,name=maturity,proto3" json:"maturity"`
	BlockCreated uint32 `protobuf:"varint,6,opt,name=block_created,proto3" json:"block_created"`
	Status       string `protobuf:"bytes,7,opt,name=status,proto3" json:"status"`
}

type Balance struct {
	AssetId string `protobuf:"bytes,1,opt,name=asset_id,proto3" json:"asset_id"`
	Amount  uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,string"`
}

type Input struct {
	UtxoId       string `protobuf:"bytes,1,opt,name=utxo_id,proto3" json:"utxo_id"`
	Owner        string `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
	Amount       uint64 `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,string"`
	AssetId      string `protobuf:"bytes,4,opt,name=asset_id,proto3" json:"asset_id"`
	WitnessIndex uint32 `protobuf:"varint,5,opt,name=witness_index,proto3" json:"witness_index"`
	Maturity     uint32 `protobuf:"varint,6,opt,name=maturity,proto3" json:"maturity"`
}

type Output struct {
	Type    string `protobuf:"bytes,1,opt,name=type,proto3" json:"type"`
	To      string `protobuf:"bytes,2,opt,name=to,proto3" json:"to"`
	Amount  uint64 `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,string"`
	AssetId string `protobuf:"bytes,4,opt,name=asset_id,proto3" json:"asset_id"`
}

type Transaction struct {
	GasPrice     uint64    `protobuf:"varint,1,opt,name=gas_price,proto3" json:"gas_price,string"`
	GasLimit     uint64    `protobuf:"varint,2,opt,name=gas_limit,proto3" json:"gas_limit,string"`
	BytePrice    uint64    `protobuf:"varint,3,opt,name=byte_price,proto3" json:"byte_price,string"`
	Maturity     uint32    `protobuf:"varint,4,opt,name=maturity,proto3" json:"maturity"`
	ReceiptsRoot string    `protobuf:"bytes,5,opt,name=receipts_root,proto3" json:"receipts_root"`
	Script       []byte    `protobuf:"bytes,6,opt,name=script,proto3" json:"script"`
	ScriptData   []byte    `protobuf:"bytes,7,opt,name=script_data,proto3" json:"script_data"`
	Inputs       []*Input  `protobuf:"bytes,8,rep,name=inputs,proto3" json:"inputs"`
	Outputs      []*Output `protobuf:"bytes,9,rep,name=outputs,proto3" json:"outputs"`
	Witnesses    [][]byte  `protobuf:"bytes,10,rep,name=witnesses,proto3" json:"witnesses"`
}

type Receipt struct {
	Type    string `protobuf:"bytes,1,opt,name=type,proto3" json:"type"`
	Val     uint64 `protobuf:"varint,2,opt,name=val,proto3" json:"val,string"`
	Result  uint64 `protobuf:"varint,3,opt,name=result,proto3" json:"result,string"`
	GasUsed uint64 `protobuf:"varint,4,opt,name=gas_used,proto3" json:"gas_used,string"`
	To      string `protobuf:"bytes,5,opt,name=to,proto3" json:"to,omitempty"`
	Amount  uint64 `protobuf:"varint,6,opt,name=amount,proto3" json:"amount,string"`
	AssetId string `protobuf:"bytes,7,opt,name=asset_id,proto3" json:"asset_id,omitempty"`
}

type TransactionInfo struct {
	Id          string       `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
	Transaction *Transaction `protobuf:"bytes,2,opt,name=transaction,proto3" json:"transaction"`
	Status      string       `protobuf:"bytes,3,opt,name=status,proto3" json:"status"`
	BlockHeight uint32       `protobuf:"varint,4,opt,name=block_height,proto3" json:"block_height"`
	Time        int64        `protobuf:"varint,5,opt,name=time,proto3" json:"time"`
}

type SpendQuery struct {
	AssetId string `protobuf:"bytes,1,opt,name=asset_id,proto3" json:"asset_id"`
	Amount  uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,string"`
}

type GetInfoRequest struct{}

type GetInfoResponse struct {
	NodeId           string `protobuf:"bytes,1,opt,name=node_id,proto3" json:"node_id"`
	Version          string `protobuf:"bytes,2,opt,name=version,proto3" json:"version"`
	BlockHeight      uint32 `protobuf:"varint,3,opt,name=block_height,proto3" json:"block_height"`
	MaxPageSize      int32  `protobuf:"varint,4,opt,name=max_page_size,proto3" json:"max_page_size"`
	MaxInputs        uint64 `protobuf:"varint,5,opt,name=max_inputs,proto3" json:"max_inputs,string"`
	VerifySignatures bool   `protobuf:"varint,6,opt,name=verify_signatures,proto3" json:"verify_signatures"`
}

type GetCoinsRequest struct {
	Owner   string       `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	AssetId *string      `protobuf:"bytes,2,opt,name=asset_id,proto3,oneof" json:"asset_id,omitempty"`
	Page    *PageRequest `protobuf:"bytes,3,opt,name=page,proto3" json:"page,omitempty"`
}

type GetCoinsResponse struct {
	Coins []*Coin       `protobuf:"bytes,1,rep,name=coins,proto3" json:"coins"`
	Page  *PageResponse `protobuf:"bytes,2,opt,name=page,proto3" json:"page"`
}

type GetCoinsToSpendRequest struct {
	Owner       string        `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	Queries     []*SpendQuery `protobuf:"bytes,2,rep,name=queries,proto3" json:"queries"`
	ExcludedIds []string      `protobuf:"bytes,3,rep,name=excluded_ids,proto3" json:"excluded_ids,omitempty"`
	MaxInputs   *uint64       `protobuf:"varint,4,opt,name=max_inputs,proto3,oneof" json:"max_inputs,omitempty"`
}

type GetCoinsToSpendResponse struct {
	Coins []*Coin `protobuf:"bytes,1,rep,name=coins,proto3" json:"coins"`
}

type GetBalanceRequest struct {
	Owner   string  `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	AssetId *string `protobuf:"bytes,2,opt,name=asset_id,proto3,oneof" json:"asset_id,omitempty"`
}

type GetBalanceResponse struct {
	Amount uint64 `protobuf:"varint,1,opt,name=amount,proto3" json:"amount,string"`
}

type GetBalancesRequest struct {
	Owner string       `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	Page  *PageRequest `protobuf:"bytes,2,opt,name=page,proto3" json:"page,omitempty"`
}

type GetBalancesResponse struct {
	Balances []*Balance    `protobuf:"bytes,1,rep,name=balances,proto3" json:"balances"`
	Page     *PageResponse `protobuf:"bytes,2,opt,name=page,proto3" json:"page"`
}

type SubmitTransactionRequest struct {
	Transaction *Transaction `protobuf:"bytes,1,opt,name=transaction,proto3" json:"transaction"`
}

type SubmitTransactionResponse struct {
	Txid string `protobuf:"bytes,1,opt,name=txid,proto3" json:"txid"`
}

type GetReceiptsRequest struct {
	Txid string `protobuf:"bytes,1,opt,name=txid,proto3" json:"txid"`
}

type GetReceiptsResponse struct {
	Receipts []*Receipt `protobuf:"bytes,1,rep,name=receipts,proto3" json:"receipts"`
}

type GetTransactionRequest struct {
	Txid string `protobuf:"bytes,1,opt,name=txid,proto3" json:"txid"`
}

type GetTransactionResponse struct {
	// Transaction is nil if the node does not know the requested tx.
	Transaction *TransactionInfo `protobuf:"bytes,1,opt,name=transaction,proto3" json:"transaction,omitempty"`
}
