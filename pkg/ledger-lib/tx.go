package ledgerlib

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

const (
	defaultGasPrice  = 1
	defaultGasLimit  = 1_000_000
	defaultBytePrice = 1
)

type TxParameters struct {
	GasPrice  uint64
	GasLimit  uint64
	BytePrice uint64
	Maturity  uint32
}

// DefaultTxParameters returns the parameters used when the caller has no
// preference on fees.
func DefaultTxParameters() TxParameters {
	return TxParameters{
		GasPrice:  defaultGasPrice,
		GasLimit:  defaultGasLimit,
		BytePrice: defaultBytePrice,
	}
}

// Input spends a coin. WitnessIndex points to the witness authorizing the spend.
type Input struct {
	UtxoID       UtxoID
	Owner        Address
	Amount       uint64
	AssetID      AssetID
	WitnessIndex uint8
	Maturity     uint32
}

// InputFromCoin builds the input spending the given coin.
func InputFromCoin(coin Coin, witnessIndex uint8) Input {
	return Input{
		UtxoID:       coin.UtxoID,
		Owner:        coin.Owner,
		Amount:       coin.Amount,
		AssetID:      coin.AssetID,
		WitnessIndex: witnessIndex,
		Maturity:     coin.Maturity,
	}
}

type OutputType uint8

const (
	OutputCoin OutputType = iota
	// OutputChange receives whatever is left of its asset once all the other
	// outputs are paid. Its amount is set by the node.
	OutputChange
)

func (t OutputType) String() string {
	switch t {
	case OutputCoin:
		return "coin"
	case OutputChange:
		return "change"
	default:
		return "unknown"
	}
}

type Output struct {
	Type    OutputType
	To      Address
	Amount  uint64
	AssetID AssetID
}

type Witness []byte

// Transaction is a script transaction. Value transfers use NoopScript and rely
// only on inputs and outputs.
type Transaction struct {
	TxParameters
	ReceiptsRoot [HashSize]byte
	Script       []byte
	ScriptData   []byte
	Inputs       []Input
	Outputs      []Output
	Witnesses    []Witness
}

// ID returns the hash of the transaction. Witnesses and receipts root are not
// committed, so that signing a transaction does not change its id.
func (tx *Transaction) ID() TxID {
	return sha256.Sum256(tx.serializeForID())
}

// Validate performs the context-free checks every transaction must satisfy.
func (tx *Transaction) Validate() error {
	if len(tx.Inputs) == 0 {
		return fmt.Errorf("missing inputs")
	}
	if len(tx.Inputs) > 255 || len(tx.Outputs) > 255 {
		return fmt.Errorf("too many inputs or outputs")
	}
	seen := make(map[UtxoID]struct{}, len(tx.Inputs))
	for i, in := range tx.Inputs {
		if _, ok := seen[in.UtxoID]; ok {
			return fmt.Errorf("input %d: duplicated utxo %s", i, in.UtxoID)
		}
		seen[in.UtxoID] = struct{}{}
	}
	changes := make(map[AssetID]struct{})
	for i, out := range tx.Outputs {
		switch out.Type {
		case OutputCoin:
			if out.Amount == 0 {
				return fmt.Errorf("output %d: amount must be greater than zero", i)
			}
		case OutputChange:
			if _, ok := changes[out.AssetID]; ok {
				return fmt.Errorf("output %d: duplicated change output for asset %s", i, out.AssetID)
			}
			changes[out.AssetID] = struct{}{}
		default:
			return fmt.Errorf("output %d: unknown type %d", i, out.Type)
		}
	}
	return nil
}

func (tx *Transaction) serializeForID() []byte {
	var buf bytes.Buffer
	w := func(v any) {
		// bytes.Buffer never fails to write
		_ = binary.Write(&buf, binary.BigEndian, v)
	}

	w(tx.GasPrice)
	w(tx.GasLimit)
	w(tx.BytePrice)
	w(tx.Maturity)
	w(uint32(len(tx.Script)))
	buf.Write(tx.Script)
	w(uint32(len(tx.ScriptData)))
	buf.Write(tx.ScriptData)

	w(uint8(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf.Write(in.UtxoID.TxID[:])
		w(in.UtxoID.OutputIndex)
		buf.Write(in.Owner[:])
		w(in.Amount)
		buf.Write(in.AssetID[:])
		w(in.WitnessIndex)
		w(in.Maturity)
	}

	w(uint8(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		w(uint8(out.Type))
		buf.Write(out.To[:])
		w(out.Amount)
		buf.Write(out.AssetID[:])
	}
	return buf.Bytes()
}
