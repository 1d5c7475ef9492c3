package ledgerlib

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
)

// HashSize is the size in bytes of every fixed-size identifier of the ledger
// (addresses, asset ids and transaction ids).
const HashSize = 32

// Address identifies a ledger account.
type Address [HashSize]byte

// AssetID identifies a fungible asset type.
type AssetID [HashSize]byte

// TxID is the hash of a transaction, excluding its witnesses.
type TxID [HashSize]byte

// BaseAssetID is the asset used by default to fund wallets and pay fees.
var BaseAssetID = AssetID{}

func (a Address) String() string { return encodeHash(a) }
func (a AssetID) String() string { return encodeHash(a) }
func (t TxID) String() string    { return encodeHash(t) }

func (a Address) IsZero() bool { return a == Address{} }

// AddressFromString parses the canonical 0x-prefixed hex encoding of an address.
func AddressFromString(s string) (Address, error) {
	var addr Address
	if err := decodeHash(s, addr[:]); err != nil {
		return Address{}, fmt.Errorf("invalid address: %s", err)
	}
	return addr, nil
}

// AssetIDFromString parses the canonical 0x-prefixed hex encoding of an asset id.
func AssetIDFromString(s string) (AssetID, error) {
	var id AssetID
	if err := decodeHash(s, id[:]); err != nil {
		return AssetID{}, fmt.Errorf("invalid asset id: %s", err)
	}
	return id, nil
}

// TxIDFromString parses the canonical 0x-prefixed hex encoding of a tx id.
func TxIDFromString(s string) (TxID, error) {
	var id TxID
	if err := decodeHash(s, id[:]); err != nil {
		return TxID{}, fmt.Errorf("invalid tx id: %s", err)
	}
	return id, nil
}

// AddressFromPubKey derives the address owned by the given public key, that is
// the sha256 of its compressed serialization.
func AddressFromPubKey(pubkey *btcec.PublicKey) Address {
	return sha256.Sum256(pubkey.SerializeCompressed())
}

func encodeHash[T ~[HashSize]byte](h T) string {
	return "0x" + hex.EncodeToString(h[:])
}

func decodeHash(s string, dst []byte) error {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != HashSize*2 {
		return fmt.Errorf("expected %d hex chars, got %d", HashSize*2, len(s))
	}
	buf, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("must be hex")
	}
	copy(dst, buf)
	return nil
}

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (a AssetID) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (t TxID) MarshalText() ([]byte, error)    { return []byte(t.String()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := AddressFromString(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (a *AssetID) UnmarshalText(text []byte) error {
	id, err := AssetIDFromString(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

func (t *TxID) UnmarshalText(text []byte) error {
	id, err := TxIDFromString(string(text))
	if err != nil {
		return err
	}
	*t = id
	return nil
}
