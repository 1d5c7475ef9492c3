package ledgerlib

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

const (
	pubkeySize    = 33
	signatureSize = schnorr.SignatureSize
	// WitnessSize is the size of a witness produced by SignWitness.
	WitnessSize = pubkeySize + signatureSize
)

// SignWitness signs the given tx id and returns the witness authorizing the
// spend of coins owned by the key's address.
func SignWitness(key *btcec.PrivateKey, txid TxID) (Witness, error) {
	sig, err := schnorr.Sign(key, txid[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign tx %s: %s", txid, err)
	}
	witness := make(Witness, 0, WitnessSize)
	witness = append(witness, key.PubKey().SerializeCompressed()...)
	witness = append(witness, sig.Serialize()...)
	return witness, nil
}

// VerifyWitness checks the witness signature against the tx id and returns the
// address of the signer.
func VerifyWitness(witness Witness, txid TxID) (Address, error) {
	if len(witness) != WitnessSize {
		return Address{}, fmt.Errorf(
			"invalid witness size, expected %d bytes, got %d", WitnessSize, len(witness),
		)
	}
	pubkey, err := btcec.ParsePubKey(witness[:pubkeySize])
	if err != nil {
		return Address{}, fmt.Errorf("invalid witness pubkey: %s", err)
	}
	sig, err := schnorr.ParseSignature(witness[pubkeySize:])
	if err != nil {
		return Address{}, fmt.Errorf("invalid witness signature: %s", err)
	}
	if !sig.Verify(txid[:], pubkey) {
		return Address{}, fmt.Errorf("witness signature does not match tx %s", txid)
	}
	return AddressFromPubKey(pubkey), nil
}
