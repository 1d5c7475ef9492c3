package errors

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	grpccodes "google.golang.org/grpc/codes"
)

// Code is the type representing a namespace error code.
type Code[MT any] struct {
	Code     uint16
	Name     string
	GrpcCode grpccodes.Code
}

// New creates a new error with the given code and the message
func (c Code[MT]) New(msg string, args ...any) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: fmt.Errorf(msg, args...),
	}
}

// Wrap creates a new Error with the given code and the cause error
func (c Code[MT]) Wrap(cause error) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: cause,
	}
}

func (c Code[MT]) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Code)
}

type Error interface {
	error
	Log() *log.Entry
	Code() uint16
	CodeName() string
	GrpcCode() grpccodes.Code
	Metadata() map[string]string
}

type TypedError[MT any] interface {
	Error
	WithMetadata(MT) TypedError[MT]
}

// ErrorImpl is the default concrete implementation of TypedError.
type ErrorImpl[MT any] struct {
	code     Code[MT]
	cause    error
	metadata MT
}

func (e *ErrorImpl[MT]) Log() *log.Entry {
	return log.WithFields(log.Fields{
		"name":     e.code.Name,
		"code":     e.code.Code,
		"metadata": e.Metadata(),
	})
}

// Metadata returns the metadata of the error as a flat string map, using the
// json names of its fields as keys.
func (e *ErrorImpl[MT]) Metadata() map[string]string {
	flat := make(map[string]string)
	buf, err := json.Marshal(e.metadata)
	if err != nil {
		return flat
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(buf, &fields); err != nil {
		return flat
	}
	for key, raw := range fields {
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			flat[key] = str
			continue
		}
		if string(raw) != "null" {
			flat[key] = string(raw)
		}
	}
	return flat
}

func (e *ErrorImpl[MT]) GrpcCode() grpccodes.Code {
	return e.code.GrpcCode
}

func (e *ErrorImpl[MT]) Code() uint16 {
	return e.code.Code
}

func (e *ErrorImpl[MT]) CodeName() string {
	return e.code.Name
}

// Error() implements the error interface.
func (e *ErrorImpl[MT]) Error() string {
	return fmt.Sprintf("%s: %s", e.code.String(), e.cause.Error())
}

func (e *ErrorImpl[MT]) Unwrap() error {
	return e.cause
}

func (e *ErrorImpl[MT]) WithMetadata(metadata MT) TypedError[MT] {
	e.metadata = metadata
	return e
}

// Is reports whether err is a structured error with the given code.
func Is[MT any](err error, code Code[MT]) bool {
	for err != nil {
		if e, ok := err.(Error); ok && e.Code() == code.Code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

type AddressMetadata struct {
	Address string `json:"address"`
}

type AssetMetadata struct {
	AssetID string `json:"asset_id"`
}

type TxMetadata struct {
	Txid string `json:"txid"`
}

type InputMetadata struct {
	Txid       string `json:"txid"`
	InputIndex int    `json:"input_index"`
}

type CoinMetadata struct {
	UtxoID string `json:"utxo_id"`
}

type InsufficientFundsMetadata struct {
	AssetID   string `json:"asset_id"`
	Requested uint64 `json:"requested"`
	Available uint64 `json:"available"`
}

type MaxCoinsMetadata struct {
	AssetID  string `json:"asset_id"`
	MaxCoins uint64 `json:"max_coins"`
}

type CursorMetadata struct {
	Cursor string `json:"cursor"`
}

var (
	INTERNAL_ERROR   = Code[map[string]any]{0, "INTERNAL_ERROR", grpccodes.Internal}
	INVALID_ADDRESS  = Code[AddressMetadata]{1, "INVALID_ADDRESS", grpccodes.InvalidArgument}
	INVALID_ASSET_ID = Code[AssetMetadata]{2, "INVALID_ASSET_ID", grpccodes.InvalidArgument}
	INVALID_TX       = Code[TxMetadata]{3, "INVALID_TX", grpccodes.InvalidArgument}
	COIN_NOT_FOUND   = Code[CoinMetadata]{4, "COIN_NOT_FOUND", grpccodes.NotFound}
	COIN_ALREADY_SPENT = Code[CoinMetadata]{
		5, "COIN_ALREADY_SPENT", grpccodes.FailedPrecondition,
	}
	INSUFFICIENT_FUNDS = Code[InsufficientFundsMetadata]{
		6, "INSUFFICIENT_FUNDS", grpccodes.FailedPrecondition,
	}
	MAX_COINS_REACHED = Code[MaxCoinsMetadata]{
		7, "MAX_COINS_REACHED", grpccodes.FailedPrecondition,
	}
	TX_NOT_FOUND      = Code[TxMetadata]{8, "TX_NOT_FOUND", grpccodes.NotFound}
	TX_ALREADY_EXISTS = Code[TxMetadata]{9, "TX_ALREADY_EXISTS", grpccodes.AlreadyExists}
	INVALID_SIGNATURE = Code[InputMetadata]{10, "INVALID_SIGNATURE", grpccodes.InvalidArgument}
	INVALID_CURSOR    = Code[CursorMetadata]{11, "INVALID_CURSOR", grpccodes.InvalidArgument}
)
