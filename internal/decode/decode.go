// Package decode implements the Event Decoder: pure, synchronous
// functions that interpret a Log's topics/data into ERC-20/721/1155 token
// transfers or ENS registrations. It never fails the pipeline — a log whose
// topics[0] is unrecognized yields no event, and a log whose payload fails to
// decode is reported back to the caller as skipped rather than as an error.
package decode

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ethetl/ethetl/internal/ethrpc"
)

// Canonical event signature hashes, matched case-insensitively
// against topics[0].
const (
	SigTransfer       = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	SigTransferSingle = "0xc3d58168c5ae7397731d063d5bbf3d657854427343f4c083240f7aacaa2d0f62"
	SigTransferBatch  = "0x4a39dc06d4c0dbc64b70af90fd698a233a518aa5d07e595d983b8c0526c8f7fb"
	SigNameRegistered = "0xca6abbe9d7f11422cb6ca7629fbf6fe9efb1c621f71ce8f02b9f2a230097404f"
)

// ERC standard tags for the token_transfers dataset.
const (
	ERC20   = "ERC20"
	ERC721  = "ERC721"
	ERC1155 = "ERC1155"
)

// TokenTransfer is one token movement derived from a Transfer-family log.
type TokenTransfer struct {
	TokenAddress    string
	From            string
	To              string
	TokenID         string
	Value           string
	ERC             string
	TransactionHash string
	LogIndex        uint64
	BlockNumber     uint64
}

// EnsRegistration is one ENS name registration derived from a NameRegistered log.
type EnsRegistration struct {
	Name            string
	Cost            *big.Int
	Expires         uint64
	Owner           string
	TransactionHash string
	BlockNumber     uint64
}

// Result is the outcome of decoding one Log: at most one of Transfers/Ens is
// populated (TransferBatch can yield several TokenTransfers from one log), and
// Skipped reports a recognized-but-undecodable payload as distinct from an unrecognized topics[0], which is
// silently not an event at all.
type Result struct {
	Transfers []TokenTransfer
	Ens       *EnsRegistration
	Skipped   bool
}

// Decode interprets one Log. It never returns an error:
// callers fold Skipped into the Progress Tracker's decode_skipped counter
// and move on to the next log.
func Decode(log ethrpc.Log) Result {
	if len(log.Topics) == 0 {
		return Result{}
	}

	switch sig := strings.ToLower(log.Topics[0]); sig {
	case SigTransfer:
		return decodeTransfer(log)
	case SigTransferSingle:
		return decodeTransferSingle(log)
	case SigTransferBatch:
		return decodeTransferBatch(log)
	case SigNameRegistered:
		return decodeNameRegistered(log)
	default:
		return Result{}
	}
}

// decodeTransfer handles the ambiguous ERC-20/721 Transfer signature,
// disambiguating purely by topic arity. A non-standard ERC-20 contract that
// emits a 4-topic Transfer is therefore recorded as ERC-721.
func decodeTransfer(log ethrpc.Log) Result {
	switch len(log.Topics) {
	case 3:
		value, ok := decodeUint256(log.Data)
		if !ok {
			return Result{Skipped: true}
		}
		return Result{Transfers: []TokenTransfer{{
			TokenAddress:    log.Address,
			From:            log.Topics[1],
			To:              log.Topics[2],
			TokenID:         "",
			Value:           value.String(),
			ERC:             ERC20,
			TransactionHash: log.TransactionHash,
			LogIndex:        log.LogIndex,
			BlockNumber:     log.BlockNumber,
		}}}
	case 4:
		return Result{Transfers: []TokenTransfer{{
			TokenAddress:    log.Address,
			From:            log.Topics[1],
			To:              log.Topics[2],
			TokenID:         log.Topics[3],
			Value:           "0",
			ERC:             ERC721,
			TransactionHash: log.TransactionHash,
			LogIndex:        log.LogIndex,
			BlockNumber:     log.BlockNumber,
		}}}
	default:
		return Result{Skipped: true}
	}
}

// decodeTransferSingle handles ERC-1155 TransferSingle. If decoding of data
// yields fewer than two uints, both id and value fall back to zero and the
// record is still emitted — unlike the ambiguous Transfer case, TransferSingle
// always emits exactly one record once the from/to topics are present.
func decodeTransferSingle(log ethrpc.Log) Result {
	if len(log.Topics) < 4 {
		return Result{Skipped: true}
	}
	id, value := big.NewInt(0), big.NewInt(0)
	if ids, values, ok := unpackSingle(log.Data); ok {
		id, value = ids, values
	}
	return Result{Transfers: []TokenTransfer{{
		TokenAddress:    log.Address,
		From:            log.Topics[2],
		To:              log.Topics[3],
		TokenID:         id.String(),
		Value:           value.String(),
		ERC:             ERC1155,
		TransactionHash: log.TransactionHash,
		LogIndex:        log.LogIndex,
		BlockNumber:     log.BlockNumber,
	}}}
}

// decodeTransferBatch handles ERC-1155 TransferBatch, emitting min(len(ids),
// len(values)) records pairwise. Nothing is emitted when the lengths disagree
// and either side is empty.
func decodeTransferBatch(log ethrpc.Log) Result {
	if len(log.Topics) < 4 {
		return Result{Skipped: true}
	}
	ids, values, ok := unpackBatch(log.Data)
	if !ok {
		return Result{Skipped: true}
	}
	if len(ids) != len(values) && (len(ids) == 0 || len(values) == 0) {
		return Result{Skipped: true}
	}

	n := len(ids)
	if len(values) < n {
		n = len(values)
	}
	transfers := make([]TokenTransfer, 0, n)
	for i := 0; i < n; i++ {
		transfers = append(transfers, TokenTransfer{
			TokenAddress:    log.Address,
			From:            log.Topics[2],
			To:              log.Topics[3],
			TokenID:         ids[i].String(),
			Value:           values[i].String(),
			ERC:             ERC1155,
			TransactionHash: log.TransactionHash,
			LogIndex:        log.LogIndex,
			BlockNumber:     log.BlockNumber,
		})
	}
	return Result{Transfers: transfers}
}

// decodeNameRegistered decodes ENS's NameRegistered(string name, uint256 cost,
// uint256 expires); owner = topics[2]. Emitted only if all three
// data fields decode.
func decodeNameRegistered(log ethrpc.Log) Result {
	if len(log.Topics) < 3 {
		return Result{Skipped: true}
	}
	name, cost, expires, ok := unpackNameRegistered(log.Data)
	if !ok {
		return Result{Skipped: true}
	}
	return Result{Ens: &EnsRegistration{
		Name:            name,
		Cost:            cost,
		Expires:         expires.Uint64(),
		Owner:           log.Topics[2],
		TransactionHash: log.TransactionHash,
		BlockNumber:     log.BlockNumber,
	}}
}

var (
	uint256Type, _    = abi.NewType("uint256", "", nil)
	uint256ArrType, _ = abi.NewType("uint256[]", "", nil)
	stringType, _     = abi.NewType("string", "", nil)

	singleArgs = abi.Arguments{{Type: uint256Type}, {Type: uint256Type}}
	batchArgs  = abi.Arguments{{Type: uint256ArrType}, {Type: uint256ArrType}}
	ensArgs    = abi.Arguments{{Type: stringType}, {Type: uint256Type}, {Type: uint256Type}}
)

func decodeUint256(hexData string) (*big.Int, bool) {
	data := common.FromHex(hexData)
	if len(data) < 32 {
		return nil, false
	}
	return new(big.Int).SetBytes(data[:32]), true
}

func unpackSingle(hexData string) (id, value *big.Int, ok bool) {
	vals, err := singleArgs.Unpack(common.FromHex(hexData))
	if err != nil || len(vals) != 2 {
		return nil, nil, false
	}
	id, ok1 := vals[0].(*big.Int)
	value, ok2 := vals[1].(*big.Int)
	if !ok1 || !ok2 {
		return nil, nil, false
	}
	return id, value, true
}

func unpackBatch(hexData string) (ids, values []*big.Int, ok bool) {
	vals, err := batchArgs.Unpack(common.FromHex(hexData))
	if err != nil || len(vals) != 2 {
		return nil, nil, false
	}
	ids, ok1 := vals[0].([]*big.Int)
	values, ok2 := vals[1].([]*big.Int)
	if !ok1 || !ok2 {
		return nil, nil, false
	}
	return ids, values, true
}

func unpackNameRegistered(hexData string) (name string, cost, expires *big.Int, ok bool) {
	vals, err := ensArgs.Unpack(common.FromHex(hexData))
	if err != nil || len(vals) != 3 {
		return "", nil, nil, false
	}
	name, ok1 := vals[0].(string)
	cost, ok2 := vals[1].(*big.Int)
	expires, ok3 := vals[2].(*big.Int)
	if !ok1 || !ok2 || !ok3 {
		return "", nil, nil, false
	}
	return name, cost, expires, true
}
