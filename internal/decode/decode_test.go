package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethetl/ethetl/internal/ethrpc"
)

const (
	addrA     = "0x111111111111111111111111111111111111aaaa"
	addrB     = "0x222222222222222222222222222222222222bbbb"
	addrOp    = "0x333333333333333333333333333333333333cccc"
	tokenAddr = "0x4444444444444444444444444444444444444444"
	txHash    = "0x5555555555555555555555555555555555555555555555555555555555555555"
)

func newLog(topics []string, data string) ethrpc.Log {
	return ethrpc.Log{
		LogIndex:        7,
		TransactionHash: txHash,
		BlockNumber:     15000000,
		Address:         tokenAddr,
		Data:            data,
		Topics:          topics,
	}
}

func TestDecodeErc20Transfer(t *testing.T) {
	log := newLog(
		[]string{SigTransfer, addrA, addrB},
		"0x000000000000000000000000000000000000000000000017112108b7e7f1ba68",
	)

	result := Decode(log)
	require.Len(t, result.Transfers, 1)
	require.Nil(t, result.Ens)
	require.False(t, result.Skipped)

	tr := result.Transfers[0]
	assert.Equal(t, ERC20, tr.ERC)
	assert.Equal(t, addrA, tr.From)
	assert.Equal(t, addrB, tr.To)
	assert.Equal(t, "425509391054159329896", tr.Value)
	assert.Equal(t, "", tr.TokenID)
	assert.Equal(t, tokenAddr, tr.TokenAddress)
	assert.Equal(t, txHash, tr.TransactionHash)
	assert.Equal(t, uint64(7), tr.LogIndex)
	assert.Equal(t, uint64(15000000), tr.BlockNumber)
}

func TestDecodeErc721Transfer(t *testing.T) {
	tokenID := "0x00000000000000000000000000000000000000000000000000000000000004d2"
	log := newLog([]string{SigTransfer, addrA, addrB, tokenID}, "0x")

	result := Decode(log)
	require.Len(t, result.Transfers, 1)

	tr := result.Transfers[0]
	assert.Equal(t, ERC721, tr.ERC)
	assert.Equal(t, addrA, tr.From)
	assert.Equal(t, addrB, tr.To)
	assert.Equal(t, tokenID, tr.TokenID)
	assert.Equal(t, "0", tr.Value)
}

func TestDecodeErc20TransferShortDataSkipped(t *testing.T) {
	log := newLog([]string{SigTransfer, addrA, addrB}, "0x1234")

	result := Decode(log)
	assert.Empty(t, result.Transfers)
	assert.True(t, result.Skipped)
}

func TestDecodeTransferSingle(t *testing.T) {
	data := "0x000000000000000000000000000000000000000000000000000000000007a9fe" +
		"0000000000000000000000000000000000000000000000000000000000000005"
	log := newLog([]string{SigTransferSingle, addrOp, addrA, addrB}, data)

	result := Decode(log)
	require.Len(t, result.Transfers, 1)

	tr := result.Transfers[0]
	assert.Equal(t, ERC1155, tr.ERC)
	assert.Equal(t, addrA, tr.From)
	assert.Equal(t, addrB, tr.To)
	assert.Equal(t, "502270", tr.TokenID)
	assert.Equal(t, "5", tr.Value)
}

func TestDecodeTransferSingleMalformedDataStillEmits(t *testing.T) {
	// Fewer than two decodable uints: both id and value fall back to zero, and
	// the record is still emitted.
	log := newLog([]string{SigTransferSingle, addrOp, addrA, addrB}, "0xdead")

	result := Decode(log)
	require.Len(t, result.Transfers, 1)
	assert.False(t, result.Skipped)

	tr := result.Transfers[0]
	assert.Equal(t, ERC1155, tr.ERC)
	assert.Equal(t, "0", tr.TokenID)
	assert.Equal(t, "0", tr.Value)
}

func TestDecodeTransferBatch(t *testing.T) {
	data := "0x0000000000000000000000000000000000000000000000000000000000000040" +
		"00000000000000000000000000000000000000000000000000000000000000a0" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"0000000000000000000000000000000000000000000000000007a9fe06009000" +
		"0000000000000000000000000000000000000000000000000007a9fe06009001" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"0000000000000000000000000000000000000000000000000000000000000001" +
		"0000000000000000000000000000000000000000000000000000000000000001"
	log := newLog([]string{SigTransferBatch, addrOp, addrA, addrB}, data)

	result := Decode(log)
	require.Len(t, result.Transfers, 2)

	assert.Equal(t, "2157233324462080", result.Transfers[0].TokenID)
	assert.Equal(t, "1", result.Transfers[0].Value)
	assert.Equal(t, "2157233324462081", result.Transfers[1].TokenID)
	assert.Equal(t, "1", result.Transfers[1].Value)
	for _, tr := range result.Transfers {
		assert.Equal(t, ERC1155, tr.ERC)
		assert.Equal(t, addrA, tr.From)
		assert.Equal(t, addrB, tr.To)
	}
}

func TestDecodeTransferBatchMalformedSkipped(t *testing.T) {
	log := newLog([]string{SigTransferBatch, addrOp, addrA, addrB}, "0xbeef")

	result := Decode(log)
	assert.Empty(t, result.Transfers)
	assert.True(t, result.Skipped)
}

func TestDecodeNameRegistered(t *testing.T) {
	label := "0x92229ee98cbecee65e5e32e10b0a19bd2e5febf191d4ab83e0a35dae1e76d22b"
	data := "0x0000000000000000000000000000000000000000000000000000000000000060" +
		"00000000000000000000000000000000000000000000000000033afeca7f3dc5" +
		"00000000000000000000000000000000000000000000000000000000638714c8" +
		"0000000000000000000000000000000000000000000000000000000000000008" +
		"3030303030323334000000000000000000000000000000000000000000000000"
	log := newLog([]string{SigNameRegistered, label, addrA}, data)

	result := Decode(log)
	require.NotNil(t, result.Ens)
	assert.Empty(t, result.Transfers)

	e := result.Ens
	assert.Equal(t, "00000234", e.Name)
	assert.Equal(t, "909290923572677", e.Cost.String())
	assert.Equal(t, uint64(1669797064), e.Expires)
	assert.Equal(t, addrA, e.Owner)
	assert.Equal(t, txHash, e.TransactionHash)
}

func TestDecodeNameRegisteredMalformedSkipped(t *testing.T) {
	log := newLog([]string{SigNameRegistered, "0x1", addrA}, "0x00")

	result := Decode(log)
	assert.Nil(t, result.Ens)
	assert.True(t, result.Skipped)
}

func TestDecodeUnrecognizedTopicNoEmission(t *testing.T) {
	log := newLog([]string{"0x0000000000000000000000000000000000000000000000000000000000000001", addrA, addrB}, "0x00")

	result := Decode(log)
	assert.Empty(t, result.Transfers)
	assert.Nil(t, result.Ens)
	assert.False(t, result.Skipped)
}

func TestDecodeNoTopics(t *testing.T) {
	result := Decode(newLog(nil, "0x00"))
	assert.Empty(t, result.Transfers)
	assert.Nil(t, result.Ens)
	assert.False(t, result.Skipped)
}
