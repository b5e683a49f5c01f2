package netparams

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// verify that the testnet4 params are correct (genesis block)
// https://mempool.space/testnet4/block/00000000da84f2bafbbc53dee25a72ae507ff4914b867c565be350b0da8bf043
func TestTestNet4Genesis(t *testing.T) {
	require.Equal(t, "00000000da84f2bafbbc53dee25a72ae507ff4914b867c565be350b0da8bf043",
		testNet4GenesisBlock.BlockHash().String())
	require.Equal(t, "7aa0a7ae1e223414cb807e40cd57e667b718e42aaf9306db9102fe28912b7b4e",
		testNet4GenesisBlock.Header.MerkleRoot.String())
	require.Equal(t, *TestNet4ChainParams.GenesisHash,
		testNet4GenesisBlock.BlockHash())
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"mainnet", "testnet3", "testnet4", "signet", "regtest",
	} {
		params, err := ByName(name)
		require.NoError(t, err, name)
		require.Equal(t, name, params.Name)
		require.NotEmpty(t, params.RPCServerPort)
	}

	_, err := ByName("simnet")
	require.Error(t, err)
}
