package units

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeiToEther(t *testing.T) {
	wei, _ := new(big.Int).SetString("1000000000000000000", 10)
	require.Equal(t, "1", WeiToEther(wei).String())

	wei, _ = new(big.Int).SetString("1500000000000000000", 10)
	require.Equal(t, "1.5", WeiToEther(wei).String())

	// 21000 gas at 19.25 mwei fee cap, the kind of total the miner reports.
	require.Equal(t, "0.00000040425", WeiToEther(big.NewInt(404_250_000_000)).String())
}

func TestWeiToGwei(t *testing.T) {
	require.Equal(t, "1.5", WeiToGwei(big.NewInt(1_500_000_000)).String())
	require.Equal(t, "0.018", WeiToGwei(big.NewInt(18_000_000)).String())
	require.Equal(t, "0", WeiToGwei(new(big.Int)).String())
}
