package units

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// WeiToEther converts a wei amount to ether without losing precision.
func WeiToEther(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -18)
}

// WeiToGwei converts a wei amount to gwei without losing precision.
func WeiToGwei(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -9)
}
