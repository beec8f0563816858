package core

import "math"

// FungibleAssetDelta is a signed balance change for one faucet's fungible
// asset, produced when diffing an account vault across a transaction.
type FungibleAssetDelta struct {
	FaucetID AccountID `cbor:"1,keyasint"`
	Amount   int64     `cbor:"2,keyasint"`
}

// Merge combines two deltas of the same faucet.
func (d FungibleAssetDelta) Merge(other FungibleAssetDelta) (FungibleAssetDelta, error) {
	if d.FaucetID != other.FaucetID {
		return FungibleAssetDelta{}, InconsistentDeltaFaucetError{This: d.FaucetID, Other: other.FaucetID}
	}
	if (other.Amount > 0 && d.Amount > math.MaxInt64-other.Amount) ||
		(other.Amount < 0 && d.Amount < math.MinInt64-other.Amount) {
		return FungibleAssetDelta{}, FungibleDeltaOverflowError{
			FaucetID: d.FaucetID,
			This:     d.Amount,
			Other:    other.Amount,
		}
	}
	return FungibleAssetDelta{FaucetID: d.FaucetID, Amount: d.Amount + other.Amount}, nil
}
