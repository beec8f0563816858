package core

import (
	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
)

// AssetVault is the owner-side view of an account's assets. The prologue
// consumes only its commitment (Account.VaultRoot); the full list lives with
// whoever assembles transactions for the account.
type AssetVault struct {
	Assets []Asset `cbor:"1,keyasint"`
}

// Commitment returns the digest of the vault contents, the value committed
// as the account's vault root.
func (v *AssetVault) Commitment() felt.Word {
	return crypto.HashElements(assetElements(v.Assets))
}

// Add deposits an asset. Fungible deposits of an already-held faucet merge
// into one balance; duplicate non-fungible assets are rejected.
func (v *AssetVault) Add(asset Asset) error {
	if asset.IsFungible() {
		return v.addFungible(asset)
	}
	for i := range v.Assets {
		if v.Assets[i] == asset {
			return DuplicateNonFungibleAssetError{Asset: asset}
		}
	}
	v.Assets = append(v.Assets, asset)
	return nil
}

func (v *AssetVault) addFungible(asset Asset) error {
	faucetID := asset.FaucetID()
	for i := range v.Assets {
		if !v.Assets[i].IsFungible() || v.Assets[i].FaucetID() != faucetID {
			continue
		}
		sum := v.Assets[i].Amount() + asset.Amount()
		if sum > MaxFungibleAmount {
			return AmountTooBigError{Amount: sum}
		}
		v.Assets[i][0] = felt.FromUint64(sum)
		return nil
	}
	v.Assets = append(v.Assets, asset)
	return nil
}

// Remove withdraws an asset. For fungible assets the held balance must cover
// the requested amount; non-fungible assets must match exactly.
func (v *AssetVault) Remove(asset Asset) error {
	if asset.IsFungible() {
		return v.removeFungible(asset)
	}
	for i := range v.Assets {
		if v.Assets[i] == asset {
			v.Assets = append(v.Assets[:i], v.Assets[i+1:]...)
			return nil
		}
	}
	return NonFungibleAssetNotFoundError{Asset: asset}
}

func (v *AssetVault) removeFungible(asset Asset) error {
	faucetID := asset.FaucetID()
	for i := range v.Assets {
		if !v.Assets[i].IsFungible() || v.Assets[i].FaucetID() != faucetID {
			continue
		}
		held, requested := v.Assets[i].Amount(), asset.Amount()
		if held < requested {
			return AssetAmountNotSufficientError{Available: held, Requested: requested}
		}
		if held == requested {
			v.Assets = append(v.Assets[:i], v.Assets[i+1:]...)
			return nil
		}
		v.Assets[i][0] = felt.FromUint64(held - requested)
		return nil
	}
	return FungibleAssetNotFoundError{FaucetID: faucetID}
}
