package core

import (
	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
)

// MaxFungibleAmount is the largest representable fungible amount.
const MaxFungibleAmount = uint64(1)<<63 - 1

// Asset is a single word. Fungible assets encode as [amount, 0, 0, faucetID];
// non-fungible assets are the digest of their data with the faucet ID in
// element 1. Element 3 therefore always identifies the issuing faucet of a
// fungible asset, and element 1 of a non-fungible one.
type Asset felt.Word

const (
	fungibleFaucetIDElement    = 3
	nonFungibleFaucetIDElement = 1
)

// NewFungibleAsset builds a fungible asset word.
func NewFungibleAsset(faucetID AccountID, amount uint64) (Asset, error) {
	if faucetID.Type() != FungibleFaucet {
		return Asset{}, NotAFungibleFaucetIDError{ID: faucetID}
	}
	if amount > MaxFungibleAmount {
		return Asset{}, AmountTooBigError{Amount: amount}
	}
	return Asset{felt.FromUint64(amount), felt.Zero, felt.Zero, faucetID.Felt()}, nil
}

// NewNonFungibleAsset builds a non-fungible asset word from the issuing
// faucet and the asset's data.
func NewNonFungibleAsset(faucetID AccountID, data []felt.Felt) (Asset, error) {
	if faucetID.Type() != NonFungibleFaucet {
		return Asset{}, NotANonFungibleFaucetIDError{ID: faucetID}
	}
	digest := crypto.HashElements(data)
	digest[nonFungibleFaucetIDElement] = faucetID.Felt()
	return Asset(digest), nil
}

// IsFungible reports whether the word encodes a fungible asset. Element 1 is
// zero for fungible assets and the issuing faucet ID for non-fungible ones,
// so the asset kind is readable from the word alone; element 3 of a
// non-fungible asset is digest output and carries no type information.
func (a *Asset) IsFungible() bool {
	id := AccountID(a[nonFungibleFaucetIDElement].Uint64())
	return id.Type() != NonFungibleFaucet
}

// FaucetID returns the issuing faucet of the asset.
func (a *Asset) FaucetID() AccountID {
	if a.IsFungible() {
		return AccountID(a[fungibleFaucetIDElement].Uint64())
	}
	return AccountID(a[nonFungibleFaucetIDElement].Uint64())
}

// Amount returns the amount of a fungible asset.
func (a *Asset) Amount() uint64 {
	return a[0].Uint64()
}

// Word returns the wire/memory form of the asset.
func (a Asset) Word() felt.Word {
	return felt.Word(a)
}

// AssetFromWord validates that the word encodes an asset: the faucet ID
// element must name a faucet of the matching kind.
func AssetFromWord(w felt.Word) (Asset, error) {
	a := Asset(w)
	if fungible := AccountID(w[fungibleFaucetIDElement].Uint64()); fungible.Type() == FungibleFaucet {
		if !w[1].IsZero() || !w[2].IsZero() || !w[0].IsUint64() || w[0].Uint64() > MaxFungibleAmount {
			return Asset{}, NotAnAssetError{Value: w}
		}
		return a, nil
	}
	if nonFungible := AccountID(w[nonFungibleFaucetIDElement].Uint64()); nonFungible.Type() == NonFungibleFaucet {
		return a, nil
	}
	return Asset{}, NotAnAssetError{Value: w}
}

// validateAssets enforces the per-collection duplicate rules: at most one
// fungible asset per faucet and no repeated non-fungible words.
func validateAssets(assets []Asset) error {
	fungible := make(map[AccountID]struct{}, len(assets))
	nonFungible := make(map[Asset]struct{}, len(assets))
	for i := range assets {
		if assets[i].IsFungible() {
			id := assets[i].FaucetID()
			if _, ok := fungible[id]; ok {
				return DuplicateFungibleAssetError{FaucetID: id}
			}
			fungible[id] = struct{}{}
			continue
		}
		if _, ok := nonFungible[assets[i]]; ok {
			return DuplicateNonFungibleAssetError{Asset: assets[i]}
		}
		nonFungible[assets[i]] = struct{}{}
	}
	return nil
}

// assetElements flattens assets into hash form, one word per asset.
func assetElements(assets []Asset) []felt.Felt {
	elems := make([]felt.Felt, 0, felt.WordLen*len(assets))
	for i := range assets {
		elems = append(elems, assets[i][:]...)
	}
	return elems
}
