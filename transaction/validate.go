package transaction

import (
	"github.com/veloxlabs/velox/core"
	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
)

// Validate authenticates a transaction's inputs before any memory is
// written. Checks run in a fixed order and short-circuit on the first
// failure; a failed validation means no partial image ever existed.
func Validate(inputs *TransactionInputs) error {
	if err := validateInputNotes(inputs); err != nil {
		return err
	}
	if err := validateChainConsistency(inputs); err != nil {
		return err
	}
	if err := validateAccountSeed(inputs); err != nil {
		return err
	}
	return inputs.Account.Validate()
}

func validateInputNotes(inputs *TransactionInputs) error {
	if len(inputs.InputNotes) > MaxInputNotesPerTx {
		return core.TooManyInputNotesError{Max: MaxInputNotesPerTx, Actual: len(inputs.InputNotes)}
	}
	seen := make(map[core.NoteID]struct{}, len(inputs.InputNotes))
	for i := range inputs.InputNotes {
		id := inputs.InputNotes[i].Note.ID()
		if _, ok := seen[id]; ok {
			return core.DuplicateInputNoteError{NoteID: id}
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateChainConsistency(inputs *TransactionInputs) error {
	header := &inputs.BlockHeader

	if chainLength := inputs.Chain.ChainLength(); chainLength != header.Number {
		return core.InconsistentChainLengthError{Expected: header.Number, Actual: chainLength}
	}
	if peaksCommitment := inputs.Chain.PeaksCommitment(); !peaksCommitment.Equal(&header.ChainRoot) {
		return core.InconsistentChainRootError{Expected: header.ChainRoot, Actual: peaksCommitment}
	}

	for i := range inputs.InputNotes {
		origin := inputs.InputNotes[i].BlockNum
		if origin == header.Number {
			continue
		}
		if !inputs.Chain.HasBlock(origin) {
			return core.InputNoteBlockNotInChainMmrError{NoteID: inputs.InputNotes[i].Note.ID()}
		}
	}
	return nil
}

func validateAccountSeed(inputs *TransactionInputs) error {
	account := &inputs.Account

	if !account.IsNew() {
		if inputs.AccountSeed != nil {
			return core.ErrAccountSeedProvidedForExistingAccount
		}
		return nil
	}
	if inputs.AccountSeed == nil {
		return core.ErrAccountSeedNotProvidedForNewAccount
	}

	expectedID, err := core.AccountIDFromSeed(*inputs.AccountSeed,
		account.Code.Commitment(), account.Storage.Commitment())
	if err != nil {
		return core.InvalidAccountSeedError{Err: err}
	}
	if expectedID != account.ID {
		return core.InconsistentAccountSeedError{Expected: expectedID, Actual: account.ID}
	}

	return validateFaucetReservedSlot(account)
}

// validateFaucetReservedSlot pins slot 0 of a freshly created faucet so that
// later issuance logic always finds it well formed: empty for fungible
// faucets, the canonical empty-SMT root for non-fungible ones.
func validateFaucetReservedSlot(account *core.Account) error {
	switch account.ID.Type() {
	case core.FungibleFaucet:
		slot0 := reservedSlotValue(account)
		if !slot0.IsZero() {
			return core.ErrNewFungibleFaucetReservedSlotNotEmpty
		}
	case core.NonFungibleFaucet:
		slot0 := reservedSlotValue(account)
		emptyRoot := crypto.EmptySubtreeRoot(crypto.SmtDepth)
		if !slot0.Equal(&emptyRoot) {
			return core.ErrNewNonFungibleFaucetReservedSlotInvalid
		}
	default:
	}
	return nil
}

func reservedSlotValue(account *core.Account) felt.Word {
	if len(account.Storage.Slots) == 0 {
		return felt.ZeroWord
	}
	return account.Storage.Slots[0].Value
}
