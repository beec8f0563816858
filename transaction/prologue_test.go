package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxlabs/velox/core"
	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
	"github.com/veloxlabs/velox/core/mmr"
	"github.com/veloxlabs/velox/transaction"
	"github.com/veloxlabs/velox/utils"
)

const fungibleFaucetID = core.AccountID(2 << 62)

func fixtureCode() core.AccountCode {
	return core.AccountCode{Procedures: []core.AccountProcedureInfo{
		{MastRoot: felt.NewWordFromUint64(1, 1, 1, 1), StorageOffset: 0, StorageSize: 2},
		{MastRoot: felt.NewWordFromUint64(2, 2, 2, 2), StorageOffset: 0, StorageSize: 0},
	}}
}

func fixtureStorage(slot0 felt.Word) core.AccountStorage {
	return core.AccountStorage{Slots: []core.StorageSlot{
		{Type: core.StorageSlotValue, Value: slot0},
		{Type: core.StorageSlotMap, Value: felt.NewWordFromUint64(21, 22, 23, 24)},
	}}
}

func existingAccount() core.Account {
	return core.Account{
		ID:        core.AccountID(0x1122334455667788 &^ (uint64(0b111) << 61)),
		Nonce:     felt.FromUint64(1),
		VaultRoot: felt.NewWordFromUint64(31, 32, 33, 34),
		Storage:   fixtureStorage(felt.NewWordFromUint64(11, 12, 13, 14)),
		Code:      fixtureCode(),
	}
}

// newAccount grinds a seed against the account's actual commitments, so the
// derivation in seed validation reproduces the ID.
func newAccount(t *testing.T, typ core.AccountType, storage core.AccountStorage) (core.Account, *felt.Word) {
	t.Helper()

	code := fixtureCode()
	seed, id, err := core.GrindAccountSeed(felt.NewWordFromUint64(1, 0, 0, 0),
		typ, core.StoragePublic, code.Commitment(), storage.Commitment())
	require.NoError(t, err)

	return core.Account{
		ID:        id,
		Nonce:     felt.Zero,
		VaultRoot: felt.NewWordFromUint64(31, 32, 33, 34),
		Storage:   storage,
		Code:      code,
	}, &seed
}

// fixtureChain accumulates and tracks blocks 0 and 1, and returns the
// reference header of the block the transaction executes against.
func fixtureChain() (*mmr.Mmr, core.BlockHeader) {
	chain := mmr.New()

	b0 := &core.BlockHeader{Number: 0, Version: 1, Timestamp: 1700000000}
	chain.AddBlock(b0, true)

	b1 := &core.BlockHeader{
		PrevHash:  b0.Hash(),
		Number:    1,
		Version:   1,
		Timestamp: 1700000010,
	}
	chain.AddBlock(b1, true)

	header := core.BlockHeader{
		PrevHash:      b1.Hash(),
		ChainRoot:     chain.PeaksCommitment(),
		AccountRoot:   felt.NewWordFromUint64(41, 42, 43, 44),
		NullifierRoot: felt.NewWordFromUint64(51, 52, 53, 54),
		NoteRoot:      felt.NewWordFromUint64(61, 62, 63, 64),
		TxHash:        felt.NewWordFromUint64(71, 72, 73, 74),
		KernelRoot:    felt.NewWordFromUint64(81, 82, 83, 84),
		ProofHash:     felt.NewWordFromUint64(91, 92, 93, 94),
		Number:        2,
		Version:       1,
		Timestamp:     1700000020,
	}
	return chain, header
}

func fixtureNote(t *testing.T, variant uint64, origin uint32) transaction.InputNote {
	t.Helper()

	asset, err := core.NewFungibleAsset(fungibleFaucetID, 100+variant)
	require.NoError(t, err)

	metadata, err := core.NewNoteMetadata(core.AccountID(7), core.NoteTypePrivate,
		core.NoteTag(1<<31), felt.FromUint64(variant))
	require.NoError(t, err)

	note, err := core.NewNote(
		felt.NewWordFromUint64(variant, 2, 3, 4),
		[]felt.Felt{felt.FromUint64(10 + variant)},
		[]core.Asset{asset},
		felt.NewWordFromUint64(5, 6, 7, variant),
		metadata,
	)
	require.NoError(t, err)

	return transaction.InputNote{Note: note, BlockNum: origin}
}

func fixtureInputs(t *testing.T) *transaction.TransactionInputs {
	t.Helper()

	chain, header := fixtureChain()
	return &transaction.TransactionInputs{
		Account:     existingAccount(),
		BlockHeader: header,
		Chain:       chain,
		InputNotes: []transaction.InputNote{
			fixtureNote(t, 1, 0),
			fixtureNote(t, 2, 1),
		},
	}
}

func TestPrepare(t *testing.T) {
	inputs := fixtureInputs(t)
	l := transaction.LayoutV1

	scriptRoot := felt.NewWordFromUint64(95, 96, 97, 98)
	note0 := &inputs.InputNotes[0].Note
	args := &transaction.TransactionArgs{
		TxScriptRoot: &scriptRoot,
		NoteArgs: map[core.NoteID]felt.Word{
			note0.ID(): felt.NewWordFromUint64(91, 0, 0, 0),
		},
	}

	prologue := transaction.NewPrologue(l, utils.NewNopLogger())
	img, err := prologue.Prepare(inputs, args)
	require.NoError(t, err)

	header := &inputs.BlockHeader
	account := &inputs.Account

	t.Run("global inputs", func(t *testing.T) {
		assert.Equal(t, header.Hash(), img.Word(l.BlockHashPtr))
		assert.Equal(t, felt.Word{account.ID.Felt()}, img.Word(l.AcctIDPtr))
		assert.Equal(t, account.Hash(), img.Word(l.InitAcctHashPtr))
		assert.Equal(t, transaction.InputNotesCommitment(inputs.InputNotes),
			img.Word(l.InputNotesCommitmentPtr))
		assert.Equal(t, felt.Word{account.Nonce}, img.Word(l.InitNoncePtr))
		assert.Equal(t, scriptRoot, img.Word(l.TxScriptRootPtr))
	})

	t.Run("block data", func(t *testing.T) {
		assert.Equal(t, header.PrevHash, img.Word(l.PrevBlockHashPtr))
		assert.Equal(t, header.ChainRoot, img.Word(l.ChainRootPtr))
		assert.Equal(t, header.AccountRoot, img.Word(l.AcctDBRootPtr))
		assert.Equal(t, header.NullifierRoot, img.Word(l.NullifierDBRootPtr))
		assert.Equal(t, header.TxHash, img.Word(l.TxHashPtr))
		assert.Equal(t, header.KernelRoot, img.Word(l.KernelRootPtr))
		assert.Equal(t, header.ProofHash, img.Word(l.ProofHashPtr))
		assert.Equal(t, header.NoteRoot, img.Word(l.NoteRootPtr))

		assert.Equal(t, uint64(header.Number), img.Felt(l.BlockMetadataPtr, l.BlockNumberIdx).Uint64())
		assert.Equal(t, uint64(header.Version), img.Felt(l.BlockMetadataPtr, l.ProtocolVersionIdx).Uint64())
		assert.Equal(t, uint64(header.Timestamp), img.Felt(l.BlockMetadataPtr, l.TimestampIdx).Uint64())
	})

	t.Run("chain data includes the reference block", func(t *testing.T) {
		extended := inputs.Chain.Copy()
		extended.AddBlock(header, true)

		assert.Equal(t, uint64(3), img.Felt(l.ChainNumLeavesPtr, 0).Uint64())
		for i, peak := range extended.Peaks() {
			assert.Equal(t, peak, img.Word(l.ChainPeaksPtr+uint32(i)), "peak %d", i)
		}
		assert.Equal(t, uint32(2), inputs.Chain.ChainLength(), "shared chain state must stay intact")
	})

	t.Run("account data", func(t *testing.T) {
		assert.Equal(t, account.IDAndNonce(), img.Word(l.AcctIDAndNoncePtr))
		assert.Equal(t, account.VaultRoot, img.Word(l.AcctVaultRootPtr))
		assert.Equal(t, account.Storage.Commitment(), img.Word(l.AcctStorageCommitmentPtr))
		assert.Equal(t, account.Code.Commitment(), img.Word(l.AcctCodeCommitmentPtr))

		assert.Equal(t, uint64(2), img.Felt(l.NumStorageSlotsPtr, 0).Uint64())
		assert.Equal(t, account.Storage.Slots[0].Value, img.Word(l.StorageSlotsSectionPtr))
		assert.Equal(t, uint64(account.Storage.Slots[0].Type), img.Felt(l.StorageSlotsSectionPtr+1, 0).Uint64())
		assert.Equal(t, account.Storage.Slots[1].Value, img.Word(l.StorageSlotsSectionPtr+2))
		assert.Equal(t, uint64(account.Storage.Slots[1].Type), img.Felt(l.StorageSlotsSectionPtr+3, 0).Uint64())

		assert.Equal(t, uint64(2), img.Felt(l.NumProceduresPtr, 0).Uint64())
		assert.Equal(t, account.Code.Procedures[0].MastRoot, img.Word(l.ProceduresSectionPtr))
		assert.Equal(t, uint64(account.Code.Procedures[0].StorageSize), img.Felt(l.ProceduresSectionPtr+1, 1).Uint64())
		assert.Equal(t, account.Code.Procedures[1].MastRoot, img.Word(l.ProceduresSectionPtr+2))
	})

	t.Run("input notes", func(t *testing.T) {
		assert.Equal(t, uint64(2), img.Felt(l.InputNoteSectionPtr, 0).Uint64())
		assert.Equal(t, inputs.InputNotes[0].Note.Nullifier(), img.Word(l.InputNoteSectionPtr+1))
		assert.Equal(t, inputs.InputNotes[1].Note.Nullifier(), img.Word(l.InputNoteSectionPtr+2))

		for i := range inputs.InputNotes {
			note := &inputs.InputNotes[i].Note
			base := l.NoteDataPtr(uint32(i))

			assert.Equal(t, felt.Word(note.ID()), img.Word(base+l.NoteIDOffset), "note %d", i)
			assert.Equal(t, note.SerialNum, img.Word(base+l.NoteSerialNumOffset), "note %d", i)
			assert.Equal(t, note.ScriptRoot, img.Word(base+l.NoteScriptRootOffset), "note %d", i)
			assert.Equal(t, note.InputsCommitment(), img.Word(base+l.NoteInputsCommitmentOffset), "note %d", i)
			assert.Equal(t, note.AssetsCommitment(), img.Word(base+l.NoteAssetsCommitmentOffset), "note %d", i)
			assert.Equal(t, note.Metadata.Word(), img.Word(base+l.NoteMetadataOffset), "note %d", i)
			assert.Equal(t, uint64(1), img.Felt(base+l.NoteNumAssetsOffset, 0).Uint64(), "note %d", i)
			assert.Equal(t, note.Assets[0].Word(), img.Word(base+l.NoteAssetsOffset), "note %d", i)
		}

		assert.Equal(t, felt.NewWordFromUint64(91, 0, 0, 0),
			img.Word(l.NoteDataPtr(0)+l.NoteArgsOffset))
		assert.Equal(t, felt.ZeroWord,
			img.Word(l.NoteDataPtr(1)+l.NoteArgsOffset),
			"a note without args must read the zero word")
	})
}

func TestPrepareWithoutArgs(t *testing.T) {
	inputs := fixtureInputs(t)
	l := transaction.LayoutV1

	prologue := transaction.NewPrologue(l, utils.NewNopLogger())
	img, err := prologue.Prepare(inputs, nil)
	require.NoError(t, err)

	assert.Equal(t, felt.ZeroWord, img.Word(l.TxScriptRootPtr))
	assert.Equal(t, felt.ZeroWord, img.Word(l.NoteDataPtr(0)+l.NoteArgsOffset))
}

func TestValidateInputNotes(t *testing.T) {
	t.Run("too many notes", func(t *testing.T) {
		inputs := fixtureInputs(t)
		note := fixtureNote(t, 1, 0)
		inputs.InputNotes = make([]transaction.InputNote, transaction.MaxInputNotesPerTx+1)
		for i := range inputs.InputNotes {
			inputs.InputNotes[i] = note
		}

		var tooMany core.TooManyInputNotesError
		require.ErrorAs(t, transaction.Validate(inputs), &tooMany)
		assert.Equal(t, transaction.MaxInputNotesPerTx+1, tooMany.Actual)
	})

	t.Run("duplicate note", func(t *testing.T) {
		inputs := fixtureInputs(t)
		inputs.InputNotes = append(inputs.InputNotes, inputs.InputNotes[0])

		var duplicate core.DuplicateInputNoteError
		require.ErrorAs(t, transaction.Validate(inputs), &duplicate)
		assert.Equal(t, inputs.InputNotes[0].Note.ID(), duplicate.NoteID)
	})
}

func TestValidateChainConsistency(t *testing.T) {
	t.Run("chain length mismatch", func(t *testing.T) {
		inputs := fixtureInputs(t)
		inputs.BlockHeader.Number = 3

		var inconsistent core.InconsistentChainLengthError
		require.ErrorAs(t, transaction.Validate(inputs), &inconsistent)
		assert.Equal(t, uint32(3), inconsistent.Expected)
		assert.Equal(t, uint32(2), inconsistent.Actual)
	})

	t.Run("chain root mismatch", func(t *testing.T) {
		inputs := fixtureInputs(t)
		inputs.BlockHeader.ChainRoot = felt.NewWordFromUint64(1, 2, 3, 4)

		var inconsistent core.InconsistentChainRootError
		assert.ErrorAs(t, transaction.Validate(inputs), &inconsistent)
	})

	t.Run("untracked note origin", func(t *testing.T) {
		inputs := fixtureInputs(t)
		inputs.InputNotes[1].BlockNum = 5

		var untracked core.InputNoteBlockNotInChainMmrError
		require.ErrorAs(t, transaction.Validate(inputs), &untracked)
		assert.Equal(t, inputs.InputNotes[1].Note.ID(), untracked.NoteID)
	})

	t.Run("origin equal to the reference block", func(t *testing.T) {
		inputs := fixtureInputs(t)
		inputs.InputNotes[1].BlockNum = inputs.BlockHeader.Number
		assert.NoError(t, transaction.Validate(inputs))
	})
}

func TestValidateAccountSeed(t *testing.T) {
	t.Run("seed for existing account", func(t *testing.T) {
		inputs := fixtureInputs(t)
		inputs.AccountSeed = &felt.ZeroWord
		assert.ErrorIs(t, transaction.Validate(inputs), core.ErrAccountSeedProvidedForExistingAccount)
	})

	t.Run("missing seed for new account", func(t *testing.T) {
		inputs := fixtureInputs(t)
		account, _ := newAccount(t, core.RegularAccountUpdatableCode,
			fixtureStorage(felt.NewWordFromUint64(11, 12, 13, 14)))
		inputs.Account = account
		assert.ErrorIs(t, transaction.Validate(inputs), core.ErrAccountSeedNotProvidedForNewAccount)
	})

	t.Run("valid new account", func(t *testing.T) {
		inputs := fixtureInputs(t)
		account, seed := newAccount(t, core.RegularAccountUpdatableCode,
			fixtureStorage(felt.NewWordFromUint64(11, 12, 13, 14)))
		inputs.Account = account
		inputs.AccountSeed = seed
		assert.NoError(t, transaction.Validate(inputs))
	})

	t.Run("seed derives a different id", func(t *testing.T) {
		inputs := fixtureInputs(t)
		account, seed := newAccount(t, core.RegularAccountUpdatableCode,
			fixtureStorage(felt.NewWordFromUint64(11, 12, 13, 14)))
		derivedID := account.ID
		account.ID ^= 1
		inputs.Account = account
		inputs.AccountSeed = seed

		var inconsistent core.InconsistentAccountSeedError
		require.ErrorAs(t, transaction.Validate(inputs), &inconsistent)
		assert.Equal(t, derivedID, inconsistent.Expected)
		assert.Equal(t, account.ID, inconsistent.Actual)
	})

	t.Run("seed fails the difficulty gate", func(t *testing.T) {
		inputs := fixtureInputs(t)
		account, _ := newAccount(t, core.RegularAccountUpdatableCode,
			fixtureStorage(felt.NewWordFromUint64(11, 12, 13, 14)))

		// search for a seed that fails derivation outright
		var badSeed felt.Word
		for i := uint64(0); ; i++ {
			badSeed = felt.NewWordFromUint64(i, 1, 1, 1)
			if _, err := core.AccountIDFromSeed(badSeed,
				account.Code.Commitment(), account.Storage.Commitment()); err != nil {
				break
			}
		}
		inputs.Account = account
		inputs.AccountSeed = &badSeed

		var invalid core.InvalidAccountSeedError
		require.ErrorAs(t, transaction.Validate(inputs), &invalid)

		var tooFewZeros core.SeedDigestTooFewTrailingZerosError
		assert.ErrorAs(t, invalid, &tooFewZeros)
	})
}

func TestValidateFaucetReservedSlot(t *testing.T) {
	t.Run("fungible faucet with empty slot 0", func(t *testing.T) {
		inputs := fixtureInputs(t)
		account, seed := newAccount(t, core.FungibleFaucet, fixtureStorage(felt.ZeroWord))
		inputs.Account = account
		inputs.AccountSeed = seed
		assert.NoError(t, transaction.Validate(inputs))
	})

	t.Run("fungible faucet with occupied slot 0", func(t *testing.T) {
		inputs := fixtureInputs(t)
		account, seed := newAccount(t, core.FungibleFaucet,
			fixtureStorage(felt.NewWordFromUint64(1, 0, 0, 0)))
		inputs.Account = account
		inputs.AccountSeed = seed
		assert.ErrorIs(t, transaction.Validate(inputs), core.ErrNewFungibleFaucetReservedSlotNotEmpty)
	})

	t.Run("non-fungible faucet with the empty tree root", func(t *testing.T) {
		inputs := fixtureInputs(t)
		account, seed := newAccount(t, core.NonFungibleFaucet,
			fixtureStorage(crypto.EmptySubtreeRoot(crypto.SmtDepth)))
		inputs.Account = account
		inputs.AccountSeed = seed
		assert.NoError(t, transaction.Validate(inputs))
	})

	t.Run("non-fungible faucet with a wrong slot 0", func(t *testing.T) {
		inputs := fixtureInputs(t)
		account, seed := newAccount(t, core.NonFungibleFaucet, fixtureStorage(felt.ZeroWord))
		inputs.Account = account
		inputs.AccountSeed = seed
		assert.ErrorIs(t, transaction.Validate(inputs), core.ErrNewNonFungibleFaucetReservedSlotInvalid)
	})
}

func TestValidateAccountBounds(t *testing.T) {
	inputs := fixtureInputs(t)
	inputs.Account.Code.Procedures[0].StorageSize = 3

	var outOfBounds core.ProcedureStorageOutOfBoundsError
	assert.ErrorAs(t, transaction.Validate(inputs), &outOfBounds)
}
