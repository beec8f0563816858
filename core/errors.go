package core

import (
	"errors"
	"fmt"

	"github.com/veloxlabs/velox/core/felt"
)

// Every validation failure in the kernel maps to exactly one variant below.
// Parameterless causes are sentinels; causes carrying diagnostic data are
// typed values matched with errors.As. Nothing is downgraded or retried: the
// immediate caller always sees the enumerated reason.

// ACCOUNT ERRORS

var (
	ErrAccountCodeNoProcedures        = errors.New("account code has no procedures")
	ErrPureProcedureWithStorageOffset = errors.New("procedure with zero storage size must declare a zero storage offset")
	ErrInvalidAccountIDFelt           = errors.New("account id felt does not fit into 64 bits")
)

type TooManyProceduresError struct {
	Max, Actual int
}

func (e TooManyProceduresError) Error() string {
	return fmt.Sprintf("account code has too many procedures: max %d, actual %d", e.Max, e.Actual)
}

type TooManyStorageSlotsError struct {
	Max, Actual int
}

func (e TooManyStorageSlotsError) Error() string {
	return fmt.Sprintf("account storage has too many slots: max %d, actual %d", e.Max, e.Actual)
}

type StorageIndexOutOfBoundsError struct {
	Max, Actual uint8
}

func (e StorageIndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("storage slot index %d out of bounds (max %d)", e.Actual, e.Max)
}

type ProcedureStorageOutOfBoundsError struct {
	Procedure    int
	Offset, Size uint16
	NumSlots     int
}

func (e ProcedureStorageOutOfBoundsError) Error() string {
	return fmt.Sprintf("procedure %d declares storage window [%d, %d) outside the %d available slots",
		e.Procedure, e.Offset, e.Offset+e.Size, e.NumSlots)
}

type NonceNotMonotonicError struct {
	Current, New uint64
}

func (e NonceNotMonotonicError) Error() string {
	return fmt.Sprintf("account nonce must increase: current %d, new %d", e.Current, e.New)
}

type SeedDigestTooFewTrailingZerosError struct {
	Expected, Actual int
}

func (e SeedDigestTooFewTrailingZerosError) Error() string {
	return fmt.Sprintf("account seed digest has too few trailing zeros: expected %d, actual %d", e.Expected, e.Actual)
}

// ACCOUNT DELTA ERRORS

type FungibleDeltaOverflowError struct {
	FaucetID    AccountID
	This, Other int64
}

func (e FungibleDeltaOverflowError) Error() string {
	return fmt.Sprintf("fungible delta for faucet %s overflows: %d + %d", e.FaucetID, e.This, e.Other)
}

type InconsistentDeltaFaucetError struct {
	This, Other AccountID
}

func (e InconsistentDeltaFaucetError) Error() string {
	return fmt.Sprintf("cannot merge deltas of different faucets %s and %s", e.This, e.Other)
}

// ASSET ERRORS

type AmountTooBigError struct {
	Amount uint64
}

func (e AmountTooBigError) Error() string {
	return fmt.Sprintf("fungible amount %d exceeds the maximum of %d", e.Amount, MaxFungibleAmount)
}

type NotAFungibleFaucetIDError struct {
	ID AccountID
}

func (e NotAFungibleFaucetIDError) Error() string {
	return fmt.Sprintf("account %s is not a fungible faucet", e.ID)
}

type NotANonFungibleFaucetIDError struct {
	ID AccountID
}

func (e NotANonFungibleFaucetIDError) Error() string {
	return fmt.Sprintf("account %s is not a non-fungible faucet", e.ID)
}

type NotAnAssetError struct {
	Value felt.Word
}

func (e NotAnAssetError) Error() string {
	return fmt.Sprintf("word %s does not encode an asset", e.Value)
}

// ASSET VAULT ERRORS

type DuplicateFungibleAssetError struct {
	FaucetID AccountID
}

func (e DuplicateFungibleAssetError) Error() string {
	return fmt.Sprintf("duplicate fungible asset from faucet %s", e.FaucetID)
}

type DuplicateNonFungibleAssetError struct {
	Asset Asset
}

func (e DuplicateNonFungibleAssetError) Error() string {
	return fmt.Sprintf("duplicate non-fungible asset %s", felt.Word(e.Asset))
}

type FungibleAssetNotFoundError struct {
	FaucetID AccountID
}

func (e FungibleAssetNotFoundError) Error() string {
	return fmt.Sprintf("vault holds no fungible asset from faucet %s", e.FaucetID)
}

type NonFungibleAssetNotFoundError struct {
	Asset Asset
}

func (e NonFungibleAssetNotFoundError) Error() string {
	return fmt.Sprintf("vault does not hold non-fungible asset %s", felt.Word(e.Asset))
}

type AssetAmountNotSufficientError struct {
	Available, Requested uint64
}

func (e AssetAmountNotSufficientError) Error() string {
	return fmt.Sprintf("vault balance %d is less than the requested %d", e.Available, e.Requested)
}

// NOTE ERRORS

type TooManyAssetsError struct {
	Actual int
}

func (e TooManyAssetsError) Error() string {
	return fmt.Sprintf("note carries %d assets, max is %d", e.Actual, MaxNoteAssets)
}

type TooManyInputsError struct {
	Actual int
}

func (e TooManyInputsError) Error() string {
	return fmt.Sprintf("note carries %d inputs, max is %d", e.Actual, MaxNoteInputs)
}

type InvalidNoteTypeValueError struct {
	Value uint64
}

func (e InvalidNoteTypeValueError) Error() string {
	return fmt.Sprintf("%d is not a valid note type", e.Value)
}

type NetworkExecutionRequiresPublicNoteError struct {
	Type NoteType
}

func (e NetworkExecutionRequiresPublicNoteError) Error() string {
	return fmt.Sprintf("note tag targets network execution but the note type is %s", e.Type)
}

// CHAIN MMR ERRORS

type BlockNumTooBigError struct {
	ChainLength, BlockNum uint32
}

func (e BlockNumTooBigError) Error() string {
	return fmt.Sprintf("block %d is beyond the tracked chain of length %d", e.BlockNum, e.ChainLength)
}

type DuplicateBlockError struct {
	BlockNum uint32
}

func (e DuplicateBlockError) Error() string {
	return fmt.Sprintf("block %d is already tracked", e.BlockNum)
}

type UntrackedBlockError struct {
	BlockNum uint32
}

func (e UntrackedBlockError) Error() string {
	return fmt.Sprintf("block %d is not tracked", e.BlockNum)
}

// TRANSACTION INPUT ERRORS

var (
	ErrAccountSeedNotProvidedForNewAccount   = errors.New("transaction against a new account requires an account seed")
	ErrAccountSeedProvidedForExistingAccount = errors.New("transaction against an existing account must not carry an account seed")

	ErrNewFungibleFaucetReservedSlotNotEmpty   = errors.New("reserved storage slot 0 of a new fungible faucet must be the zero word")
	ErrNewNonFungibleFaucetReservedSlotInvalid = errors.New("reserved storage slot 0 of a new non-fungible faucet must be the empty SMT root")
)

type TooManyInputNotesError struct {
	Max, Actual int
}

func (e TooManyInputNotesError) Error() string {
	return fmt.Sprintf("too many input notes: max %d, actual %d", e.Max, e.Actual)
}

type DuplicateInputNoteError struct {
	NoteID NoteID
}

func (e DuplicateInputNoteError) Error() string {
	return fmt.Sprintf("duplicate input note %s", felt.Word(e.NoteID))
}

type InconsistentAccountSeedError struct {
	Expected, Actual AccountID
}

func (e InconsistentAccountSeedError) Error() string {
	return fmt.Sprintf("account seed digest mismatch: seed derives %s, account declares %s", e.Expected, e.Actual)
}

type InvalidAccountSeedError struct {
	Err error
}

func (e InvalidAccountSeedError) Error() string {
	return fmt.Sprintf("invalid account seed: %v", e.Err)
}

func (e InvalidAccountSeedError) Unwrap() error {
	return e.Err
}

type InconsistentChainLengthError struct {
	Expected, Actual uint32
}

func (e InconsistentChainLengthError) Error() string {
	return fmt.Sprintf("chain length mismatch: reference block expects %d, chain snapshot has %d", e.Expected, e.Actual)
}

type InconsistentChainRootError struct {
	Expected, Actual felt.Word
}

func (e InconsistentChainRootError) Error() string {
	return fmt.Sprintf("chain root mismatch: reference block commits to %s, chain snapshot yields %s", e.Expected, e.Actual)
}

type InputNoteBlockNotInChainMmrError struct {
	NoteID NoteID
}

func (e InputNoteBlockNotInChainMmrError) Error() string {
	return fmt.Sprintf("origin block of input note %s is not in the chain snapshot", felt.Word(e.NoteID))
}

// TRANSACTION OUTPUT ERRORS

type DuplicateOutputNoteError struct {
	NoteID NoteID
}

func (e DuplicateOutputNoteError) Error() string {
	return fmt.Sprintf("duplicate output note %s", felt.Word(e.NoteID))
}

type TooManyOutputNotesError struct {
	Max, Actual int
}

func (e TooManyOutputNotesError) Error() string {
	return fmt.Sprintf("too many output notes: max %d, actual %d", e.Max, e.Actual)
}

type OutputNotesCommitmentMismatchError struct {
	Expected, Actual felt.Word
}

func (e OutputNotesCommitmentMismatchError) Error() string {
	return fmt.Sprintf("output notes commitment mismatch: expected %s, actual %s", e.Expected, e.Actual)
}

// PROVEN TRANSACTION ERRORS
//
// Raised by the block-producer collaborator when it cross-checks a proven
// transaction against its own view; published here so the whole taxonomy has
// one home.

type AccountFinalHashMismatchError struct {
	Declared, Computed felt.Word
}

func (e AccountFinalHashMismatchError) Error() string {
	return fmt.Sprintf("proven transaction final account hash %s does not match computed %s", e.Declared, e.Computed)
}

type AccountIDMismatchError struct {
	Declared, Actual AccountID
}

func (e AccountIDMismatchError) Error() string {
	return fmt.Sprintf("proven transaction account id %s does not match %s", e.Declared, e.Actual)
}

// BLOCK ERRORS

type BlockDuplicateNoteError struct {
	NoteID NoteID
}

func (e BlockDuplicateNoteError) Error() string {
	return fmt.Sprintf("duplicate note %s in block", felt.Word(e.NoteID))
}

type TooManyNotesInBlockError struct {
	Max, Actual int
}

func (e TooManyNotesInBlockError) Error() string {
	return fmt.Sprintf("too many notes in block: max %d, actual %d", e.Max, e.Actual)
}

type TooManyNullifiersInBlockError struct {
	Max, Actual int
}

func (e TooManyNullifiersInBlockError) Error() string {
	return fmt.Sprintf("too many nullifiers in block: max %d, actual %d", e.Max, e.Actual)
}
