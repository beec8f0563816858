package core

import (
	"fmt"
	"math/bits"

	"github.com/veloxlabs/velox/core/crypto"
	"github.com/veloxlabs/velox/core/felt"
)

const (
	// MaxStorageSlots is the maximum number of storage slots an account may
	// declare.
	MaxStorageSlots = 255
	// MaxProcedures is the maximum number of procedures an account's code may
	// export.
	MaxProcedures = 256
)

// Seed grinding difficulty: the final element of the seed digest must carry
// at least this many trailing zero bits.
const (
	RegularAccountSeedMinTrailingZeros = 4
	FaucetAccountSeedMinTrailingZeros  = 5
)

const maxSeedGrindIterations = 1 << 22

type AccountType uint8

const (
	RegularAccountUpdatableCode AccountType = iota
	RegularAccountImmutableCode
	FungibleFaucet
	NonFungibleFaucet
)

func (t AccountType) String() string {
	switch t {
	case RegularAccountUpdatableCode:
		return "regular-updatable"
	case RegularAccountImmutableCode:
		return "regular-immutable"
	case FungibleFaucet:
		return "fungible-faucet"
	case NonFungibleFaucet:
		return "non-fungible-faucet"
	default:
		return "unknown"
	}
}

type StorageMode uint8

const (
	StoragePrivate StorageMode = iota
	StoragePublic
)

// AccountID identifies an account. The two most significant bits encode the
// account type and bit 61 the storage mode, so the identity itself pins both.
// IDs are immutable post-creation.
type AccountID uint64

const (
	accountTypeShift  = 62
	storageModeShift  = 61
	accountIDMetaMask = uint64(0b111) << storageModeShift
)

// NewAccountID extracts an account ID from a felt, which must fit 64 bits.
func NewAccountID(f *felt.Felt) (AccountID, error) {
	if !f.IsUint64() {
		return 0, ErrInvalidAccountIDFelt
	}
	return AccountID(f.Uint64()), nil
}

func (id AccountID) Type() AccountType {
	return AccountType(uint64(id) >> accountTypeShift)
}

func (id AccountID) StorageMode() StorageMode {
	return StorageMode(uint64(id) >> storageModeShift & 1)
}

func (id AccountID) IsFaucet() bool {
	t := id.Type()
	return t == FungibleFaucet || t == NonFungibleFaucet
}

func (id AccountID) Felt() felt.Felt {
	return felt.FromUint64(uint64(id))
}

func (id AccountID) String() string {
	return fmt.Sprintf("%#x", uint64(id))
}

// AccountIDFromSeed derives the account ID bound to the given seed and the
// commitments of the account's initial code and storage. The derivation is
// the proof-of-work gate on account creation: the last digest element must
// carry the per-type minimum of trailing zero bits, and the ID is the low 64
// bits of the first digest element.
func AccountIDFromSeed(seed, codeCommitment, storageCommitment felt.Word) (AccountID, error) {
	elems := make([]felt.Felt, 0, 3*felt.WordLen)
	elems = append(elems, seed[:]...)
	elems = append(elems, codeCommitment[:]...)
	elems = append(elems, storageCommitment[:]...)
	digest := crypto.HashElements(elems)

	id := AccountID(digest[0].Uint64())

	min := RegularAccountSeedMinTrailingZeros
	if id.IsFaucet() {
		min = FaucetAccountSeedMinTrailingZeros
	}
	if zeros := trailingZeros(&digest[3]); zeros < min {
		return 0, SeedDigestTooFewTrailingZerosError{Expected: min, Actual: zeros}
	}
	return id, nil
}

// GrindAccountSeed searches, starting from init, for a seed whose derived ID
// has the requested type and storage mode and passes the proof-of-work gate.
// Account creation tooling calls this once per new account.
func GrindAccountSeed(init felt.Word, typ AccountType, mode StorageMode,
	codeCommitment, storageCommitment felt.Word,
) (felt.Word, AccountID, error) {
	one := felt.FromUint64(1)
	seed := init
	for range maxSeedGrindIterations {
		id, err := AccountIDFromSeed(seed, codeCommitment, storageCommitment)
		if err == nil && id.Type() == typ && id.StorageMode() == mode {
			return seed, id, nil
		}
		seed[0].Add(&seed[0], &one)
	}
	return felt.ZeroWord, 0, fmt.Errorf("no valid %s seed found in %d iterations", typ, maxSeedGrindIterations)
}

func trailingZeros(f *felt.Felt) int {
	return bits.TrailingZeros64(f.Uint64())
}

type StorageSlotType uint8

const (
	StorageSlotValue StorageSlotType = iota
	StorageSlotMap
)

// StorageSlot is one typed account storage entry. For map slots Value holds
// the root of the slot's sparse Merkle tree.
type StorageSlot struct {
	Type  StorageSlotType `cbor:"1,keyasint"`
	Value felt.Word       `cbor:"2,keyasint"`
}

// AccountStorage is the ordered slot list of an account snapshot.
type AccountStorage struct {
	Slots []StorageSlot `cbor:"1,keyasint"`
}

func (s *AccountStorage) Validate() error {
	if len(s.Slots) > MaxStorageSlots {
		return TooManyStorageSlotsError{Max: MaxStorageSlots, Actual: len(s.Slots)}
	}
	return nil
}

// Slot returns the slot at the given index.
func (s *AccountStorage) Slot(index uint8) (StorageSlot, error) {
	if int(index) >= len(s.Slots) {
		return StorageSlot{}, StorageIndexOutOfBoundsError{Max: uint8(len(s.Slots) - 1), Actual: index}
	}
	return s.Slots[index], nil
}

// Elements flattens the storage into hash/memory form: per slot the value
// word followed by [type, 0, 0, 0].
func (s *AccountStorage) Elements() []felt.Felt {
	elems := make([]felt.Felt, 0, 2*felt.WordLen*len(s.Slots))
	for i := range s.Slots {
		elems = append(elems, s.Slots[i].Value[:]...)
		elems = append(elems, felt.FromUint64(uint64(s.Slots[i].Type)), felt.Zero, felt.Zero, felt.Zero)
	}
	return elems
}

// Commitment returns the digest of the packed slots.
func (s *AccountStorage) Commitment() felt.Word {
	return crypto.HashElements(s.Elements())
}

// AccountProcedureInfo describes one exported procedure: the root of its
// code and the storage window it may touch. A procedure with a zero-size
// window is pure and must declare a zero offset.
type AccountProcedureInfo struct {
	MastRoot      felt.Word `cbor:"1,keyasint"`
	StorageOffset uint16    `cbor:"2,keyasint"`
	StorageSize   uint16    `cbor:"3,keyasint"`
}

// AccountCode is the ordered procedure table of an account snapshot.
type AccountCode struct {
	Procedures []AccountProcedureInfo `cbor:"1,keyasint"`
}

func (c *AccountCode) Validate() error {
	if len(c.Procedures) == 0 {
		return ErrAccountCodeNoProcedures
	}
	if len(c.Procedures) > MaxProcedures {
		return TooManyProceduresError{Max: MaxProcedures, Actual: len(c.Procedures)}
	}
	for i := range c.Procedures {
		proc := &c.Procedures[i]
		if proc.StorageSize == 0 && proc.StorageOffset != 0 {
			return ErrPureProcedureWithStorageOffset
		}
	}
	return nil
}

// Elements flattens the procedure table into hash/memory form: per procedure
// the MAST root word followed by [offset, size, 0, 0].
func (c *AccountCode) Elements() []felt.Felt {
	elems := make([]felt.Felt, 0, 2*felt.WordLen*len(c.Procedures))
	for i := range c.Procedures {
		proc := &c.Procedures[i]
		elems = append(elems, proc.MastRoot[:]...)
		elems = append(elems,
			felt.FromUint64(uint64(proc.StorageOffset)),
			felt.FromUint64(uint64(proc.StorageSize)),
			felt.Zero, felt.Zero)
	}
	return elems
}

// Commitment returns the digest of the packed procedure table.
func (c *AccountCode) Commitment() felt.Word {
	return crypto.HashElements(c.Elements())
}

// Account is an immutable account snapshot as consumed by the prologue. The
// vault is carried by its root only; the full asset list lives with the
// account's owner (see AssetVault).
type Account struct {
	ID        AccountID      `cbor:"1,keyasint"`
	Nonce     felt.Felt      `cbor:"2,keyasint"`
	VaultRoot felt.Word      `cbor:"3,keyasint"`
	Storage   AccountStorage `cbor:"4,keyasint"`
	Code      AccountCode    `cbor:"5,keyasint"`
}

// IsNew reports whether the account has never been committed to the chain.
func (a *Account) IsNew() bool {
	return a.Nonce.IsZero()
}

// IDAndNonce returns the [id, 0, 0, nonce] word, the first leaf of the
// account hash and the value stored at the account id/nonce pointer.
func (a *Account) IDAndNonce() felt.Word {
	return felt.Word{a.ID.Felt(), felt.Zero, felt.Zero, a.Nonce}
}

// Hash commits to the full account state as a two-level merge tree over
// [id‖nonce, vault root, storage commitment, code commitment].
func (a *Account) Hash() felt.Word {
	return crypto.Merge(
		crypto.Merge(a.IDAndNonce(), a.VaultRoot),
		crypto.Merge(a.Storage.Commitment(), a.Code.Commitment()),
	)
}

// Validate checks the structural bounds of the snapshot: slot count,
// procedure count and every procedure's storage window.
func (a *Account) Validate() error {
	if err := a.Storage.Validate(); err != nil {
		return err
	}
	if err := a.Code.Validate(); err != nil {
		return err
	}
	for i := range a.Code.Procedures {
		proc := &a.Code.Procedures[i]
		if int(proc.StorageOffset)+int(proc.StorageSize) > len(a.Storage.Slots) {
			return ProcedureStorageOutOfBoundsError{
				Procedure: i,
				Offset:    proc.StorageOffset,
				Size:      proc.StorageSize,
				NumSlots:  len(a.Storage.Slots),
			}
		}
	}
	return nil
}

// ValidateNonceUpdate checks that the proposed nonce strictly increases.
func (a *Account) ValidateNonceUpdate(newNonce felt.Felt) error {
	current, next := a.Nonce.Uint64(), newNonce.Uint64()
	if next <= current {
		return NonceNotMonotonicError{Current: current, New: next}
	}
	return nil
}
