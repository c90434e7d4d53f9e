package fraction

import (
	"fmt"
	"math/big"
	"strconv"

	"golang.org/x/xerrors"
)

type (
	// ID identifies an ERC-1155 fraction token: the podcast base id in the high bits and the token type in the low four bits.
	ID uint64

	// TokenType is the rarity tier of a fraction.
	TokenType uint8
)

const (
	TokenTypeCreatorNft TokenType = 1
	TokenTypeStandard   TokenType = 2
	TokenTypeCommon     TokenType = 3
	TokenTypeRare       TokenType = 4
	TokenTypeEpic       TokenType = 5
	TokenTypeLegendary  TokenType = 6

	// Offset is the number of bits reserved for the token type.
	Offset = 4

	// MaxBaseID is the exclusive upper bound of a base id.
	MaxBaseID uint64 = 1 << (64 - Offset)

	tokenTypeMask = 1<<Offset - 1
)

var (
	// BuyableTokenTypes are the tiers whose cost is driven by the badge engine.
	BuyableTokenTypes = []TokenType{
		TokenTypeCommon,
		TokenTypeRare,
		TokenTypeEpic,
		TokenTypeLegendary,
	}

	AllTokenTypes = []TokenType{
		TokenTypeCreatorNft,
		TokenTypeStandard,
		TokenTypeCommon,
		TokenTypeRare,
		TokenTypeEpic,
		TokenTypeLegendary,
	}

	ErrInvalidTokenType = xerrors.New("invalid token type")
	ErrInvalidBaseID    = xerrors.New("invalid base id")

	rarities = map[TokenType]string{
		TokenTypeCreatorNft: "Creator Nft",
		TokenTypeStandard:   "Standard",
		TokenTypeCommon:     "Common",
		TokenTypeRare:       "Rare",
		TokenTypeEpic:       "Epic",
		TokenTypeLegendary:  "Legendary",
	}
)

// Pack builds the fraction id of the given tier: (baseID << 4) | tokenType.
func Pack(baseID uint64, tokenType TokenType) (ID, error) {
	if !tokenType.Valid() {
		return 0, xerrors.Errorf("failed to pack fraction id (token_type=%v): %w", tokenType, ErrInvalidTokenType)
	}

	if baseID >= MaxBaseID {
		return 0, xerrors.Errorf("failed to pack fraction id (base_id=%v): %w", baseID, ErrInvalidBaseID)
	}

	return ID(baseID<<Offset | uint64(tokenType)), nil
}

// MustPack is like Pack but panics on invalid input. The token types it is called with are constants.
func MustPack(baseID uint64, tokenType TokenType) ID {
	id, err := Pack(baseID, tokenType)
	if err != nil {
		panic(err)
	}

	return id
}

// FromBigInt converts an on-chain uint256 token id.
func FromBigInt(v *big.Int) (ID, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, xerrors.Errorf("fraction id out of range: %v", v)
	}

	return ID(v.Uint64()), nil
}

func (id ID) Unpack() (uint64, TokenType) {
	return id.BaseID(), id.TokenType()
}

func (id ID) BaseID() uint64 {
	return uint64(id) >> Offset
}

func (id ID) TokenType() TokenType {
	return TokenType(uint64(id) & tokenTypeMask)
}

func (id ID) BigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(id))
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (t TokenType) Valid() bool {
	_, ok := rarities[t]
	return ok
}

// Rarity returns the display name used in the NFT metadata.
func (t TokenType) Rarity() string {
	if rarity, ok := rarities[t]; ok {
		return rarity
	}

	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

func (t TokenType) String() string {
	return t.Rarity()
}

// ParseTokenType accepts either the numeric tier or its rarity name.
func ParseTokenType(s string) (TokenType, error) {
	if v, err := strconv.ParseUint(s, 10, 8); err == nil {
		t := TokenType(v)
		if !t.Valid() {
			return 0, xerrors.Errorf("failed to parse token type %q: %w", s, ErrInvalidTokenType)
		}
		return t, nil
	}

	for t, rarity := range rarities {
		if rarity == s {
			return t, nil
		}
	}

	return 0, xerrors.Errorf("failed to parse token type %q: %w", s, ErrInvalidTokenType)
}
