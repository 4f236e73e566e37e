package stableswap

import "github.com/pkg/errors"

// stableswap errors
var (
	ErrInvalidAssetCount    = errors.New("StableSwap: INVALID_ASSET_COUNT")
	ErrInvalidIndex         = errors.New("StableSwap: INVALID_INDEX")
	ErrSameAsset            = errors.New("StableSwap: SAME_ASSET")
	ErrInvalidAmplification = errors.New("StableSwap: INVALID_AMPLIFICATION")
	ErrInvalidDecimals      = errors.New("StableSwap: INVALID_DECIMALS")
	ErrDecimalsMismatch     = errors.New("StableSwap: DECIMALS_MISMATCH")
	ErrReserveSetMismatch   = errors.New("StableSwap: RESERVE_SET_MISMATCH")
	ErrReserveDecreased     = errors.New("StableSwap: RESERVE_DECREASED")
	ErrZeroReserve          = errors.New("StableSwap: RESERVE_NOT_POSITIVE")
	ErrInsufficientInput    = errors.New("StableSwap: INSUFFICIENT_INPUT")
	ErrInsufficientReserve  = errors.New("StableSwap: INSUFFICIENT_RESERVE")
	ErrZeroIssuance         = errors.New("StableSwap: ZERO_ISSUANCE")
	ErrInsufficientShares   = errors.New("StableSwap: INSUFFICIENT_SHARES")
	ErrZeroInvariant        = errors.New("StableSwap: D_IS_ZERO")
	ErrInvalidConfig        = errors.New("StableSwap: INVALID_CONFIG")
)
