package stableswap

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/safemath"
)

// AssetReserve is a pool's holding of one asset in its native precision
type AssetReserve struct {
	Amount   *uint256.Int
	Decimals uint8
}

// NewAssetReserve returns a reserve of amount with the given decimals
func NewAssetReserve(amount uint64, decimals uint8) AssetReserve {
	return AssetReserve{
		Amount:   uint256.NewInt(amount),
		Decimals: decimals,
	}
}

// Clone returns a deep copy
func (r AssetReserve) Clone() AssetReserve {
	return AssetReserve{
		Amount:   safemath.Clone(r.Amount),
		Decimals: r.Decimals,
	}
}

// IsZero returns whether nothing of the asset is held
func (r AssetReserve) IsZero() bool {
	return r.Amount.IsZero()
}

// CloneReserves returns a deep copy of reserves
func CloneReserves(reserves []AssetReserve) []AssetReserve {
	result := make([]AssetReserve, len(reserves))
	for k := range reserves {
		result[k] = reserves[k].Clone()
	}
	return result
}

func checkReserves(reserves []AssetReserve) error {
	if len(reserves) == 0 || len(reserves) > MaxAssets {
		return ErrInvalidAssetCount
	}
	for k := range reserves {
		if reserves[k].Decimals > MaxDecimals {
			return ErrInvalidDecimals
		}
		if err := safemath.CheckBalance(reserves[k].Amount); err != nil {
			return err
		}
	}
	return nil
}

func checkAmplification(amp uint64) error {
	if amp < MinAmplification || amp > MaxAmplification {
		return ErrInvalidAmplification
	}
	return nil
}

// targetPrecision is the highest precision present in the pool, never below TargetPrecision
func targetPrecision(reserves []AssetReserve) uint8 {
	target := uint8(TargetPrecision)
	for k := range reserves {
		if reserves[k].Decimals > target {
			target = reserves[k].Decimals
		}
	}
	return target
}

// normalizeReserves scales every reserve to the pool's target precision
func normalizeReserves(reserves []AssetReserve) ([]*uint256.Int, uint8, error) {
	target := targetPrecision(reserves)
	xp := make([]*uint256.Int, len(reserves))
	for k := range reserves {
		v, err := safemath.Scale(reserves[k].Amount, reserves[k].Decimals, target, safemath.RoundDown)
		if err != nil {
			return nil, 0, err
		}
		xp[k] = v
	}
	return xp, target, nil
}

func normalizeValue(v *uint256.Int, from, to uint8, rounding safemath.Rounding) (*uint256.Int, error) {
	return safemath.Scale(v, from, to, rounding)
}
