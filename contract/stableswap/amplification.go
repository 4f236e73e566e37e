package stableswap

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/safemath"
)

// CalculateAmplification returns the amplification at currentBlock of a linear ramp
// from initial at initialBlock to final at finalBlock.
// Before the ramp starts, or when the ramp is empty, initial is returned; after it ends, final.
func CalculateAmplification(initial, final, initialBlock, finalBlock, currentBlock uint64) uint64 {
	if currentBlock < initialBlock || finalBlock <= initialBlock {
		return initial
	}
	if currentBlock >= finalBlock {
		return final
	}

	// Expressions in uint cannot have negative numbers, thus "if"
	var diff uint64
	if final > initial {
		diff = final - initial
	} else {
		diff = initial - final
	}
	step, err := safemath.MulDiv(uint256.NewInt(diff), uint256.NewInt(currentBlock-initialBlock), uint256.NewInt(finalBlock-initialBlock))
	if err != nil {
		// step < diff always fits; unreachable
		return initial
	}
	if final > initial {
		return initial + step.Uint64()
	}
	return initial - step.Uint64()
}
