package stableswap

// MaxAssets is the largest number of assets a pool may hold
const MaxAssets = 5

// TargetPrecision is the minimum decimal precision reserves are normalized to
const TargetPrecision = 18

// MaxDecimals bounds the native precision of an asset
const MaxDecimals = 36

// MinAmplification and MaxAmplification bound the amplification parameter
const (
	MinAmplification = 1
	MaxAmplification = 1000000
)

// default iteration bounds of the solvers
const (
	DefaultMaxDIterations = 64
	DefaultMaxYIterations = 128
)
