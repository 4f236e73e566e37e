package main

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/fixed"
	"github.com/meverselabs/ammcore/common/safemath"
	"github.com/meverselabs/ammcore/contract/stableswap"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Scenario is a pool with the operations applied to it in order, and optionally a farm
type Scenario struct {
	Solver     stableswap.Config `toml:"solver" yaml:"solver"`
	Pool       PoolConfig        `toml:"pool" yaml:"pool"`
	Operations []Operation       `toml:"operations" yaml:"operations"`
	Farm       *FarmConfig       `toml:"farm" yaml:"farm"`
}

// units of asset amounts in a scenario
const (
	UnitsNative = "native"
	UnitsHuman  = "human"
)

// PoolConfig describes the initial state of a pool.
// Units selects how asset amounts are written: native integers (the default)
// or human decimals scaled by the asset's decimals. Shares are always native.
type PoolConfig struct {
	Amplification uint64        `toml:"amplification" yaml:"amplification"`
	Fee           uint32        `toml:"fee_permill" yaml:"fee_permill"`
	Issuance      string        `toml:"issuance" yaml:"issuance"`
	Units         string        `toml:"units" yaml:"units"`
	Assets        []AssetConfig `toml:"assets" yaml:"assets"`
}

// AssetConfig is one asset of a pool
type AssetConfig struct {
	Symbol   string `toml:"symbol" yaml:"symbol"`
	Amount   string `toml:"amount" yaml:"amount"`
	Decimals uint8  `toml:"decimals" yaml:"decimals"`
}

// Operation is one step of a scenario.
// Kind is one of sell, buy, add, remove_one, add_one, share_price.
type Operation struct {
	Kind    string   `toml:"kind" yaml:"kind"`
	In      int      `toml:"in" yaml:"in"`
	Out     int      `toml:"out" yaml:"out"`
	Asset   int      `toml:"asset" yaml:"asset"`
	Amount  string   `toml:"amount" yaml:"amount"`
	Amounts []string `toml:"amounts" yaml:"amounts"`
}

// Pool is the mutable state the simulator keeps between operations
type Pool struct {
	Symbols       []string
	Reserves      []stableswap.AssetReserve
	Amplification uint64
	Fee           fixed.Permill
	Issuance      *uint256.Int
	Human         bool
}

// NewPool builds the initial pool of a scenario
func NewPool(cfg PoolConfig) (*Pool, error) {
	p := &Pool{
		Amplification: cfg.Amplification,
		Fee:           fixed.Permill(cfg.Fee),
		Issuance:      safemath.Zero(),
	}
	if err := p.Fee.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Units {
	case "", UnitsNative:
	case UnitsHuman:
		p.Human = true
	default:
		return nil, errors.Errorf("unknown units %q", cfg.Units)
	}
	if cfg.Issuance != "" {
		v, err := safemath.ParseBalance(cfg.Issuance)
		if err != nil {
			return nil, errors.Wrap(err, "issuance")
		}
		p.Issuance = v
	}
	for _, a := range cfg.Assets {
		v, err := parseUnits(a.Amount, a.Decimals, p.Human)
		if err != nil {
			return nil, errors.Wrapf(err, "asset %s", a.Symbol)
		}
		p.Symbols = append(p.Symbols, a.Symbol)
		p.Reserves = append(p.Reserves, stableswap.AssetReserve{Amount: v, Decimals: a.Decimals})
	}
	if len(p.Reserves) < 2 || len(p.Reserves) > stableswap.MaxAssets {
		return nil, stableswap.ErrInvalidAssetCount
	}
	return p, nil
}

func parseUnits(s string, decimals uint8, human bool) (*uint256.Int, error) {
	if !human {
		return safemath.ParseBalance(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, safemath.ErrNotBalance
	}
	return safemath.FromDecimal(d, decimals)
}

func (p *Pool) parseAmounts(ss []string) ([]*uint256.Int, error) {
	if len(ss) != len(p.Reserves) {
		return nil, stableswap.ErrReserveSetMismatch
	}
	result := make([]*uint256.Int, len(ss))
	for k, s := range ss {
		v, err := parseUnits(s, p.Reserves[k].Decimals, p.Human)
		if err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, nil
}
