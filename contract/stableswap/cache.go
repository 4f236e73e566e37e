package stableswap

import (
	"strconv"
	"strings"

	"github.com/bluele/gcache"
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/safemath"
)

// NewCachedCurve returns a solver that memoises invariants of the last size distinct
// (amplification, normalized reserves) inputs. Results are identical to the uncached solver.
func NewCachedCurve(cfg Config, size int) (*Curve, error) {
	if size <= 0 {
		return nil, ErrInvalidConfig
	}
	c, err := NewCurve(cfg)
	if err != nil {
		return nil, err
	}
	c.cache = gcache.New(size).LRU().Build()
	return c, nil
}

func invariantKey(xp []*uint256.Int, amp uint64) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(amp, 16))
	for k := range xp {
		b.WriteByte(':')
		b.WriteString(xp[k].Hex())
	}
	return b.String()
}

func (c *Curve) cachedD(xp []*uint256.Int, amp uint64) (*uint256.Int, error) {
	key := invariantKey(xp, amp)
	if v, err := c.cache.Get(key); err == nil {
		return safemath.Clone(v.(*uint256.Int)), nil
	}
	D, err := c.solveD(xp, amp)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(key, safemath.Clone(D)); err != nil {
		return nil, err
	}
	return D, nil
}

// CacheLen returns the number of memoised invariants
func (c *Curve) CacheLen() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len(false)
}
