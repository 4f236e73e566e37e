package stableswap

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/safemath"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Invariant", func() {

	It("balanced pool", func() {
		D, err := CalculateD(pool(12, 10000, 10000, 10000, 10000, 10000), 100)
		Expect(err).To(Succeed())
		// normalized to 18 decimals
		Expect(D).To(Equal(u(50000000000)))

		D, err = CalculateD(pool(12, 1000000000000, 1000000000000), 100)
		Expect(err).To(Succeed())
		Expect(D).To(Equal(safemath.MustBalance("2000000000000000000")))
	})

	It("imbalanced pool", func() {
		D, err := CalculateD(pool(12, 1000000000000, 2000000000000), 100)
		Expect(err).To(Succeed())
		Expect(D).To(Equal(safemath.MustBalance("2998146985239894576")))
	})

	It("higher amplification approaches the sum", func() {
		xp := []*uint256.Int{safemath.MustBalance("500000000000000000"), safemath.MustBalance("1500000000000000000")}
		low, err := DefaultCurve.SolveD(xp, 1)
		Expect(err).To(Succeed())
		high, err := DefaultCurve.SolveD(xp, 1000)
		Expect(err).To(Succeed())
		Expect(low).To(Equal(safemath.MustBalance("1858889071871241813")))
		Expect(high).To(Equal(safemath.MustBalance("1999667165807183436")))
	})

	It("empty pool", func() {
		D, err := CalculateD(pool(12, 0, 0, 0), 100)
		Expect(err).To(Succeed())
		Expect(D.IsZero()).To(BeTrue())
	})

	DescribeTable("invalid pools",
		func(reserves []AssetReserve, amp uint64, expected error) {
			_, err := CalculateD(reserves, amp)
			Expect(err).To(MatchError(expected))
		},
		Entry("partially empty", pool(12, 1000, 0), uint64(100), ErrZeroReserve),
		Entry("no assets", pool(12), uint64(100), ErrInvalidAssetCount),
		Entry("too many assets", pool(12, 1, 1, 1, 1, 1, 1), uint64(100), ErrInvalidAssetCount),
		Entry("zero amplification", pool(12, 1000, 1000), uint64(0), ErrInvalidAmplification),
		Entry("excessive amplification", pool(12, 1000, 1000), uint64(MaxAmplification+1), ErrInvalidAmplification),
		Entry("excessive decimals", pool(MaxDecimals+1, 1000, 1000), uint64(100), ErrInvalidDecimals),
	)

	It("reserve above 128 bits", func() {
		reserves := pool(12, 1000, 1000)
		reserves[0].Amount = new(uint256.Int).AddUint64(safemath.MaxBalance, 1)
		_, err := CalculateD(reserves, 100)
		Expect(err).To(MatchError(safemath.ErrOverflow))
	})

	It("CalculateY restores the reserve", func() {
		reserves := pool(12, 10000, 10000, 10000, 10000, 10000)
		D, err := CalculateD(reserves, 100)
		Expect(err).To(Succeed())
		for i := range reserves {
			y, err := CalculateY(reserves, i, D, 100)
			Expect(err).To(Succeed())
			Expect(y).To(Equal(u(10000)))
		}

		_, err = CalculateY(reserves, 5, D, 100)
		Expect(err).To(MatchError(ErrInvalidIndex))
	})

	It("SolveY keeps D", func() {
		reserves := pool(18, 3000000, 1000000, 2000000)
		xp, _, err := normalizeReserves(reserves)
		Expect(err).To(Succeed())
		D, err := DefaultCurve.SolveD(xp, 50)
		Expect(err).To(Succeed())

		y, err := DefaultCurve.SolveY(xp, 1, D, 50)
		Expect(err).To(Succeed())
		Expect(safemath.AbsDiff(y, xp[1]).Uint64()).To(BeNumerically("<=", 1))
	})

	It("iteration bound returns the last estimate", func() {
		c, err := NewCurve(Config{MaxDIterations: 1, MaxYIterations: 1})
		Expect(err).To(Succeed())
		reserves := pool(12, 1000000000000, 2000000000000)
		D, err := c.CalculateD(reserves, 100)
		Expect(err).To(Succeed())
		Expect(D.IsZero()).To(BeFalse())
		Expect(D).To(Equal(safemath.MustBalance("2998147004323656578")))
	})

	It("config", func() {
		Expect(DefaultConfig().Validate()).To(Succeed())
		_, err := NewCurve(Config{MaxDIterations: 0, MaxYIterations: 1})
		Expect(err).To(MatchError(ErrInvalidConfig))
		_, err = NewCurve(Config{MaxDIterations: 1, MaxYIterations: -1})
		Expect(err).To(MatchError(ErrInvalidConfig))
	})

	Describe("cache", func() {
		It("matches the solver", func() {
			c, err := NewCachedCurve(DefaultConfig(), 8)
			Expect(err).To(Succeed())
			reserves := pool(12, 1000000000000, 2000000000000)
			for i := 0; i < 3; i++ {
				D, err := c.CalculateD(reserves, 100)
				Expect(err).To(Succeed())
				Expect(D).To(Equal(safemath.MustBalance("2998146985239894576")))
			}
			Expect(c.CacheLen()).To(Equal(1))

			out, err := c.CalculateOutGivenIn(pool(12, 10000, 10000, 10000, 10000, 10000), 2, 4, u(2000), 100)
			Expect(err).To(Succeed())
			Expect(out).To(Equal(u(1994)))
			Expect(c.CacheLen()).To(Equal(2))
		})

		It("cached values are not shared", func() {
			c, err := NewCachedCurve(DefaultConfig(), 8)
			Expect(err).To(Succeed())
			reserves := pool(12, 1000, 1000)
			D, err := c.CalculateD(reserves, 10)
			Expect(err).To(Succeed())
			D.SetUint64(0)
			D, err = c.CalculateD(reserves, 10)
			Expect(err).To(Succeed())
			Expect(D.IsZero()).To(BeFalse())
		})

		It("size", func() {
			_, err := NewCachedCurve(DefaultConfig(), 0)
			Expect(err).To(MatchError(ErrInvalidConfig))
		})
	})
})
