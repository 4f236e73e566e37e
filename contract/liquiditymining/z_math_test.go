package liquiditymining

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/fixed"
	"github.com/meverselabs/ammcore/common/safemath"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Math", func() {

	Describe("CalculateLoyaltyMultiplier", func() {
		curve := LoyaltyCurve{InitialRewardPercentage: f("0.5"), ScaleCoef: 100}

		DescribeTable("values",
			func(periods uint64, expected string) {
				m, err := CalculateLoyaltyMultiplier(periods, curve)
				Expect(err).To(Succeed())
				Expect(m).To(Equal(f(expected)))
			},
			Entry("entry period", uint64(0), "0.5"),
			Entry("one period", uint64(1), "0.50495049504950495"),
			Entry("scale periods", uint64(100), "0.75"),
			Entry("three scales", uint64(300), "0.875"),
		)

		It("grows strictly toward one", func() {
			prev, err := CalculateLoyaltyMultiplier(0, curve)
			Expect(err).To(Succeed())
			for t := uint64(1); t <= 1000; t++ {
				m, err := CalculateLoyaltyMultiplier(t, curve)
				Expect(err).To(Succeed())
				Expect(prev.Less(m)).To(BeTrue())
				Expect(m.Less(fixed.One())).To(BeTrue())
				prev = m
			}
		})

		It("zero scale is immediately one", func() {
			m, err := CalculateLoyaltyMultiplier(1, LoyaltyCurve{InitialRewardPercentage: f("0.1")})
			Expect(err).To(Succeed())
			Expect(m.IsOne()).To(BeTrue())
		})

		It("full initial percentage stays one", func() {
			for _, t := range []uint64{0, 1, 50, 1000000} {
				m, err := CalculateLoyaltyMultiplier(t, LoyaltyCurve{InitialRewardPercentage: fixed.One(), ScaleCoef: 10})
				Expect(err).To(Succeed())
				Expect(m.IsOne()).To(BeTrue())
			}
		})

		It("initial percentage above one", func() {
			_, err := CalculateLoyaltyMultiplier(10, LoyaltyCurve{InitialRewardPercentage: f("1.5"), ScaleCoef: 10})
			Expect(err).To(MatchError(ErrInvalidLoyaltyCurve))
		})
	})

	Describe("CalculateAccumulatedRps", func() {
		It("adds the reward per share", func() {
			rps, err := CalculateAccumulatedRps(fixed.Zero(), u(1000), u(100))
			Expect(err).To(Succeed())
			Expect(rps).To(Equal(f("0.1")))

			rps, err = CalculateAccumulatedRps(rps, u(1000), u(50))
			Expect(err).To(Succeed())
			Expect(rps).To(Equal(f("0.15")))
		})

		It("rounds down", func() {
			rps, err := CalculateAccumulatedRps(fixed.Zero(), u(3), u(1))
			Expect(err).To(Succeed())
			Expect(rps).To(Equal(f("0.333333333333333333")))
		})

		It("no shares", func() {
			_, err := CalculateAccumulatedRps(fixed.Zero(), u(0), u(10000))
			Expect(err).To(MatchError(ErrDivisionByZero))
		})
	})

	Describe("shares", func() {
		It("valued shares", func() {
			v, err := CalculateValuedShares(u(1000), u(2500))
			Expect(err).To(Succeed())
			Expect(v).To(Equal(u(2500000)))

			_, err = CalculateValuedShares(safemath.MaxBalance, u(2))
			Expect(err).To(MatchError(ErrOverflow))
		})

		It("global farm shares", func() {
			v, err := CalculateGlobalFarmShares(u(1001), f("0.5"))
			Expect(err).To(Succeed())
			Expect(v).To(Equal(u(500)))
		})
	})

	Describe("CalculateReward", func() {
		It("pays the accumulator growth", func() {
			r, err := CalculateReward(f("0.1"), f("0.35"), u(1000))
			Expect(err).To(Succeed())
			Expect(r).To(Equal(u(250)))

			r, err = CalculateReward(f("0.35"), f("0.35"), u(1000))
			Expect(err).To(Succeed())
			Expect(r.IsZero()).To(BeTrue())
		})

		It("accumulator decreased", func() {
			_, err := CalculateReward(f("0.35"), f("0.1"), u(1000))
			Expect(err).To(MatchError(ErrAccumulatorDecreased))
		})
	})

	Describe("CalculateUserReward", func() {
		DescribeTable("split",
			func(claimed uint64, multiplier string, claimable, unclaimable uint64) {
				c, uc, err := CalculateUserReward(fixed.Zero(), u(1000), u(claimed), f("0.35"), f(multiplier))
				Expect(err).To(Succeed())
				Expect(c).To(Equal(u(claimable)))
				Expect(uc).To(Equal(u(unclaimable)))
			},
			Entry("full multiplier", uint64(0), "1", uint64(350), uint64(0)),
			Entry("dampened", uint64(0), "0.75", uint64(262), uint64(88)),
			Entry("claimed before", uint64(100), "0.75", uint64(162), uint64(88)),
			Entry("nothing left", uint64(262), "0.75", uint64(0), uint64(88)),
		)

		It("claimed more than entitled", func() {
			_, _, err := CalculateUserReward(fixed.Zero(), u(1000), u(300), f("0.35"), f("0.75"))
			Expect(err).To(MatchError(ErrClaimedExceedsRewards))
		})

		It("multiplier above one", func() {
			_, _, err := CalculateUserReward(fixed.Zero(), u(1000), u(0), f("0.35"), f("1.1"))
			Expect(err).To(MatchError(ErrInvalidLoyaltyCurve))
		})
	})

	Describe("CalculateGlobalFarmRewards", func() {
		yield := fixed.Perquintill(1000000000000000)

		It("yield per period", func() {
			r, err := CalculateGlobalFarmRewards(u(1000000), fixed.One(), yield, u(10000), 3)
			Expect(err).To(Succeed())
			Expect(r).To(Equal(u(3000)))
		})

		It("capped per period", func() {
			r, err := CalculateGlobalFarmRewards(u(1000000), fixed.One(), yield, u(500), 3)
			Expect(err).To(Succeed())
			Expect(r).To(Equal(u(1500)))
		})

		It("price adjustment", func() {
			r, err := CalculateGlobalFarmRewards(u(1000000), f("0.5"), yield, u(10000), 2)
			Expect(err).To(Succeed())
			Expect(r).To(Equal(u(1000)))
		})

		It("yield above one", func() {
			_, err := CalculateGlobalFarmRewards(u(1000000), fixed.One(), fixed.PerquintillMax+1, u(10000), 2)
			Expect(err).To(MatchError(fixed.ErrFractionOutOfRange))
		})
	})

	Describe("yield farm", func() {
		It("rewards", func() {
			r, err := CalculateYieldFarmRewards(f("0.1"), f("0.3"), f("2"), u(1000))
			Expect(err).To(Succeed())
			Expect(r).To(Equal(u(400)))
		})

		It("delta rpvs", func() {
			delta, r, err := CalculateYieldFarmDeltaRpvs(f("0.1"), f("0.3"), f("2"), u(1000))
			Expect(err).To(Succeed())
			Expect(r).To(Equal(u(400)))
			Expect(delta).To(Equal(f("0.4")))
		})

		It("no valued shares", func() {
			_, _, err := CalculateYieldFarmDeltaRpvs(f("0.1"), f("0.3"), f("2"), new(uint256.Int))
			Expect(err).To(MatchError(ErrDivisionByZero))
		})
	})
})
