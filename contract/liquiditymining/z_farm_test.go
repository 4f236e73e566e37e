package liquiditymining

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/fixed"
	"github.com/meverselabs/ammcore/common/safemath"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Farm", func() {
	var (
		global GlobalFarm
		yield  YieldFarm
	)

	BeforeEach(func() {
		global = GlobalFarm{
			TotalSharesZ:       u(1000000),
			PriceAdjustment:    fixed.One(),
			YieldPerPeriod:     fixed.Perquintill(1000000000000000),
			MaxRewardPerPeriod: u(10000),
			PendingRewards:     u(0),
			PaidRewards:        u(0),
		}
		yield = YieldFarm{
			Multiplier:        fixed.One(),
			TotalShares:       u(1000000),
			TotalValuedShares: u(1000000),
		}
	})

	Describe("UpdateGlobalFarm", func() {
		It("accrues elapsed periods", func() {
			g, reward, err := UpdateGlobalFarm(global, 10, u(1000000000))
			Expect(err).To(Succeed())
			Expect(reward).To(Equal(u(10000)))
			Expect(g.UpdatedAt).To(Equal(uint64(10)))
			Expect(g.AccumulatedRpz).To(Equal(f("0.01")))
			Expect(g.PendingRewards).To(Equal(u(10000)))

			// the input snapshot is untouched
			Expect(global.UpdatedAt).To(Equal(uint64(0)))
			Expect(global.PendingRewards.IsZero()).To(BeTrue())
		})

		It("capped by the rewards left", func() {
			g, reward, err := UpdateGlobalFarm(global, 10, u(4000))
			Expect(err).To(Succeed())
			Expect(reward).To(Equal(u(4000)))
			Expect(g.AccumulatedRpz).To(Equal(f("0.004")))
		})

		It("same period", func() {
			global.UpdatedAt = 10
			g, reward, err := UpdateGlobalFarm(global, 10, u(4000))
			Expect(err).To(Succeed())
			Expect(reward.IsZero()).To(BeTrue())
			Expect(g).To(Equal(global))
		})

		It("no shares only moves the period", func() {
			global.TotalSharesZ = u(0)
			g, reward, err := UpdateGlobalFarm(global, 10, u(4000))
			Expect(err).To(Succeed())
			Expect(reward.IsZero()).To(BeTrue())
			Expect(g.UpdatedAt).To(Equal(uint64(10)))
			Expect(g.AccumulatedRpz.IsZero()).To(BeTrue())
		})
	})

	Describe("UpdateYieldFarm", func() {
		It("moves pending rewards to paid", func() {
			g, _, err := UpdateGlobalFarm(global, 10, u(1000000000))
			Expect(err).To(Succeed())
			g, y, err := UpdateYieldFarm(g, yield, 10)
			Expect(err).To(Succeed())

			Expect(y.AccumulatedRpz).To(Equal(g.AccumulatedRpz))
			Expect(y.AccumulatedRpvs).To(Equal(f("0.01")))
			Expect(y.UpdatedAt).To(Equal(uint64(10)))
			Expect(g.PendingRewards.IsZero()).To(BeTrue())
			Expect(g.PaidRewards).To(Equal(u(10000)))
		})

		It("half the global stake", func() {
			global.TotalSharesZ = u(2000000)
			g, reward, err := UpdateGlobalFarm(global, 5, u(1000000000))
			Expect(err).To(Succeed())
			Expect(reward).To(Equal(u(10000)))

			g, y, err := UpdateYieldFarm(g, yield, 5)
			Expect(err).To(Succeed())
			Expect(y.AccumulatedRpvs).To(Equal(f("0.005")))
			Expect(g.PaidRewards).To(Equal(u(5000)))
			Expect(g.PendingRewards).To(Equal(u(5000)))
		})

		It("empty yield farm catches up", func() {
			g, _, err := UpdateGlobalFarm(global, 10, u(1000000000))
			Expect(err).To(Succeed())
			yield.TotalValuedShares = u(0)
			g2, y, err := UpdateYieldFarm(g, yield, 10)
			Expect(err).To(Succeed())
			Expect(y.AccumulatedRpz).To(Equal(g.AccumulatedRpz))
			Expect(y.AccumulatedRpvs.IsZero()).To(BeTrue())
			Expect(g2.PendingRewards).To(Equal(g.PendingRewards))
		})
	})

	Describe("ClaimRewards", func() {
		var (
			deposit Deposit
			farm    YieldFarm
		)

		BeforeEach(func() {
			g, _, err := UpdateGlobalFarm(global, 100, u(1000000000))
			Expect(err).To(Succeed())
			_, farm, err = UpdateYieldFarm(g, yield, 100)
			Expect(err).To(Succeed())
			Expect(farm.AccumulatedRpvs).To(Equal(f("0.1")))

			deposit = Deposit{
				Shares:          u(500000),
				ValuedShares:    u(500000),
				AccumulatedRpvs: fixed.Zero(),
				ClaimedRewards:  u(0),
			}
		})

		It("without loyalty", func() {
			claimable, unclaimable, d, err := ClaimRewards(deposit, farm, 100, nil)
			Expect(err).To(Succeed())
			Expect(claimable).To(Equal(u(50000)))
			Expect(unclaimable.IsZero()).To(BeTrue())
			Expect(d.ClaimedRewards).To(Equal(u(50000)))
			Expect(d.LastClaimedPeriod).To(Equal(uint64(100)))
		})

		It("with loyalty", func() {
			curve := &LoyaltyCurve{InitialRewardPercentage: f("0.5"), ScaleCoef: 100}
			claimable, unclaimable, d, err := ClaimRewards(deposit, farm, 100, curve)
			Expect(err).To(Succeed())
			Expect(claimable).To(Equal(u(37500)))
			Expect(unclaimable).To(Equal(u(12500)))

			claimable, _, d, err = ClaimRewards(d, farm, 100, curve)
			Expect(err).To(Succeed())
			Expect(claimable.IsZero()).To(BeTrue())
			Expect(d.ClaimedRewards).To(Equal(u(37500)))
		})

		It("later claims release the loyalty", func() {
			curve := &LoyaltyCurve{InitialRewardPercentage: f("0.5"), ScaleCoef: 100}
			first, _, d, err := ClaimRewards(deposit, farm, 100, curve)
			Expect(err).To(Succeed())
			second, _, d, err := ClaimRewards(d, farm, 300, curve)
			Expect(err).To(Succeed())
			Expect(second).To(Equal(u(43750 - 37500)))
			Expect(d.ClaimedRewards).To(Equal(new(uint256.Int).Add(first, second)))
		})
	})

	It("rewards are conserved", func() {
		total := u(20500)
		left := safemath.Clone(total)
		g, y := global, yield
		accrued := safemath.Zero()
		for now := uint64(1); now <= 30; now++ {
			var reward *uint256.Int
			var err error
			g, reward, err = UpdateGlobalFarm(g, now, left)
			Expect(err).To(Succeed())
			left.Sub(left, reward)
			accrued.Add(accrued, reward)
			if now%3 == 0 {
				g, y, err = UpdateYieldFarm(g, y, now)
				Expect(err).To(Succeed())
			}
		}
		Expect(new(uint256.Int).Add(g.PaidRewards, g.PendingRewards)).To(Equal(accrued))
		Expect(new(uint256.Int).Add(accrued, left)).To(Equal(total))
		Expect(left.IsZero()).To(BeTrue())
		Expect(y.AccumulatedRpz).To(Equal(g.AccumulatedRpz))
	})
})
