package stableswap

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/fixed"
	"github.com/meverselabs/ammcore/common/safemath"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Trade", func() {
	var reserves []AssetReserve

	BeforeEach(func() {
		reserves = pool(12, 10000, 10000, 10000, 10000, 10000)
	})

	It("out given in", func() {
		out, err := CalculateOutGivenIn(reserves, 2, 4, u(2000), 100)
		Expect(err).To(Succeed())
		Expect(out).To(Equal(u(1994)))
	})

	It("in given out", func() {
		in, err := CalculateInGivenOut(reserves, 2, 4, u(1994), 100)
		Expect(err).To(Succeed())
		Expect(in).To(Equal(u(2000)))
	})

	It("balanced pool is symmetric", func() {
		a, err := CalculateOutGivenIn(reserves, 0, 1, u(500), 100)
		Expect(err).To(Succeed())
		b, err := CalculateOutGivenIn(reserves, 1, 0, u(500), 100)
		Expect(err).To(Succeed())
		Expect(a).To(Equal(b))
	})

	It("output grows with input", func() {
		prev := safemath.Zero()
		for _, v := range []uint64{1, 10, 100, 1000, 5000, 9000} {
			out, err := CalculateOutGivenIn(reserves, 0, 3, u(v), 100)
			Expect(err).To(Succeed())
			Expect(out.Lt(prev)).To(BeFalse())
			Expect(out.Lt(reserves[3].Amount)).To(BeTrue())
			prev = out
		}
	})

	It("inputs does not mutate reserves", func() {
		_, err := CalculateOutGivenIn(reserves, 0, 1, u(500), 100)
		Expect(err).To(Succeed())
		for k := range reserves {
			Expect(reserves[k].Amount).To(Equal(u(10000)))
		}
	})

	It("mixed decimals", func() {
		mixed := []AssetReserve{
			{Amount: safemath.MustBalance("1000000000"), Decimals: 6},
			{Amount: safemath.MustBalance("1000000000000000000000"), Decimals: 18},
		}
		out, err := CalculateOutGivenIn(mixed, 0, 1, u(10000000), 100)
		Expect(err).To(Succeed())
		Expect(out).To(Equal(safemath.MustBalance("9999009901970393118")))

		out, err = CalculateOutGivenIn(mixed, 1, 0, safemath.MustBalance("10000000000000000000"), 100)
		Expect(err).To(Succeed())
		Expect(out).To(Equal(u(9999008)))

		in, err := CalculateInGivenOut(mixed, 0, 1, safemath.MustBalance("10000000000000000000"), 100)
		Expect(err).To(Succeed())
		Expect(in).To(Equal(u(10000992)))
	})

	It("trades with fee keep the invariant from decreasing", func() {
		fee := fixed.PermillFromPercent(1)
		D0, err := CalculateD(reserves, 100)
		Expect(err).To(Succeed())

		out, feeAmount, err := CalculateOutGivenInWithFee(reserves, 2, 4, u(2000), 100, fee)
		Expect(err).To(Succeed())
		Expect(feeAmount).To(Equal(u(19)))
		Expect(out).To(Equal(u(1975)))

		updated := CloneReserves(reserves)
		updated[2].Amount.AddUint64(updated[2].Amount, 2000)
		updated[4].Amount.Sub(updated[4].Amount, out)
		D1, err := CalculateD(updated, 100)
		Expect(err).To(Succeed())
		Expect(D1.Lt(D0)).To(BeFalse())

		in, feeAmount, err := CalculateInGivenOutWithFee(updated, 0, 1, u(1000), 100, fee)
		Expect(err).To(Succeed())
		Expect(feeAmount.IsZero()).To(BeFalse())
		updated[0].Amount.Add(updated[0].Amount, in)
		updated[1].Amount.SubUint64(updated[1].Amount, 1000)
		D2, err := CalculateD(updated, 100)
		Expect(err).To(Succeed())
		Expect(D2.Lt(D1)).To(BeFalse())
	})

	It("fee rounding", func() {
		out, feeAmount, err := CalculateOutGivenInWithFee(reserves, 2, 4, u(2000), 100, fixed.Permill(3000))
		Expect(err).To(Succeed())
		Expect(feeAmount).To(Equal(u(5)))
		Expect(out).To(Equal(u(1989)))

		in, feeAmount, err := CalculateInGivenOutWithFee(reserves, 2, 4, u(1994), 100, fixed.Permill(3000))
		Expect(err).To(Succeed())
		Expect(feeAmount).To(Equal(u(6)))
		Expect(in).To(Equal(u(2006)))

		_, _, err = CalculateOutGivenInWithFee(reserves, 2, 4, u(2000), 100, fixed.Permill(fixed.PermillMax+1))
		Expect(err).To(MatchError(fixed.ErrFractionOutOfRange))
	})

	It("dust output", func() {
		out, err := CalculateOutGivenIn(reserves, 0, 1, u(1), 100)
		Expect(err).To(Succeed())
		Expect(out.IsZero()).To(BeTrue())
	})

	It("cannot drain a reserve", func() {
		_, err := CalculateInGivenOut(reserves, 0, 1, u(10000), 100)
		Expect(err).To(MatchError(ErrInsufficientReserve))
	})

	DescribeTable("invalid trades",
		func(in, out int, amount *uint256.Int, expected error) {
			_, err := CalculateOutGivenIn(reserves, in, out, amount, 100)
			Expect(err).To(MatchError(expected))
			_, err = CalculateInGivenOut(reserves, in, out, amount, 100)
			Expect(err).To(MatchError(expected))
		},
		Entry("index out of range", 2, 5, u(2000), ErrInvalidIndex),
		Entry("negative index", -1, 0, u(2000), ErrInvalidIndex),
		Entry("same asset", 1, 1, u(2000), ErrSameAsset),
		Entry("zero amount", 0, 1, u(0), ErrInsufficientInput),
		Entry("amount above 128 bits", 0, 1, new(uint256.Int).Lsh(u(1), 128), safemath.ErrOverflow),
	)
})
