package kite_test

import (
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kitesim/internal/geom"
	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/params"
)

func TestKite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Kite Suite")
}

var _ = Describe("Model.Step", func() {
	var (
		model *kite.Model
		state kite.State
		input kite.Input
	)

	BeforeEach(func() {
		model = kite.NewModel(nil, nil)
		state = kite.DefaultState()
		input = kite.DefaultInput()
	})

	Context("over a long run with steering input", func() {
		It("keeps theta and the tether rates inside their clamps", func() {
			input.Delta.Value = 0.1
			input.Epsilon.Value = 1
			rateLimit := geom.Radians(kite.RateLimitDeg)

			for i := 0; i < 2000; i++ {
				next, _, err := model.Step(state, input, 0.02)
				if err != nil {
					Expect(err).To(MatchError(kite.ErrDegenerateState))
					break
				}
				state = next

				Expect(state.Theta).To(BeNumerically(">=", 0))
				Expect(state.Theta).To(BeNumerically("<=", math.Pi/2))
				Expect(math.Abs(state.DTheta)).To(BeNumerically("<=", rateLimit))
				Expect(math.Abs(state.DPhi)).To(BeNumerically("<=", rateLimit))
			}
		})
	})

	It("is deterministic for identical inputs", func() {
		input.Delta.Value = -0.2
		a, outA, errA := model.Step(state, input, 0.05)
		b, outB, errB := model.Step(state, input, 0.05)

		Expect(errA).NotTo(HaveOccurred())
		Expect(errB).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
		Expect(outA).To(Equal(outB))
	})

	It("does not mutate its arguments", func() {
		before := state
		inBefore := input
		_, _, err := model.Step(state, input, 0.05)

		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(Equal(before))
		Expect(input).To(Equal(inBefore))
	})

	It("quantizes theta to four decimals", func() {
		state.Theta = 0.12340001
		state.DTheta = 0

		next, _, err := model.Step(state, input, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.Theta).To(Equal(0.1234))
	})

	It("accumulates boat heading from the rudder rate", func() {
		input.BoatHeadingSpeed.Value = 0.1
		for i := 0; i < 3; i++ {
			next, _, err := model.Step(state, input, 2)
			Expect(err).NotTo(HaveOccurred())
			state = next
		}
		Expect(state.BoatHeading).To(BeNumerically("~", 0.6, 1e-12))
	})

	It("carries boat speed through by default", func() {
		state.BoatSpeed = 12
		next, _, err := model.Step(state, input, 0.05)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.BoatSpeed).To(Equal(12.0))
	})

	Context("with no wind and the kite at rest", func() {
		BeforeEach(func() {
			Expect(model.SetParam(params.TrueWindSpeed, 0)).To(Succeed())
		})

		It("reports a degenerate state and leaves the state untouched", func() {
			next, out, err := model.Step(state, input, 0.05)

			Expect(err).To(MatchError(kite.ErrDegenerateState))
			var de *kite.DegenerateStateError
			Expect(err).To(BeAssignableToTypeOf(de))
			Expect(next).To(Equal(state))
			Expect(out).To(Equal(kite.Output{}))
		})

		It("recovers once the tether moves", func() {
			state.DTheta = 0.5
			_, _, err := model.Step(state, input, 0.05)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})

var _ = Describe("Reset", func() {
	It("restores the start-up state regardless of history", func() {
		Expect(kite.ResetState()).To(Equal(kite.DefaultState()))
		Expect(kite.ResetState().Theta).To(Equal(math.Pi / 4))
		Expect(kite.ResetState().Phi).To(BeNumerically("~", -0.6981317, 1e-7))
	})

	It("zeroes input values and keeps their metadata", func() {
		in := kite.DefaultInput()
		in.Delta.Value = 0.3
		in.Epsilon.Value = -2
		in.BoatHeadingSpeed.Value = 1

		in.Reset()
		Expect(in).To(Equal(kite.DefaultInput()))
	})

	It("zeroes the output", func() {
		Expect(kite.ResetOutput()).To(Equal(kite.Output{}))
	})
})
