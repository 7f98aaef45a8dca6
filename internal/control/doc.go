// Package control provides open-loop command sources for the kite simulator.
//
// Each source implements Compute(x, t) and returns a [kite.Command]:
//
//   - [Hold]: the same command for the whole run
//   - [Manual]: whatever the operator last set, safe for concurrent use
//   - [Schedule]: piecewise-constant segments keyed by start time
//
// # Usage
//
//	sched := control.NewSchedule(kite.Command{}, []control.Segment{
//		{At: 5, Command: kite.Command{Delta: 0.1}},
//		{At: 10, Command: kite.Command{Delta: -0.1}},
//	})
//	s := sim.New(model, sched, logger)
//
// None of these look at the state; steering policies are out of scope.
package control
