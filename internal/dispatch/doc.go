// Package dispatch provides the interaction loop: a single goroutine that
// owns all displayed pipeline state.
//
// Background workers never touch that state directly. They Post a task to
// the Loop, and the Loop runs tasks one at a time, in the order they were
// posted, on the goroutine that called Run.
//
//	loop := dispatch.NewLoop()
//	go func() { _ = loop.Run(ctx) }()
//	loop.Post(func() { controller.OnScanOutcome(status) })
package dispatch
