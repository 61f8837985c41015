// Package sequencer plays a list of sign programs back the way the physical
// sign does.
//
// A Sequencer is driven by a single clock: the host calls OnTick with the
// seconds elapsed since the previous frame. Each call advances, in this order:
//
//  1. the program transition overlay, if one is running
//  2. the elapsed time of the current program
//  3. the program expiry check (which may switch program and end the tick)
//  4. the per-item stop timers
//  5. the per-item stop transitions
//
// Control operations (Play, Pause, Stop, NextProgram, PreviousProgram,
// GoToProgram, SetPrograms) and OnTick return the ordered list of events they
// produced, so the host decides where notifications go (UI, renderer, log).
//
// # Concurrency
//
// A Sequencer is not safe for concurrent use. Ticks and control operations
// must come from one goroutine; see package player for a driver that
// serializes commands onto the clock goroutine.
//
// # Invalid input
//
// No operation fails. Out-of-range program indices are clamped, operations on
// an empty program list do nothing, and negative, NaN or infinite deltas are
// treated as zero. If two items share an id, the item that appears last owns
// the shared stop timer.
package sequencer
