// Package concurrency
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded blocking queue used to hand work between producer goroutines and a
// dedicated consumer, with a cooperative, irreversible close.
package concurrency
