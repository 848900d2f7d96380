// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are
// in affinity_linux.go and affinity_stub.go.

package affinity

import "runtime"

// SetAffinity pins the current OS thread to a logical CPU. The caller must
// hold the thread with runtime.LockOSThread for the pin to stay meaningful.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}

// PinCurrent locks the calling goroutine to its OS thread and pins that thread
// to cpuID. The goroutine keeps the thread until it exits.
func PinCurrent(cpuID int) error {
	runtime.LockOSThread()
	return SetAffinity(cpuID)
}
