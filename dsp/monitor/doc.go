// Package monitor taps signals from the audio thread and turns them into
// min/max histories and spectra for display.
//
// The audio side only touches a Backend: it fills pre-allocated buffers
// and queues them. A Monitor goroutine drains the queue through a
// Processor, recycles the buffers and publishes snapshots.
package monitor
