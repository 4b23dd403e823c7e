// Package engine runs a node graph in real time.
//
// New returns a Configurator for the control thread and an Executor for the
// audio thread. The configurator allocates nodes, compiles programs and
// sends them, together with parameter changes, over bounded lock-free
// queues. The executor installs them at block boundaries, smooths
// parameter changes and runs the program without blocking or allocating.
// Retired nodes and programs are released on a separate drop goroutine.
package engine
