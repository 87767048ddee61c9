// Package host is the only place that touches the host process: reading the
// console state, calling the host print routine, and detouring the console
// input handler. Everything here is unsafe by nature and kept small; the
// Simulated types give the rest of the pipeline an in-memory host for tests
// and for the developer console.
package host
