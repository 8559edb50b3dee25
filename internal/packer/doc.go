// Package packer assigns rectangular items to non-overlapping positions in a
// single rectangular box using a deterministic first-fit scan, and reports
// how much of the box area the result covers.
//
// Runs are all-or-nothing: when any item cannot be placed the whole run is
// reported as failed with no placements. The package performs no I/O and
// holds no shared state.
package packer
