// Package client implements the interactive application runtime.
//
// It wires the terminal UI flows and the incident services into a single
// process lifecycle: restore or establish a session, run the main loop, and
// start over on sign-out.
package client
