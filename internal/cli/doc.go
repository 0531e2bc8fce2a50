// Package cli wires the docsync commands: push, login, logout, keys,
// init, and version. Commands build their collaborators through newApp
// and return structured errors; Execute renders them once at the top.
package cli
