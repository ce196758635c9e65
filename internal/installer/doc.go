// Package installer hands a downloaded package to the system package
// manager with elevated privileges and reports whether it succeeded.
package installer
