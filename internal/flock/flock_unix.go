//go:build unix

package flock

import "syscall"

// Exclusive takes a non-blocking exclusive lock on the record file
// descriptor. It fails immediately when another run holds the lock,
// leaving the caller to back off and retry.
func Exclusive(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_EX|syscall.LOCK_NB)
}

// Unlock releases the lock on the record file descriptor.
func Unlock(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_UN)
}
