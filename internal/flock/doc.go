// Package flock provides cross-platform file locking utilities.
//
// The task store uses these locks to serialize concurrent writes to a
// deploy record. Locks are exclusive and non-blocking, and work on both
// Unix and Windows systems.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
//	if err := flock.Exclusive(file.Fd()); err != nil {
//	    // Lock not acquired - file is in use
//	}
//	defer flock.Unlock(file.Fd())
package flock
