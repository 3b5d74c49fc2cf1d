//go:build !windows

package index

import (
	"os"
	"syscall"
)

// acquireLock takes an exclusive flock on lockPath so concurrent otk
// processes serialize their index appends. The returned release
// function unlocks and removes the lock file.
func acquireLock(lockPath string) (func(), error) {
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		f.Close()
		os.Remove(lockPath)
	}, nil
}
