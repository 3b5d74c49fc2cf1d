//go:build windows

package index

import "os"

// acquireLock creates the lock file without taking an OS-level lock;
// Windows has no flock. The MCP server runs single-process there, so
// the file only marks an append in progress.
func acquireLock(lockPath string) (func(), error) {
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return func() {
		f.Close()
		os.Remove(lockPath)
	}, nil
}
