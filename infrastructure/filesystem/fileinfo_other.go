//go:build !unix

package filesystem

import "os"

// Without inode numbers directories can not be identified, so loops through
// followed symlinks are bounded by maxDepth instead.
func identify(info os.FileInfo) (fileID, bool) {
	return fileID{}, false
}

func diskUsage(info os.FileInfo) int64 {
	return info.Size()
}

func linkCount(info os.FileInfo) uint64 {
	return 1
}
