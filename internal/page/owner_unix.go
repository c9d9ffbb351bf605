//go:build unix

package page

import (
	"io/fs"
	"strconv"
	"syscall"
)

func fileUID(info fs.FileInfo) (string, bool) {
	if info == nil {
		return "", false
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", false
	}
	return strconv.FormatUint(uint64(st.Uid), 10), true
}
