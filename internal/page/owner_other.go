//go:build !unix

package page

import "io/fs"

func fileUID(fs.FileInfo) (string, bool) {
	return "", false
}
