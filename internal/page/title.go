package page

import (
	"path"
	"strings"
)

// HomeTitle is the title of the index page at the source root.
const HomeTitle = "Home"

var titleSpacer = strings.NewReplacer("_", " ", "-", " ")

// DeriveTitle computes a page title from its path relative to the source
// root (slash separated):
//
//   - index or index.* at the root is "Home";
//   - index or index.* in a directory takes the directory's name;
//   - anything else is the file name without its last extension.
//
// Except for "Home", underscores and hyphens become spaces.
func DeriveTitle(rel string) string {
	dir, file := path.Split(path.Clean(rel))

	var title string
	if isIndex(file) {
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" || dir == "." {
			return HomeTitle
		}
		title = path.Base(dir)
	} else {
		title = file
		if i := strings.LastIndexByte(file, '.'); i >= 0 {
			title = file[:i]
		}
	}
	return titleSpacer.Replace(title)
}

func isIndex(file string) bool {
	return file == "index" || strings.HasPrefix(file, "index.")
}
