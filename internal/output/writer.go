// Package output writes generated files under the output root.
package output

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// ErrEscapesRoot is returned for relative paths that leave the output root.
var ErrEscapesRoot = errors.New("output path escapes output directory")

// Resolve joins relativePath (slash separated) onto root, refusing absolute
// paths and paths that climb out of root.
func Resolve(root, relativePath string) (string, error) {
	if root == "" {
		return "", ferrors.ValidationError("output directory is required").Build()
	}
	if relativePath == "" {
		return "", ferrors.ValidationError("output path is required").Build()
	}

	cleanRel := filepath.Clean(filepath.FromSlash(relativePath))
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", ferrors.WrapError(ErrEscapesRoot, ferrors.CategoryValidation, "resolve output path").
			Fatal().WithContext("path", relativePath).Build()
	}
	return filepath.Join(root, cleanRel), nil
}

// WriteFile creates or truncates relativePath under root and writes parts in
// order. The parent directory must exist. Errors while writing or closing are
// format errors.
func WriteFile(root, relativePath string, parts ...[]byte) (string, int64, error) {
	fullPath, err := Resolve(root, relativePath)
	if err != nil {
		return "", 0, err
	}

	// #nosec G304 -- fullPath is validated to stay under root.
	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, ferrors.WrapError(err, ferrors.CategoryFileSystem, "open output file").
			Fatal().WithContext("path", fullPath).Build()
	}

	n, werr := writeParts(file, parts)
	cerr := file.Close()
	if werr != nil {
		return "", n, ferrors.WrapError(werr, ferrors.CategoryFormat, "write output file").
			Fatal().WithContext("path", fullPath).Build()
	}
	if cerr != nil {
		return "", n, ferrors.WrapError(cerr, ferrors.CategoryFormat, "close output file").
			Fatal().WithContext("path", fullPath).Build()
	}
	return fullPath, n, nil
}

func writeParts(w io.Writer, parts [][]byte) (int64, error) {
	var total int64
	for _, p := range parts {
		n, err := w.Write(p)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// MkdirMirror creates dir under root. An existing directory is fine.
func MkdirMirror(root, relativeDir string) (string, error) {
	full := root
	if relativeDir != "" && relativeDir != "." {
		var err error
		if full, err = Resolve(root, relativeDir); err != nil {
			return "", err
		}
	}
	if err := os.Mkdir(full, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
			Fatal().WithContext("path", full).Build()
	}
	return full, nil
}
