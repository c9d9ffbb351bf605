package page

import (
	"io/fs"
	"os/user"
)

// UnknownOwner is used when a file's owner cannot be resolved.
const UnknownOwner = "unknown"

// OwnerLookup maps a numeric user id to a user name.
type OwnerLookup func(uid string) (string, error)

// LookupUsername resolves uid through the system user database.
func LookupUsername(uid string) (string, error) {
	u, err := user.LookupId(uid)
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// ResolveOwner returns the name of the user owning the file described by
// info, or UnknownOwner.
func ResolveOwner(info fs.FileInfo, lookup OwnerLookup) string {
	uid, ok := fileUID(info)
	if !ok {
		return UnknownOwner
	}
	name, err := lookup(uid)
	if err != nil || name == "" {
		return UnknownOwner
	}
	return name
}
