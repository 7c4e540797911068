package vos

import (
	"fmt"
	"os/user"
	"strconv"
)

// VUsers is the system user database.
type VUsers interface {
	// UserHomeDir returns the home directory of the user with the given id.
	UserHomeDir(uid int) (string, error)
}

// HostUsers reads the system user database.
type HostUsers struct{}

var _ VUsers = HostUsers{}

// UserHomeDir implements VUsers.UserHomeDir.
func (HostUsers) UserHomeDir(uid int) (string, error) {
	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		return "", err
	}
	if u.HomeDir == "" {
		return "", fmt.Errorf("user %s has no home directory", u.Username)
	}
	return u.HomeDir, nil
}

// MapUsers is an in-memory user database keyed by uid.
type MapUsers map[int]string

var _ VUsers = MapUsers(nil)

// UserHomeDir implements VUsers.UserHomeDir.
func (m MapUsers) UserHomeDir(uid int) (string, error) {
	if home, ok := m[uid]; ok {
		return home, nil
	}
	return "", user.UnknownUserIdError(uid)
}
