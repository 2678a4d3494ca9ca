//go:generate mockgen -destination=./mocks/owner.go . Resolver

// Package owner parses and resolves "user[:group]" ownership targets.
package owner

import (
	"os/user"
	"strconv"
	"strings"

	"github.com/glorpus-work/permfix/pkg/errors"
)

// Spec is a parsed ownership target. Empty fields are left unchanged.
type Spec struct {
	User  string
	Group string
}

// String renders the spec in "user:group" form.
func (s Spec) String() string {
	if s.Group == "" {
		return s.User
	}
	return s.User + ":" + s.Group
}

// IsZero reports whether no ownership change was requested.
func (s Spec) IsZero() bool {
	return s.User == "" && s.Group == ""
}

// Parse accepts "user", "user:group" or ":group". An empty value yields the
// zero Spec.
func Parse(value string) (Spec, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Spec{}, nil
	}

	userPart, groupPart, hasGroup := strings.Cut(value, ":")
	if hasGroup && groupPart == "" {
		return Spec{}, errors.ErrInvalidOwnerWithDetails(value, "empty group")
	}
	if strings.Contains(groupPart, ":") {
		return Spec{}, errors.ErrInvalidOwnerWithDetails(value, "too many ':' separators")
	}
	if userPart == "" && !hasGroup {
		return Spec{}, errors.ErrInvalidOwnerWithDetails(value, "empty user")
	}
	return Spec{User: userPart, Group: groupPart}, nil
}

// IDs are numeric owner and group IDs; -1 leaves that side unchanged,
// matching os.Chown.
type IDs struct {
	UID int
	GID int
}

// Resolver looks up account names.
type Resolver interface {
	LookupUser(name string) (int, error)
	LookupGroup(name string) (int, error)
}

// Resolve turns spec into numeric IDs. Purely numeric names are used as-is.
func Resolve(spec Spec, r Resolver) (IDs, error) {
	ids := IDs{UID: -1, GID: -1}
	if spec.User != "" {
		uid, err := lookup(spec.User, r.LookupUser)
		if err != nil {
			return IDs{}, errors.ErrInvalidOwnerWithDetails(spec.String(), err.Error())
		}
		ids.UID = uid
	}
	if spec.Group != "" {
		gid, err := lookup(spec.Group, r.LookupGroup)
		if err != nil {
			return IDs{}, errors.ErrInvalidOwnerWithDetails(spec.String(), err.Error())
		}
		ids.GID = gid
	}
	return ids, nil
}

func lookup(name string, fn func(string) (int, error)) (int, error) {
	if id, err := strconv.Atoi(name); err == nil {
		if id < 0 {
			return 0, errors.Wrapf(errors.ErrInvalidOwner, "negative id %d", id)
		}
		return id, nil
	}
	return fn(name)
}

// SystemResolver resolves names against the local account database.
type SystemResolver struct{}

// LookupUser returns the uid for name.
func (SystemResolver) LookupUser(name string) (int, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(u.Uid)
}

// LookupGroup returns the gid for name.
func (SystemResolver) LookupGroup(name string) (int, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(g.Gid)
}
