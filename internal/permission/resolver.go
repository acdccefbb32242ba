// Package permission computes a player's effective permission set.
package permission

import (
	"slices"
	"sort"
)

type RankPermissions interface {
	GetPermissions(rank string) []string
}

// Resolve returns the direct grants plus the permissions of every rank in
// ranks, sorted and without duplicates. Ancestors of the held ranks do not
// contribute; the hierarchy only decides display precedence.
func Resolve(direct []string, ranks []string, store RankPermissions) []string {
	set := make(map[string]struct{}, len(direct))
	for _, p := range direct {
		set[p] = struct{}{}
	}
	for _, r := range ranks {
		for _, p := range store.GetPermissions(r) {
			set[p] = struct{}{}
		}
	}

	effective := make([]string, 0, len(set))
	for p := range set {
		effective = append(effective, p)
	}
	sort.Strings(effective)
	return effective
}

// Diff reports which permissions the host has to attach and detach to go from
// previous to next.
func Diff(previous []string, next []string) (granted []string, revoked []string) {
	granted = []string{}
	revoked = []string{}

	for _, p := range next {
		if !slices.Contains(previous, p) && !slices.Contains(granted, p) {
			granted = append(granted, p)
		}
	}
	for _, p := range previous {
		if !slices.Contains(next, p) && !slices.Contains(revoked, p) {
			revoked = append(revoked, p)
		}
	}

	sort.Strings(granted)
	sort.Strings(revoked)
	return granted, revoked
}
