package service

import (
	"slices"

	"anoa.com/vxrank/internal/entity"
)

// ToggleFollow flips whether viewer follows target. It returns the new viewer
// profile and the change the caller must apply to target's follower count.
// Self-follow is the caller's to refuse.
func ToggleFollow(viewer entity.Profile, target string) (entity.Profile, int) {
	out := viewer.Clone()

	if i := slices.Index(out.Friends, target); i >= 0 {
		out.Friends = slices.Delete(out.Friends, i, i+1)
		out.Following = max(out.Following-1, 0)
		return out, -1
	}

	out.Friends = append(out.Friends, target)
	out.Following++
	return out, 1
}

// ApplyFollowerDelta moves target's follower count by delta, never below zero.
func ApplyFollowerDelta(target entity.Profile, delta int) entity.Profile {
	out := target.Clone()
	out.Followers = max(out.Followers+delta, 0)
	return out
}
