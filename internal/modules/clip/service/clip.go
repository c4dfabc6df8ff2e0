package service

import "anoa.com/vxrank/internal/entity"

// SaveClip puts c at the front of the profile's clip list.
func SaveClip(p entity.Profile, c entity.Clip) entity.Profile {
	out := p.Clone()
	out.Clips = append([]entity.Clip{c}, out.Clips...)
	return out
}

// PostClip shares a clip on the profile and assigns its like count. A clip is
// posted at most once; posting it again changes nothing. found is false when
// no clip has that id.
func PostClip(p entity.Profile, clipID string, likes int) (out entity.Profile, found bool) {
	idx := -1
	for i, c := range p.Clips {
		if c.ID == clipID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p, false
	}
	if p.Clips[idx].IsPosted {
		return p, true
	}

	out = p.Clone()
	out.Clips[idx].IsPosted = true
	out.Clips[idx].Likes = likes
	return out, true
}

// AddViews adds n views to a clip. found is false when no clip has that id.
func AddViews(p entity.Profile, clipID string, n int) (out entity.Profile, found bool) {
	for i, c := range p.Clips {
		if c.ID != clipID {
			continue
		}
		out = p.Clone()
		out.Clips[i].Views += n
		return out, true
	}
	return p, false
}
