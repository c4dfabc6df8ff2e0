package dto

import "anoa.com/vxrank/internal/entity"

type FollowResponse struct {
	Following       bool           `json:"following"`
	TargetFollowers int            `json:"target_followers"`
	Profile         entity.Profile `json:"profile"`
}
