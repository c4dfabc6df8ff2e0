package service

import "anoa.com/vxrank/internal/entity"

const ActivityLogCap = 10

// AppendActivity puts a in front of log and drops whatever falls past the
// cap. The input slice is not modified.
func AppendActivity(log []entity.Activity, a entity.Activity) []entity.Activity {
	n := len(log) + 1
	if n > ActivityLogCap {
		n = ActivityLogCap
	}
	out := make([]entity.Activity, 0, n)
	out = append(out, a)
	out = append(out, log[:n-1]...)
	return out
}
