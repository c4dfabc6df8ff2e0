package dto

import "io"

// UploadFile is a multipart file handed from a handler to a service.
type UploadFile struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
}

type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// LimitOr returns q.Limit, or fallback when it was not given.
func (q LimitQuery) LimitOr(fallback int) int {
	if q.Limit <= 0 {
		return fallback
	}
	return q.Limit
}
