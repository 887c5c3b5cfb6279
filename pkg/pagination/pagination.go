package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/carwash-booking/pkg/common"
)

const (
	DefaultLimit  = 20
	MaxLimit      = 100
	DefaultOffset = 0
)

// Params holds limit/offset pagination
type Params struct {
	Limit  int
	Offset int
}

// ParseParams reads limit and offset from the query string. Invalid values
// fall back to defaults and limit is capped at MaxLimit.
func ParseParams(c *gin.Context) Params {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = DefaultOffset
	}

	return Params{Limit: limit, Offset: offset}
}

// BuildMeta builds the response metadata for a page
func BuildMeta(limit, offset int, total int64) *common.Meta {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return &common.Meta{
		Limit:      limit,
		Offset:     offset,
		Total:      total,
		TotalPages: totalPages,
	}
}

// HasMore reports whether rows remain after this page
func HasMore(offset, limit int, total int64) bool {
	return int64(offset+limit) < total
}
