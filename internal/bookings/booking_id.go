package bookings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/richxcame/carwash-booking/pkg/common"
)

// IDFormat renders internal ids as fixed-width human ids such as BK000042
type IDFormat struct {
	Prefix string
	Width  int
}

// DefaultIDFormat is BK followed by six digits
var DefaultIDFormat = IDFormat{Prefix: "BK", Width: 6}

// Format returns the human id for id. Ids wider than Width are not truncated.
func (f IDFormat) Format(id int64) string {
	return fmt.Sprintf("%s%0*d", f.Prefix, f.Width, id)
}

// Parse accepts a human id or a bare number and returns the internal id
func (f IDFormat) Parse(s string) (int64, error) {
	raw := strings.TrimSpace(s)
	if f.Prefix != "" && len(raw) > len(f.Prefix) && strings.EqualFold(raw[:len(f.Prefix)], f.Prefix) {
		raw = raw[len(f.Prefix):]
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewBadRequestError(fmt.Sprintf("invalid booking id %q", s), err)
	}
	return id, nil
}
