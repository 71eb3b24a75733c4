package sheets

import (
	"strconv"
	"strings"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseID reads the ID column of a mirror row.
func ParseID(cell string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
