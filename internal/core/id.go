package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns an opaque identifier: a base36 millisecond timestamp followed
// by ten random hex characters, so ids created in the same millisecond
// still differ.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + suffix
}
