package model

import (
	"strings"

	"github.com/google/uuid"
)

// newID returns a prefixed identifier such as "bndl_3f2c...".
func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
