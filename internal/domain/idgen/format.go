// Package idgen exposes the shortid engine as an application service.
package idgen

import (
	"fmt"
	"strings"

	"shortid/internal/core/apperror"
)

// Format names one identifier layout.
type Format string

const (
	Format128  Format = "128"
	Format96   Format = "96"
	Format64   Format = "64"
	FormatUUID Format = "uuid"
)

// ParseFormat accepts the canonical names plus a few aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "128", "id128":
		return Format128, nil
	case "96", "id96":
		return Format96, nil
	case "64", "id64":
		return Format64, nil
	case "uuid", "uuidv1", "v1":
		return FormatUUID, nil
	}
	return "", apperror.NewValidation(fmt.Sprintf("unknown format %q", s)).
		WithDetail("allowed", []Format{Format128, Format96, Format64, FormatUUID})
}

// Size is the binary width of the format in bytes.
func (f Format) Size() int {
	switch f {
	case Format96:
		return 12
	case Format64:
		return 8
	default:
		return 16
	}
}
