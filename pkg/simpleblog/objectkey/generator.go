package objectkey

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator defines the interface for object key generation strategies.
type Generator interface {
	// GenerateKey creates a collision-resistant storage key for an uploaded
	// file. ext is the final extension including the leading dot.
	GenerateKey(fileName, ext string) string
}

// TimestampGenerator produces timestamp-prefixed keys:
// {prefix}{unix_nano}_{short_uuid}_{sanitized_name}{ext}
// The timestamp keeps listings roughly chronological; the uuid fragment
// resists collisions between uploads in the same nanosecond.
type TimestampGenerator struct {
	// Prefix is prepended verbatim, e.g. "posts/".
	Prefix string
}

// NewTimestampGenerator returns a generator with the given key prefix.
func NewTimestampGenerator(prefix string) *TimestampGenerator {
	return &TimestampGenerator{Prefix: prefix}
}

func (g *TimestampGenerator) GenerateKey(fileName, ext string) string {
	short := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	base := sanitizeFilename(strings.TrimSuffix(path.Base(fileName), path.Ext(fileName)))
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s%d_%s_%s%s", g.Prefix, time.Now().UTC().UnixNano(), short, base, ext)
}

// sanitizeFilename strips characters that are unsafe in object keys.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-.")
}
