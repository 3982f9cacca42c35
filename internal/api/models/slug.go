package models

import (
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// Slugify converts a display name into a URL-safe identifier: lowercase
// ASCII letters, digits and hyphens, with runs of anything else collapsed
// into a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// uniqueSlug returns base, or base-2, base-3, ... until the candidate is not
// taken in the given table. The unique index on slug is the final arbiter;
// this keeps the common path collision-free.
func uniqueSlug(tx *gorm.DB, table, base string) (string, error) {
	if base == "" {
		base = "entry"
	}
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Table(table).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
