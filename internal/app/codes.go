package app

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// randomBase36 returns n random base36 characters.
func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}

// humanCode builds codes like BKG-20260902-4F7K2Q. The date part uses the
// studio's local calendar so codes sort the way staff read them.
func humanCode(prefix string, at time.Time) string {
	return prefix + "-" + at.In(schedule.Seoul).Format("20060102") + "-" + randomBase36(6)
}

// slugify turns a title into a URL slug. Hangul and other letters are kept
// as-is (URLs percent-encode them); everything else collapses to hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "news-" + strings.ToLower(randomBase36(6))
	}
	return slug
}
