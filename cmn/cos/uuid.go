// Package cos provides the node core's low-level shared types: typed
// errors, error aggregation, and stable-identity generation for newly
// published nodes.
package cos

import (
	"github.com/OneOfOne/xxhash"
	"github.com/teris-io/shortid"
)

// alphabet for generating ids similar to shortid.DEFAULT_ABC
const uuidABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

const (
	LenShortID = 9
	tooLongID  = 32
)

var sid *shortid.Shortid

// InitShortID seeds the id generator once, at process start (or, in
// tests, once per suite). Nodes are assigned a stable identity only
// on publication (init-complete), never at construction time.
func InitShortID(seed uint64) {
	sid = shortid.MustNew(4, uuidABC, seed)
}

// GenUUID returns a new stable identity for a node entering the
// registry. Mirrors the teacher's GenUUID/GenTie tie-breaking: a
// generated id that happens to start or end with a character this
// core treats as non-leading/trailing gets a deterministic one-letter
// patch rather than being regenerated.
func GenUUID() string {
	if sid == nil {
		InitShortID(1)
	}
	uuid := sid.MustGenerate()
	var h, t string
	if !isAlpha(uuid[0]) {
		h = string(rune('A' + int(tie()%26)))
	}
	c := uuid[len(uuid)-1]
	if c == '-' || c == '_' {
		t = string(rune('a' + int(tie()%26)))
	}
	return h + uuid + t
}

var tieCounter uint32

func tie() uint32 {
	tieCounter++
	return tieCounter
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsValidUUID reports whether uuid looks like something GenUUID could
// have produced: long enough, and built only from the alphanumeric
// (plus -, _) charset.
func IsValidUUID(uuid string) bool {
	return len(uuid) >= LenShortID && isAlphaNice(uuid)
}

func isAlphaNice(s string) bool {
	l := len(s)
	if l > tooLongID {
		return false
	}
	for i := 0; i < l; i++ {
		c := s[i]
		if isAlpha(c) || (c >= '0' && c <= '9') {
			continue
		}
		if c != '-' && c != '_' {
			return false
		}
	}
	return true
}

// HashTag derives a short, deterministic tag from a name, for
// disambiguating log lines of nodes sharing a display name, the way the
// teacher derives a proxy tag from a node name via xxhash. Nothing in
// this module calls it.
func HashTag(name string) string {
	digest := xxhash.Checksum64S([]byte(name), 0)
	const abc = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 4)
	for i := range b {
		b[i] = abc[digest%uint64(len(abc))]
		digest /= uint64(len(abc))
	}
	return string(b)
}
