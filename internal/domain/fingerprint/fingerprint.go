// Package fingerprint derives the identifiers attached to score submissions:
// a semi-stable device fingerprint used only for rate limiting, and a random
// per-installation anonymous ID used only for display.
//
// The two identities are deliberately independent and must never be joined
// or exposed together.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// delimiter joins signal components before hashing.
const delimiter = "|"

// Placeholders for probes the environment refused or failed.
const (
	canvasDisabled = "canvas-disabled"
	noWebGL        = "no-webgl"
	audioDisabled  = "audio-disabled"
)

// Signals is the ordered set of environment probes a fingerprint is built
// from. Zero values for the optional render signatures are replaced with
// fixed placeholders so that a blocked probe still contributes a component.
type Signals struct {
	UserAgent           string
	ScreenWidth         int
	ScreenHeight        int
	Timezone            string
	Language            string
	Platform            string
	HardwareConcurrency int
	HeapSizeLimit       uint64
	Canvas              string // canvas rendering signature
	WebGL               string // vendor-renderer string
	Audio               string // audio context capability signature
}

func (s Signals) components() []string {
	canvas := s.Canvas
	if canvas == "" {
		canvas = canvasDisabled
	}
	webgl := s.WebGL
	if webgl == "" {
		webgl = noWebGL
	}
	audio := s.Audio
	if audio == "" {
		audio = audioDisabled
	}

	return []string{
		s.UserAgent,
		strconv.Itoa(s.ScreenWidth) + "x" + strconv.Itoa(s.ScreenHeight),
		s.Timezone,
		s.Language,
		s.Platform,
		strconv.Itoa(s.HardwareConcurrency),
		strconv.FormatUint(s.HeapSizeLimit, 10),
		canvas,
		webgl,
		audio,
	}
}

// Generate hashes the joined signal components with SHA-256 and returns the
// hex digest. The result is a best-effort abuse deterrent, not an identity:
// it collides across private sessions and browser updates, and is used for
// nothing beyond the rate-limit check.
func Generate(s Signals) string {
	sum := sha256.Sum256([]byte(strings.Join(s.components(), delimiter)))
	return hex.EncodeToString(sum[:])
}

// GenerateWeak produces a fingerprint with a fast non-cryptographic 32-bit
// hash. Fallback for environments without a usable SHA-256 primitive.
// Weak fingerprints are far more collision-prone than Generate's output and
// serve degraded-environment tolerance only, never security.
func GenerateWeak(s Signals) string {
	return fallbackHash(strings.Join(s.components(), delimiter))
}

// fallbackHash is a rolling multiply-add hash over the string's code points,
// truncated to 32 bits, rendered as hex.
func fallbackHash(s string) string {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	if h < 0 {
		h = -h
	}
	// Negating the minimum int32 leaves it negative; the uint32 view keeps
	// the token plain hex on that input too.
	return strconv.FormatUint(uint64(uint32(h)), 16)
}

// Store is the minimal persistence the anonymous ID needs.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// anonymousIDKey is the namespaced local entry holding the anonymous ID.
const anonymousIDKey = "hb_anonymous_id"

// AnonymousID returns the stored per-installation identifier, creating and
// persisting a fresh one on first use. A failing or nil store degrades to an
// unpersisted ID; the caller still gets a usable identity for this session.
func AnonymousID(store Store) string {
	if store != nil {
		if id, ok, err := store.Get(anonymousIDKey); err == nil && ok && id != "" {
			return id
		}
	}

	id := newAnonymousID()
	if store != nil {
		_ = store.Set(anonymousIDKey, id)
	}
	return id
}

func newAnonymousID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return "anon_" + ts + "_" + random
}
