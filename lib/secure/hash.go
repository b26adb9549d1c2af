package secure

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"wfm-shifts-connector/lib/wfmtime"
)

// HashActivity is one sub-segment of a shift as it participates in the
// identity hash.
type HashActivity struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Hasher computes the identity digest that ties a scheduler shift to its
// WFM counterpart. Both sides render the same shift to one canonical
// string in WFM-local time, so equal digests mean equal shifts no matter
// which system produced the record.
type Hasher struct {
	tz *wfmtime.Normalizer
}

func NewHasher(tz *wfmtime.Normalizer) *Hasher {
	return &Hasher{tz: tz}
}

// Hash digests a shift originating in the WFM system. The canonical string
// is "{localStart}-{localEnd}" followed by each activity's name, local end
// and local start in order, then the notes and the owner id.
func (h *Hasher) Hash(start, end time.Time, activities []HashActivity, notes, ownerID string) string {
	return h.digest(start, end, activities, notes, ownerID)
}

// HashUI digests a shift originating in the scheduler UI. Notes never
// round-trip through the WFM system, so they are excluded to keep the two
// renderings comparable.
func (h *Hasher) HashUI(start, end time.Time, activities []HashActivity, ownerID string) string {
	return h.digest(start, end, activities, "", ownerID)
}

func (h *Hasher) digest(start, end time.Time, activities []HashActivity, notes, ownerID string) string {
	var sb strings.Builder
	sb.WriteString(h.tz.Stamp(start))
	sb.WriteString("-")
	sb.WriteString(h.tz.Stamp(end))
	for _, a := range activities {
		sb.WriteString(a.Name)
		sb.WriteString(h.tz.Stamp(a.End))
		sb.WriteString(h.tz.Stamp(a.Start))
	}
	sb.WriteString(notes)
	sb.WriteString(ownerID)

	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
