package extract

import (
	"time"

	"scribey-companion/core/luatable"
)

// MaxSkillCap is the profession skill ceiling assumed when the add-on omits
// a max_skill_level field.
const MaxSkillCap = 300

// DefaultFormatVersion is reported when the file carries no version token.
const DefaultFormatVersion = "1.0.0"

// AddonSnapshot is one fully decoded and extracted capture of add-on state.
// Characters are keyed by "<Name>-<Realm>".
type AddonSnapshot struct {
	Characters    map[string]CharacterRecord `json:"characters"`
	Auction       AuctionRecord              `json:"auction"`
	CraftedItems  map[string]luatable.Value  `json:"craftedItems"`
	Settings      map[string]luatable.Value  `json:"settings"`
	CapturedAt    time.Time                  `json:"capturedAt"`
	FormatVersion string                     `json:"formatVersion"`
}

// CharacterRecord is one character's extracted state.
type CharacterRecord struct {
	Name        string             `json:"name"`
	Realm       string             `json:"realm"`
	Class       string             `json:"class"`
	Professions []ProfessionRecord `json:"professions"`
}

// ProfessionRecord is a single learned profession.
type ProfessionRecord struct {
	Name       string `json:"name"`
	SkillLevel int    `json:"skillLevel"`
	MaxSkill   int    `json:"maxSkill"`
}

// AuctionRecord summarizes the add-on's auction house scan data.
type AuctionRecord struct {
	LastScanTime int64                     `json:"lastScanTime"`
	ScanCount    int                       `json:"scanCount"`
	Realm        string                    `json:"realm"`
	ItemCount    int                       `json:"itemCount"`
	Items        map[string]luatable.Value `json:"items"`
}

// Ledger records the per-character outcome of one extraction run. It is
// informational only.
type Ledger struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

func newLedger() *Ledger {
	return &Ledger{Succeeded: []string{}, Failed: map[string]string{}}
}

func (l *Ledger) ok(key string) {
	l.Succeeded = append(l.Succeeded, key)
}

func (l *Ledger) fail(key, reason string) {
	l.Failed[key] = reason
}
