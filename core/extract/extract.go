package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"scribey-companion/core/luatable"
)

// ErrNoData reports that the decoded tree carries no character_data section.
// This is the "nothing to extract" signal, not a failure.
var ErrNoData = errors.New("no character data present")

// versionPattern matches a `version = "<value>"` token anywhere in the raw
// file text. The version is scanned independently of the decoded tree because
// it may live in a comment or a differently-typed field.
var versionPattern = regexp.MustCompile(`version\s*=\s*"([^"]+)"`)

// Extract walks the decoded root map and produces a typed snapshot plus a
// per-character ledger. raw is the original file content, used only for the
// format-version scan.
func Extract(root luatable.Value, raw []byte) (*AddonSnapshot, *Ledger, error) {
	charData, ok := root.Field("character_data")
	if !ok || charData.Kind != luatable.KindMap {
		return nil, nil, ErrNoData
	}

	ledger := newLedger()
	snapshot := &AddonSnapshot{
		Characters:    make(map[string]CharacterRecord, len(charData.Map)),
		Auction:       extractAuction(root),
		CraftedItems:  passthroughMap(root, "crafted_items"),
		Settings:      passthroughMap(root, "settings"),
		CapturedAt:    time.Now().UTC(),
		FormatVersion: FormatVersion(raw),
	}

	for key, entry := range charData.Map {
		record, err := extractCharacter(key, entry)
		if err != nil {
			// One malformed character must not discard the rest.
			ledger.fail(key, err.Error())
			continue
		}
		snapshot.Characters[key] = record
		ledger.ok(key)
	}

	return snapshot, ledger, nil
}

// FormatVersion scans raw file content for the version token, defaulting
// when absent.
func FormatVersion(raw []byte) string {
	if m := versionPattern.FindSubmatch(raw); m != nil {
		return string(m[1])
	}
	return DefaultFormatVersion
}

func extractCharacter(key string, entry luatable.Value) (CharacterRecord, error) {
	if entry.Kind != luatable.KindMap {
		return CharacterRecord{}, fmt.Errorf("character entry is %s, expected map", entry.Kind)
	}

	name := stringField(entry, "character_name")
	realm := stringField(entry, "realm_name")
	if name == "" || realm == "" {
		// Fall back to the "<Name>-<Realm>" map key. Realm names may
		// themselves contain a dash, so only the first separator splits.
		keyName, keyRealm, _ := strings.Cut(key, "-")
		if name == "" {
			name = keyName
		}
		if realm == "" {
			realm = keyRealm
		}
	}

	class := stringField(entry, "class")
	if class == "" {
		class = "UNKNOWN"
	}

	return CharacterRecord{
		Name:        name,
		Realm:       realm,
		Class:       class,
		Professions: extractProfessions(entry),
	}, nil
}

func extractProfessions(entry luatable.Value) []ProfessionRecord {
	professions := []ProfessionRecord{}
	list, ok := entry.Field("professions")
	if !ok || list.Kind != luatable.KindArray {
		return professions
	}

	for _, item := range list.Array {
		if item.Kind != luatable.KindMap {
			continue
		}
		name := stringField(item, "name")
		if name == "" {
			continue
		}
		record := ProfessionRecord{
			Name:       name,
			SkillLevel: numberField(item, "skill_level", 0),
			MaxSkill:   numberField(item, "max_skill_level", MaxSkillCap),
		}
		professions = append(professions, record)
	}
	return professions
}

func extractAuction(root luatable.Value) AuctionRecord {
	record := AuctionRecord{Items: map[string]luatable.Value{}}
	auction, ok := root.Field("auction_data")
	if !ok || auction.Kind != luatable.KindMap {
		return record
	}

	record.LastScanTime = int64(numberField(auction, "last_scan_time", 0))
	record.ScanCount = numberField(auction, "scan_count", 0)
	record.Realm = stringField(auction, "realm")
	if items, ok := auction.Field("items"); ok && items.Kind == luatable.KindMap {
		record.Items = items.Map
	}
	record.ItemCount = len(record.Items)
	return record
}

func passthroughMap(root luatable.Value, key string) map[string]luatable.Value {
	if section, ok := root.Field(key); ok && section.Kind == luatable.KindMap {
		return section.Map
	}
	return map[string]luatable.Value{}
}

func stringField(entry luatable.Value, key string) string {
	if val, ok := entry.Field(key); ok && val.Kind == luatable.KindString {
		return val.Str
	}
	return ""
}

func numberField(entry luatable.Value, key string, fallback int) int {
	if val, ok := entry.Field(key); ok && val.Kind == luatable.KindNumber {
		return int(val.Number)
	}
	return fallback
}
