package extract

import (
	"testing"

	"scribey-companion/core/luatable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRoot(t *testing.T, src string) luatable.Value {
	t.Helper()
	val, err := luatable.DecodeGlobal([]byte(src), "ScribeyDB")
	require.NoError(t, err)
	return val
}

func TestExtract_SingleCharacter(t *testing.T) {
	src := `ScribeyDB = { character_data = { ["Foo-Bar"] = {
		character_name = "Foo",
		realm_name = "Bar",
		class = "MAGE",
		professions = {
			{ name = "Tailoring", skill_level = 300, max_skill_level = 300 },
		},
	} } }`

	snapshot, ledger, err := Extract(decodeRoot(t, src), []byte(src))
	require.NoError(t, err)
	require.Len(t, snapshot.Characters, 1)

	got := snapshot.Characters["Foo-Bar"]
	assert.Equal(t, CharacterRecord{
		Name:  "Foo",
		Realm: "Bar",
		Class: "MAGE",
		Professions: []ProfessionRecord{
			{Name: "Tailoring", SkillLevel: 300, MaxSkill: 300},
		},
	}, got)

	assert.Equal(t, []string{"Foo-Bar"}, ledger.Succeeded)
	assert.Empty(t, ledger.Failed)
}

func TestExtract_NoData(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"MissingSection", `ScribeyDB = { settings = { foo = 1 } }`},
		{"SectionNotAMap", `ScribeyDB = { character_data = 5 }`},
		{"RootNotAMap", `ScribeyDB = 12`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, ledger, err := Extract(decodeRoot(t, tt.src), []byte(tt.src))
			assert.ErrorIs(t, err, ErrNoData)
			assert.Nil(t, snapshot)
			assert.Nil(t, ledger)
		})
	}
}

// TestExtract_MalformedCharacterIsolated checks that one bad character entry
// lands in the ledger without discarding the valid ones.
func TestExtract_MalformedCharacterIsolated(t *testing.T) {
	src := `ScribeyDB = { character_data = {
		["Good-Realm"] = { class = "WARRIOR" },
		["Broken-Realm"] = 42,
	} }`

	snapshot, ledger, err := Extract(decodeRoot(t, src), []byte(src))
	require.NoError(t, err)

	require.Len(t, snapshot.Characters, 1)
	assert.Contains(t, snapshot.Characters, "Good-Realm")
	assert.Equal(t, []string{"Good-Realm"}, ledger.Succeeded)
	require.Contains(t, ledger.Failed, "Broken-Realm")
	assert.Contains(t, ledger.Failed["Broken-Realm"], "expected map")
}

func TestExtract_KeyFallbackAndDefaults(t *testing.T) {
	src := `ScribeyDB = { character_data = {
		["Keyed-Some-Realm"] = {},
	} }`

	snapshot, _, err := Extract(decodeRoot(t, src), []byte(src))
	require.NoError(t, err)

	got := snapshot.Characters["Keyed-Some-Realm"]
	assert.Equal(t, "Keyed", got.Name)
	assert.Equal(t, "Some-Realm", got.Realm, "only the first dash separates name from realm")
	assert.Equal(t, "UNKNOWN", got.Class)
	assert.Empty(t, got.Professions)
}

func TestExtract_ProfessionDefaults(t *testing.T) {
	src := `ScribeyDB = { character_data = { ["Foo-Bar"] = {
		professions = {
			{ name = "Herbalism" },
			{ skill_level = 150 },
			"not a map",
		},
	} } }`

	snapshot, _, err := Extract(decodeRoot(t, src), []byte(src))
	require.NoError(t, err)

	got := snapshot.Characters["Foo-Bar"].Professions
	// Entries without a name and non-map entries are skipped.
	require.Len(t, got, 1)
	assert.Equal(t, ProfessionRecord{Name: "Herbalism", SkillLevel: 0, MaxSkill: MaxSkillCap}, got[0])
}

func TestExtract_Auction(t *testing.T) {
	t.Run("Present", func(t *testing.T) {
		src := `ScribeyDB = {
			character_data = { ["Foo-Bar"] = {} },
			auction_data = {
				last_scan_time = 1700000000,
				scan_count = 12,
				realm = "Bar",
				items = { ["2589"] = { price = 45 }, ["14047"] = { price = 120 } },
			},
		}`

		snapshot, _, err := Extract(decodeRoot(t, src), []byte(src))
		require.NoError(t, err)

		assert.Equal(t, int64(1700000000), snapshot.Auction.LastScanTime)
		assert.Equal(t, 12, snapshot.Auction.ScanCount)
		assert.Equal(t, "Bar", snapshot.Auction.Realm)
		assert.Equal(t, 2, snapshot.Auction.ItemCount)
	})

	t.Run("Absent", func(t *testing.T) {
		src := `ScribeyDB = { character_data = { ["Foo-Bar"] = {} } }`
		snapshot, _, err := Extract(decodeRoot(t, src), []byte(src))
		require.NoError(t, err)
		assert.Equal(t, AuctionRecord{Items: map[string]luatable.Value{}}, snapshot.Auction)
	})
}

func TestExtract_PassthroughSections(t *testing.T) {
	src := `ScribeyDB = {
		character_data = { ["Foo-Bar"] = {} },
		crafted_items = { ["Bolt of Runecloth"] = 14 },
		settings = { minimap_icon = true },
	}`

	snapshot, _, err := Extract(decodeRoot(t, src), []byte(src))
	require.NoError(t, err)

	assert.Equal(t, luatable.Number(14), snapshot.CraftedItems["Bolt of Runecloth"])
	assert.Equal(t, luatable.Bool(true), snapshot.Settings["minimap_icon"])
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"InField", `ScribeyDB = { version = "2.3.1" }`, "2.3.1"},
		{"InComment", "-- version = \"9.9.9\"\nScribeyDB = {}", "9.9.9"},
		{"Spacing", `version="4.0.0"`, "4.0.0"},
		{"Missing", `ScribeyDB = {}`, DefaultFormatVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatVersion([]byte(tt.raw)))
		})
	}
}
