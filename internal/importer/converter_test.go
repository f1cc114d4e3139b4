package importer_test

import (
	"strings"
	"testing"
	"unicode"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNameToID_Lowercase(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringOf(rapid.RuneFrom(nil, unicode.Letter, unicode.Digit)).Draw(t, "name")
		id := importer.NameToID(name)
		for _, r := range id {
			assert.True(t, r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'),
				"unexpected char %q in id %q", r, id)
		}
	})
}

func TestNameToID_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.String().Draw(t, "name")
		id := importer.NameToID(name)
		assert.Equal(t, id, importer.NameToID(id))
	})
}

func TestNameToID_NoSpacesOrApostrophes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringOf(rapid.RuneFrom([]rune{'\''}, unicode.Letter, unicode.Space)).Draw(t, "name")
		id := importer.NameToID(name)
		assert.NotContains(t, id, " ")
		assert.NotContains(t, id, "'")
		assert.False(t, strings.HasPrefix(id, "_") || strings.HasSuffix(id, "_"), "id %q has edge underscore", id)
	})
}

func TestNameToID_KnownValues(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Grinder's Row", "grinders_row"},
		{"Bloodlines", "bloodlines"},
		{"Man-at-Arms", "man_at_arms"},
		{"  Elite Cannon Galleon  ", "elite_cannon_galleon"},
		{"Hand Cart (Upgrade)", "hand_cart_upgrade"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, importer.NameToID(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.String().Draw(t, "name")
		once := importer.Normalize(name)
		assert.Equal(t, once, importer.Normalize(once))
	})
}

func TestNormalize_Alphabet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.String().Draw(t, "name")
		got := importer.Normalize(name)
		for _, r := range got {
			assert.True(t, r == ' ' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'),
				"unexpected char %q in key %q", r, got)
		}
		assert.NotContains(t, got, "  ")
		assert.Equal(t, strings.TrimSpace(got), got)
	})
}

func TestNormalize_KnownValues(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Man-At-Arms", "man at arms"},
		{"  Elite   Skirmisher ", "elite skirmisher"},
		{"Hand Cart (Upgrade)", "hand cart"},
		{"Crossbowman (Imperial)", "crossbowman"},
		{"Chu Ko Nu", "chu ko nu"},
		{"Magyar Huszár", "magyar huszar"},
		{"Organ Gun", "organ gun"},
		{"Hussite Wagon", "hussite wagon"},
		{"Genitour's Camp", "genitour s camp"},
		{"Genitourâ€™s Camp", "genitour s camp"},
		{"(Upgrade)", ""},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, importer.Normalize(tc.input))
		})
	}
}
