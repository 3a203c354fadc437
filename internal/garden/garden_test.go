package garden

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogReturnsCopies(t *testing.T) {
	a := Catalog()
	require.Len(t, a, 5)
	a[0].Name = "changed"
	a[0].Seasonal[Winter] = 9
	a[0].CareTips[0] = "changed"

	b := Catalog()
	assert.Equal(t, "Cayenne Pepper", b[0].Name)
	assert.Equal(t, 1.0, b[0].Seasonal[Winter])
	assert.NotEqual(t, "changed", b[0].CareTips[0])
	for _, p := range b {
		assert.True(t, p.IsBuiltin(), p.ID)
		assert.NotEmpty(t, p.CareTips, p.ID)
	}
}

func TestBuiltinByID(t *testing.T) {
	p, ok := BuiltinByID("cactus")
	require.True(t, ok)
	assert.Equal(t, 21, p.BaseDays)
	assert.Equal(t, 1.5, p.Multiplier(Winter))
	assert.Equal(t, 0.8, p.Multiplier(Summer))

	_, ok = BuiltinByID("custom-123")
	assert.False(t, ok)
	assert.True(t, IsBuiltinID("cyclamen"))
	assert.False(t, IsBuiltinID(""))
}

func TestMultiplierDefaultsToOne(t *testing.T) {
	p := Plant{Seasonal: map[Season]float64{Summer: 0.5}}
	assert.Equal(t, 0.5, p.Multiplier(Summer))
	assert.Equal(t, 1.0, p.Multiplier(Fall))
	assert.Equal(t, 1.0, Plant{}.Multiplier(Winter))
}

func TestVisible(t *testing.T) {
	got := Visible(Catalog(), []string{"cyclamen", "unknown"})
	require.Len(t, got, 4)
	for _, p := range got {
		assert.NotEqual(t, "cyclamen", p.ID)
	}
	assert.Equal(t, "cayenne-pepper", got[0].ID)
	assert.Equal(t, "cactus", got[3].ID)
}

func TestDays(t *testing.T) {
	d, err := ParseDay("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", FormatDay(AddDays(d, 2)))
	assert.Equal(t, 2, DaysBetween(d, AddDays(d, 2)))
	assert.Equal(t, -2, DaysBetween(AddDays(d, 2), d))

	_, err = ParseDay("28/02/2024")
	assert.Error(t, err)

	local := time.Date(2024, time.March, 10, 23, 30, 0, 0, time.FixedZone("X", -5*60*60))
	assert.Equal(t, NewDay(2024, time.March, 10), DayOf(local))
}

func TestParsePlantsSingleDocument(t *testing.T) {
	plants, err := ParsePlants([]byte(`
name: Monstera
base_days: 7
seasonal:
  Winter: 1.5
care_tips:
  - Bright, indirect light
`))
	require.NoError(t, err)
	require.Len(t, plants, 1)

	p := plants[0]
	assert.Equal(t, "Monstera", p.Name)
	assert.Equal(t, 7, p.BaseDays)
	assert.Equal(t, 1.5, p.Seasonal[Winter])
	assert.Equal(t, 1.0, p.Seasonal[Summer])
	assert.Equal(t, OriginCustom, p.Origin)
	assert.Equal(t, "🪴", p.Emoji)
	assert.Equal(t, Palette[0], p.Color)
}

func TestParsePlantsListAndMultiDoc(t *testing.T) {
	plants, err := ParsePlants([]byte(`
plants:
  - name: Basil
    base_days: 2
  - name: Aloe
    base_days: 14
    color: "#3498DB"
---
name: Fern
base_days: 4
`))
	require.NoError(t, err)
	require.Len(t, plants, 3)
	assert.Equal(t, "Basil", plants[0].Name)
	assert.Equal(t, "#3498DB", plants[1].Color)
	assert.Equal(t, "Fern", plants[2].Name)
}

func TestParsePlantsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"no name", "base_days: 3\n"},
		{"zero base", "name: X\nbase_days: 0\n"},
		{"bad season", "name: X\nbase_days: 3\nseasonal:\n  monsoon: 2\n"},
		{"negative multiplier", "name: X\nbase_days: 3\nseasonal:\n  summer: -1\n"},
		{"malformed", "name: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlants([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadPlantFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plants.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ivy\nbase_days: 6\n"), 0o644))

	plants, err := LoadPlantFile(path)
	require.NoError(t, err)
	require.Len(t, plants, 1)
	assert.Equal(t, "Ivy", plants[0].Name)

	_, err = LoadPlantFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
