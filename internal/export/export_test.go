package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

func sampleData() ([]garden.WateringEvent, map[string]garden.Plant) {
	recorded := time.Date(2024, 6, 11, 9, 30, 0, 0, time.UTC)
	events := []garden.WateringEvent{
		{ID: "e3", PlantID: "cactus", Date: garden.NewDay(2024, 6, 11), CreatedAt: recorded},
		{ID: "e2", PlantID: "custom-1", Date: garden.NewDay(2024, 3, 2), CreatedAt: recorded},
		{ID: "e1", PlantID: "cactus", Date: garden.NewDay(2024, 1, 1)},
	}
	cactus, _ := garden.BuiltinByID("cactus")
	plants := map[string]garden.Plant{
		"cactus":   cactus,
		"custom-1": {ID: "custom-1", Name: "Monstera"},
	}
	return events, plants
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func readJSON(t *testing.T, path string) jsonExport {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var result jsonExport
	require.NoError(t, json.Unmarshal(data, &result))
	return result
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	events, plants := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, ToCSV(events, plants, path))

	records := readCSV(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"ID", "Plant ID", "Plant", "Date", "Season", "Recorded At"}, records[0])

	row := records[1]
	assert.Equal(t, "e3", row[0])
	assert.Equal(t, "Cactus", row[2])
	assert.Equal(t, "2024-06-11", row[3])
	assert.Equal(t, "summer", row[4])
	_, err := time.Parse(time.RFC3339, row[5])
	assert.NoError(t, err)

	assert.Equal(t, "spring", records[2][4])
	assert.Equal(t, "winter", records[3][4])
	assert.Empty(t, records[3][5], "zero created-at exports empty")
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, ToCSV(nil, nil, path))
	assert.Len(t, readCSV(t, path), 1)
}

func TestToCSVUnknownPlant(t *testing.T) {
	events := []garden.WateringEvent{{ID: "x", PlantID: "custom-gone", Date: garden.NewDay(2024, 6, 1)}}
	path := filepath.Join(t.TempDir(), "unknown.csv")
	require.NoError(t, ToCSV(events, map[string]garden.Plant{}, path))

	records := readCSV(t, path)
	assert.Equal(t, "Unknown", records[1][2])
	assert.Equal(t, "custom-gone", records[1][1])
}

func TestToCSVSpecialCharacters(t *testing.T) {
	events := []garden.WateringEvent{{ID: "x", PlantID: "p", Date: garden.NewDay(2024, 6, 1)}}
	plants := map[string]garden.Plant{"p": {ID: "p", Name: `Fern "Big", Left`}}
	path := filepath.Join(t.TempDir(), "special.csv")
	require.NoError(t, ToCSV(events, plants, path))

	records := readCSV(t, path)
	assert.Equal(t, `Fern "Big", Left`, records[1][2])
}

func TestToCSVBadPath(t *testing.T) {
	assert.Error(t, ToCSV(nil, nil, "/nonexistent/dir/file.csv"))
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	events, plants := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")
	require.NoError(t, ToJSON(events, plants, path))

	result := readJSON(t, path)
	assert.Equal(t, 3, result.Count)
	require.Len(t, result.Waterings, 3)
	_, err := time.Parse(time.RFC3339, result.ExportedAt)
	assert.NoError(t, err)

	w := result.Waterings[1]
	assert.Equal(t, "e2", w.ID)
	assert.Equal(t, "Monstera", w.Plant)
	assert.Equal(t, "2024-03-02", w.Date)
	assert.Equal(t, "spring", w.Season)
	assert.Empty(t, result.Waterings[2].RecordedAt)
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, ToJSON(nil, nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"waterings": []`)
	assert.Zero(t, readJSON(t, path).Count)
}

func TestToJSONUnknownPlant(t *testing.T) {
	events := []garden.WateringEvent{{ID: "x", PlantID: "custom-gone", Date: garden.NewDay(2024, 6, 1)}}
	path := filepath.Join(t.TempDir(), "unknown.json")
	require.NoError(t, ToJSON(events, nil, path))
	assert.Equal(t, "Unknown", readJSON(t, path).Waterings[0].Plant)
}

func TestToJSONBadPath(t *testing.T) {
	assert.Error(t, ToJSON(nil, nil, "/nonexistent/dir/file.json"))
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	require.NoError(t, ToJSON(nil, nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  "), "JSON should be indented")
}
