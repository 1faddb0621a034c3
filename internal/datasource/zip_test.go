package datasource

import (
	"archive/zip"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bracketlab/predict-api/internal/models"
)

// writeArchive builds a zip on disk with the given file name -> CSV body
// mapping, rooted under the stage-1 directory for the prefix.
func writeArchive(t *testing.T, prefix string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), prefix+"archive.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(stage1Dir(prefix) + "/" + name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return path
}

func TestZipSourceTeams(t *testing.T) {
	path := writeArchive(t, "M", map[string]string{
		"MTeams.csv": "TeamID,TeamName\n1101,Aardvarks\n1102,Badgers\n",
	})
	z := NewZipSource(path, "M")

	teams, err := z.Teams()
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	want := []models.TeamRow{
		{TeamID: 1101, TeamName: "Aardvarks"},
		{TeamID: 1102, TeamName: "Badgers"},
	}
	if !reflect.DeepEqual(teams, want) {
		t.Errorf("teams = %+v, want %+v", teams, want)
	}
}

func TestZipSourceCompactResults(t *testing.T) {
	// Columns deliberately out of the struct's order; the reader resolves
	// them by header name.
	path := writeArchive(t, "W", map[string]string{
		"WRegularSeasonCompactResults.csv": "Season,DayNum,WTeamID,WScore,LTeamID,LScore,WLoc,NumOT\n" +
			"2019,10,3101,70,3102,60,H,0\n" +
			"2019,17,3102,65,3101,55,N,2\n",
	})
	z := NewZipSource(path, "W")

	games, err := z.RegularSeasonCompactResults()
	if err != nil {
		t.Fatalf("RegularSeasonCompactResults: %v", err)
	}
	want := []models.GameRecord{
		{Season: 2019, DayNum: 10, WTeamID: 3101, WScore: 70, LTeamID: 3102, LScore: 60, Loc: models.VenueHome},
		{Season: 2019, DayNum: 17, WTeamID: 3102, WScore: 65, LTeamID: 3101, LScore: 55, Loc: models.VenueNeutral, NumOT: 2},
	}
	if !reflect.DeepEqual(games, want) {
		t.Errorf("games = %+v, want %+v", games, want)
	}
}

func TestZipSourceInvalidLoc(t *testing.T) {
	path := writeArchive(t, "M", map[string]string{
		"MNCAATourneyCompactResults.csv": "Season,DayNum,WTeamID,WScore,LTeamID,LScore,WLoc,NumOT\n" +
			"2019,136,1101,70,1102,60,X,0\n",
	})
	z := NewZipSource(path, "M")
	if _, err := z.TourneyCompactResults(); err == nil {
		t.Error("expected error for invalid WLoc")
	}
}

func TestZipSourceMissingFile(t *testing.T) {
	path := writeArchive(t, "M", map[string]string{
		"MTeams.csv": "TeamID,TeamName\n1101,Aardvarks\n",
	})
	z := NewZipSource(path, "M")
	if _, err := z.TourneySeeds(); err == nil {
		t.Error("expected error for absent file")
	}
}

func TestZipSourceMissingColumn(t *testing.T) {
	path := writeArchive(t, "M", map[string]string{
		"MTeams.csv": "TeamID\n1101\n",
	})
	z := NewZipSource(path, "M")
	if _, err := z.Teams(); err == nil {
		t.Error("expected error for missing TeamName column")
	}
}

func TestZipSourceSlots(t *testing.T) {
	withSeason := writeArchive(t, "M", map[string]string{
		"MNCAATourneySlots.csv": "Season,Slot,StrongSeed,WeakSeed\n2019,R1W1,W01,W16\n",
	})
	slots, err := NewZipSource(withSeason, "M").TourneySlots()
	if err != nil {
		t.Fatalf("TourneySlots: %v", err)
	}
	want := []models.SlotRow{{Season: 2019, Slot: "R1W1", StrongSeed: "W01", WeakSeed: "W16"}}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %+v, want %+v", slots, want)
	}

	// Archives predating the Season column yield season-zero rows.
	legacy := writeArchive(t, "W", map[string]string{
		"WNCAATourneySlots.csv": "Slot,StrongSeed,WeakSeed\nR1W1,W01,W16\n",
	})
	slots, err = NewZipSource(legacy, "W").TourneySlots()
	if err != nil {
		t.Fatalf("TourneySlots: %v", err)
	}
	want = []models.SlotRow{{Slot: "R1W1", StrongSeed: "W01", WeakSeed: "W16"}}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("legacy slots = %+v, want %+v", slots, want)
	}
}

func TestZipSourceConferences(t *testing.T) {
	path := writeArchive(t, "M", map[string]string{
		"MTeamConferences.csv": "Season,TeamID,ConfAbbrev\n2019,1101,acc\n2019,1102,sec\n",
	})
	rows, err := NewZipSource(path, "M").TeamConferences()
	if err != nil {
		t.Fatalf("TeamConferences: %v", err)
	}
	want := []models.ConferenceRow{
		{Season: 2019, TeamID: 1101, ConfAbbrev: "acc"},
		{Season: 2019, TeamID: 1102, ConfAbbrev: "sec"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("conferences = %+v, want %+v", rows, want)
	}
}
