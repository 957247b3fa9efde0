package formatter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/cadenza"
	th "github.com/desertthunder/cadenza/internal/testing"
)

func samplePublic(v bool) *bool { return &v }

func sampleExport() *PlaylistExport {
	return &PlaylistExport{
		Playlist: cadenza.Playlist{
			ID:          "pl1",
			Name:        "Test Playlist",
			Description: "A playlist for testing",
			Public:      samplePublic(true),
		},
		Tracks: []cadenza.PlaylistTrack{
			{
				Track: cadenza.Track{
					SimplifiedTrack: cadenza.SimplifiedTrack{
						ID:         "t1",
						Name:       "First Song",
						DurationMs: 205000,
						Artists:    []cadenza.SimplifiedArtist{{ID: "a1", Name: "Artist One"}},
					},
					Album:       cadenza.SimplifiedAlbum{ID: "al1", Name: "Album One"},
					ExternalIDs: cadenza.ExternalIDs{ISRC: "USUM71703861"},
				},
			},
			{
				Track: cadenza.Track{
					SimplifiedTrack: cadenza.SimplifiedTrack{
						ID:         "t2",
						Name:       "Second Song",
						DurationMs: 184000,
						Artists: []cadenza.SimplifiedArtist{
							{ID: "a1", Name: "Artist One"},
							{ID: "a2", Name: "Artist Two"},
						},
					},
					Album: cadenza.SimplifiedAlbum{ID: "al2", Name: "Album Two"},
				},
			},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleExport())
	if err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}

	header := records[0]
	want := []string{"ID", "Title", "Artist", "Album", "Duration", "ISRC"}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	first := records[1]
	if first[0] != "t1" || first[1] != "First Song" || first[2] != "Artist One" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[4] != "205000" || first[5] != "USUM71703861" {
		t.Errorf("unexpected duration/isrc: %v", first)
	}

	second := records[2]
	if second[2] != "Artist One, Artist Two" {
		t.Errorf("multiple artists should be comma-joined, got %q", second[2])
	}
	if second[5] != "" {
		t.Errorf("missing ISRC should be empty, got %q", second[5])
	}
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("WithoutCover", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		md := string(data)

		if !strings.Contains(md, "# Test Playlist") {
			t.Error("missing title heading")
		}
		if strings.Contains(md, "![Cover]") {
			t.Error("cover image should be absent")
		}
		if !strings.Contains(md, "**Description**: A playlist for testing") {
			t.Error("missing description")
		}
		if !strings.Contains(md, "**Visibility**: Public") {
			t.Error("missing visibility")
		}
		if !strings.Contains(md, "1. Artist One - First Song (Album One) [3:25]") {
			t.Errorf("missing formatted track line:\n%s", md)
		}
	})

	t.Run("WithCover", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport(), "cover.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "![Cover](cover.jpg)") {
			t.Error("missing cover image reference")
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleExport())
	if err != nil {
		t.Fatalf("ExportToText failed: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "Playlist: Test Playlist") {
		t.Error("missing playlist name")
	}
	if !strings.Contains(text, "Tracks: 2") {
		t.Error("missing track count")
	}
	if !strings.Contains(text, "2. Artist One, Artist Two - Second Song") {
		t.Errorf("missing track line:\n%s", text)
	}
}

func TestToMetadataJSON(t *testing.T) {
	export := sampleExport()
	export.Playlist.Tracks = cadenza.Page[cadenza.PlaylistTrack]{
		Total: 2,
		Items: export.Tracks,
	}

	data, err := ToMetadataJSON(export.Playlist)
	if err != nil {
		t.Fatalf("ToMetadataJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["name"] != "Test Playlist" {
		t.Errorf("name = %v", decoded["name"])
	}
	tracks, _ := decoded["tracks"].(map[string]any)
	if total, _ := tracks["total"].(float64); total != 0 {
		t.Error("metadata JSON should zero out the embedded tracks page")
	}
}

func TestWriteCSVExport(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "pl1")

	result, err := WriteCSVExport(sampleExport(), base)
	if err != nil {
		t.Fatalf("WriteCSVExport failed: %v", err)
	}
	if result.TracksFile != base+"_tracks.csv" {
		t.Errorf("TracksFile = %q", result.TracksFile)
	}
	if result.MetadataFile != base+"_metadata.json" {
		t.Errorf("MetadataFile = %q", result.MetadataFile)
	}
	th.AssertFileExists(t, result.TracksFile)
	th.AssertFileExists(t, result.MetadataFile)
}

func TestWriteMarkdownExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pl1")

	result, err := WriteMarkdownExport(sampleExport(), dir, "")
	if err != nil {
		t.Fatalf("WriteMarkdownExport failed: %v", err)
	}
	if result.Directory != dir {
		t.Errorf("Directory = %q", result.Directory)
	}
	th.AssertDirExists(t, dir)

	readme := filepath.Join(dir, "README.md")
	if content := th.MustReadFile(t, readme); !strings.Contains(content, "# Test Playlist") {
		t.Error("README.md should contain the rendered markdown")
	}
	if result.CoverImage != "" {
		t.Error("no cover was requested")
	}
}

func TestWriteTextExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	written, err := WriteTextExport(sampleExport(), path)
	if err != nil {
		t.Fatalf("WriteTextExport failed: %v", err)
	}
	if written != path {
		t.Errorf("written = %q, want %q", written, path)
	}
	th.AssertFileExists(t, path)
}

func TestWriteJSONExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pl1.json")
	if _, err := WriteJSONExport(sampleExport(), path); err != nil {
		t.Fatalf("WriteJSONExport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var decoded PlaylistExport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Playlist.ID != "pl1" || len(decoded.Tracks) != 2 {
		t.Errorf("round-trip mismatch: %+v", decoded.Playlist)
	}
}

func TestWriteBulkExportManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export_manifest.json")
	manifest := Manifest{
		Format:            "json",
		TotalPlaylists:    2,
		SuccessfulExports: 1,
		FailedExports:     1,
		OutputDirectory:   "out",
		Playlists: []ManifestEntry{
			{PlaylistID: "pl1", PlaylistName: "Good", Status: "success", Files: []string{"pl1.json"}},
			{PlaylistID: "pl2", PlaylistName: "Bad", Status: "failed", Error: "not found"},
		},
	}

	if err := WriteBulkExportManifest(manifest, path); err != nil {
		t.Fatalf("WriteBulkExportManifest failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}

	if decoded["format"] != "json" {
		t.Errorf("format = %v", decoded["format"])
	}
	if decoded["total_playlists"].(float64) != 2 {
		t.Errorf("total_playlists = %v", decoded["total_playlists"])
	}
	if decoded["successful_exports"].(float64) != 1 || decoded["failed_exports"].(float64) != 1 {
		t.Errorf("export counts wrong: %v", decoded)
	}
	if decoded["exported_at"] == "" {
		t.Error("exported_at should be stamped")
	}

	playlists := decoded["playlists"].([]any)
	if len(playlists) != 2 {
		t.Fatalf("playlists = %d entries, want 2", len(playlists))
	}
	failed := playlists[1].(map[string]any)
	if failed["status"] != "failed" || failed["error"] != "not found" {
		t.Errorf("failed entry = %v", failed)
	}
	if _, present := failed["files"]; present {
		t.Error("failed entries should omit the files list")
	}
}
