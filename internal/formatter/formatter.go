// package formatter renders playlists into their export formats (JSON, CSV,
// Markdown, plain text) and writes the resulting files.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/cadenza"
	"github.com/desertthunder/cadenza/internal/shared"
)

// PlaylistExport bundles a playlist with all of its items, accumulated
// across pages.
type PlaylistExport struct {
	Playlist cadenza.Playlist        `json:"playlist"`
	Tracks   []cadenza.PlaylistTrack `json:"tracks"`
}

func artistNames(artists []cadenza.SimplifiedArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// trackRecord is one CSV row: ID, Title, Artist, Album, Duration, ISRC.
func trackRecord(track cadenza.Track) []string {
	return []string{
		track.ID,
		track.Name,
		artistNames(track.Artists),
		track.Album.Name,
		strconv.Itoa(track.DurationMs),
		track.ExternalIDs.ISRC,
	}
}

// ExportToJSON renders the full export as pretty-printed JSON.
func ExportToJSON(export *PlaylistExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// ExportToCSV renders the track list as CSV.
func ExportToCSV(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	rows := [][]string{{"ID", "Title", "Artist", "Album", "Duration", "ISRC"}}
	for _, item := range export.Tracks {
		rows = append(rows, trackRecord(item.Track))
	}
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders the playlist as a Markdown document. When
// imageFilename is set a cover image reference is embedded under the title.
func ExportToMarkdown(export *PlaylistExport, imageFilename string) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", export.Playlist.Name)
	if imageFilename != "" {
		fmt.Fprintf(&b, "![Cover](%s)\n\n", imageFilename)
	}
	if export.Playlist.Description != "" {
		fmt.Fprintf(&b, "**Description**: %s\n\n", export.Playlist.Description)
	}
	fmt.Fprintf(&b, "**Tracks**: %d\n", len(export.Tracks))
	fmt.Fprintf(&b, "**Visibility**: %s\n\n", shared.VisibilityString(export.Playlist.Public))

	b.WriteString("## Tracks\n\n")
	for i, item := range export.Tracks {
		track := item.Track
		album := ""
		if track.Album.Name != "" {
			album = fmt.Sprintf(" (%s)", track.Album.Name)
		}
		fmt.Fprintf(&b, "%d. %s - %s%s [%s]\n",
			i+1, artistNames(track.Artists), track.Name, album, shared.FormatDuration(track.DurationMs))
	}

	return []byte(b.String()), nil
}

// ExportToText renders the playlist as a plain text track listing.
func ExportToText(export *PlaylistExport) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Playlist: %s\n", export.Playlist.Name)
	if export.Playlist.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", export.Playlist.Description)
	}
	fmt.Fprintf(&b, "Tracks: %d\n\n", len(export.Tracks))

	for i, item := range export.Tracks {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, artistNames(item.Track.Artists), item.Track.Name)
	}

	return []byte(b.String()), nil
}

var imageClient = &http.Client{Timeout: 30 * time.Second}

// DownloadImage fetches an image and returns the raw bytes.
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	resp, err := imageClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ToMetadataJSON renders playlist metadata without its track pages.
func ToMetadataJSON(playlist cadenza.Playlist) ([]byte, error) {
	playlist.Tracks = cadenza.Page[cadenza.PlaylistTrack]{}
	return shared.MarshalJSON(playlist, true)
}

func writeFile(path string, data []byte, what string) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", what, err)
	}
	return nil
}

// CSVExportResult names the files created by WriteCSVExport.
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport writes {base}_tracks.csv plus {base}_metadata.json. The base
// defaults to the playlist ID.
func WriteCSVExport(export *PlaylistExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Playlist.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}
	tracksFile := baseFilepath + "_tracks.csv"
	if err := writeFile(tracksFile, csvData, "CSV"); err != nil {
		return nil, err
	}

	metadataJSON, err := ToMetadataJSON(export.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}
	metadataFile := baseFilepath + "_metadata.json"
	if err := writeFile(metadataFile, metadataJSON, "metadata"); err != nil {
		return nil, err
	}

	return &CSVExportResult{TracksFile: tracksFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult names the directory and files created by
// WriteMarkdownExport.
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes {dir}/README.md and, when imageURL is set and
// fetchable, {dir}/cover.jpg. The directory defaults to the playlist ID.
// Cover download failures are reported on stderr, not fatal.
func WriteMarkdownExport(export *PlaylistExport, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Playlist.ID
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	cover := ""
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverPath := filepath.Join(outputDir, "cover.jpg")
			if err := os.WriteFile(coverPath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
			} else {
				cover = "cover.jpg"
				result.CoverImage = coverPath
				result.Files = append(result.Files, coverPath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, cover)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}
	mdFile := filepath.Join(outputDir, "README.md")
	if err := writeFile(mdFile, mdData, "Markdown"); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport writes the plain text listing, defaulting to
// {playlist.ID}_tracks.txt.
func WriteTextExport(export *PlaylistExport, path string) (string, error) {
	if path == "" {
		path = export.Playlist.ID + "_tracks.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if err := writeFile(path, textData, "text"); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSONExport writes the full export as JSON, defaulting to
// {playlist.ID}.json.
func WriteJSONExport(export *PlaylistExport, path string) (string, error) {
	if path == "" {
		path = export.Playlist.ID + ".json"
	}

	data, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}
	if err := writeFile(path, data, "JSON"); err != nil {
		return "", err
	}
	return path, nil
}
