package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/cadenza/internal/shared"
)

// ManifestEntry summarizes one playlist in a bulk export manifest.
type ManifestEntry struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Status       string   `json:"status"`
	Files        []string `json:"files,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Manifest is the summary file written alongside a bulk export.
type Manifest struct {
	Format            string          `json:"format"`
	ExportedAt        string          `json:"exported_at"`
	TotalPlaylists    int             `json:"total_playlists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	OutputDirectory   string          `json:"output_directory"`
	Playlists         []ManifestEntry `json:"playlists"`
}

// WriteBulkExportManifest writes the manifest JSON to path, stamping the
// current time.
func WriteBulkExportManifest(m Manifest, path string) error {
	if m.ExportedAt == "" {
		m.ExportedAt = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}
