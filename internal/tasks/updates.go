package tasks

import "fmt"

// Phase identifies which stage of a bulk export an update belongs to.
type Phase int

const (
	FetchPlaylist Phase = iota
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case ExportPlaylist:
		return "export_playlist"
	}
	return ""
}

// ProgressUpdate is a display-ready progress event for the CLI or UI layer.
type ProgressUpdate struct {
	Phase   Phase
	Step    int
	Total   int
	Message string
	Data    any
}

func progress(phase Phase, step, total int, format string, args ...any) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf(format, args...),
	}
}

func fetchingPlaylistsUpdate(step, total int) ProgressUpdate {
	return progress(FetchPlaylist, step, total, "Fetching playlists...")
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return progress(ExportPlaylist, step, total, "[%d/%d] Exporting: %s...", step, total, name)
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return progress(ExportPlaylist, step, total, "[%d/%d] ✓ %s (%d files)", step, total, name, filesCount)
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return progress(ExportPlaylist, step, total, "[%d/%d] ✗ %s: %v", step, total, name, err)
}
