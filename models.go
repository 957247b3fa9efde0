package cadenza

// Page is one page of a paginated API response.
type Page[T any] struct {
	Href     string `json:"href"`
	Items    []T    `json:"items"`
	Limit    int    `json:"limit"`
	Next     string `json:"next"`
	Offset   int    `json:"offset"`
	Previous string `json:"previous"`
	Total    int    `json:"total"`
}

// CursorPage is one page of a cursor-paginated API response, used by the
// followed-artists endpoint.
type CursorPage[T any] struct {
	Href    string  `json:"href"`
	Items   []T     `json:"items"`
	Limit   int     `json:"limit"`
	Next    string  `json:"next"`
	Cursors Cursors `json:"cursors"`
	Total   int     `json:"total"`
}

// Cursors marks the position for the next cursor-paginated request.
type Cursors struct {
	After  string `json:"after"`
	Before string `json:"before"`
}

// Image is cover art or a profile picture at one resolution.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Followers carries a follower count.
type Followers struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// ExternalIDs holds known external identifiers for a track or album.
type ExternalIDs struct {
	ISRC string `json:"isrc"`
	EAN  string `json:"ean"`
	UPC  string `json:"upc"`
}

// ExternalURLs holds known external link targets.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Copyright is one copyright statement on an album or audiobook.
type Copyright struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// ResumePoint marks the user's playback position in an episode or chapter.
type ResumePoint struct {
	FullyPlayed      bool `json:"fully_played"`
	ResumePositionMs int  `json:"resume_position_ms"`
}

// Restrictions explains why content is unavailable.
type Restrictions struct {
	Reason string `json:"reason"`
}

// SimplifiedArtist is the artist shape embedded in albums and tracks.
type SimplifiedArtist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	URI          string       `json:"uri"`
	Href         string       `json:"href"`
	Type         string       `json:"type"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Artist is a full artist object.
type Artist struct {
	SimplifiedArtist
	Genres     []string  `json:"genres"`
	Images     []Image   `json:"images"`
	Popularity int       `json:"popularity"`
	Followers  Followers `json:"followers"`
}

// SimplifiedAlbum is the album shape embedded in tracks and listings.
type SimplifiedAlbum struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	URI                  string             `json:"uri"`
	Href                 string             `json:"href"`
	Type                 string             `json:"type"`
	AlbumType            string             `json:"album_type"`
	AlbumGroup           string             `json:"album_group"`
	TotalTracks          int                `json:"total_tracks"`
	ReleaseDate          string             `json:"release_date"`
	ReleaseDatePrecision string             `json:"release_date_precision"`
	AvailableMarkets     []string           `json:"available_markets"`
	Images               []Image            `json:"images"`
	Artists              []SimplifiedArtist `json:"artists"`
	ExternalURLs         ExternalURLs       `json:"external_urls"`
	Restrictions         *Restrictions      `json:"restrictions"`
}

// Album is a full album object.
type Album struct {
	SimplifiedAlbum
	Tracks      Page[SimplifiedTrack] `json:"tracks"`
	Copyrights  []Copyright           `json:"copyrights"`
	ExternalIDs ExternalIDs           `json:"external_ids"`
	Genres      []string              `json:"genres"`
	Label       string                `json:"label"`
	Popularity  int                   `json:"popularity"`
}

// SavedAlbum is an album in the user's library with its save timestamp.
type SavedAlbum struct {
	AddedAt string `json:"added_at"`
	Album   Album  `json:"album"`
}

// SimplifiedTrack is the track shape embedded in album listings.
type SimplifiedTrack struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	URI              string             `json:"uri"`
	Href             string             `json:"href"`
	Type             string             `json:"type"`
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets"`
	DiscNumber       int                `json:"disc_number"`
	TrackNumber      int                `json:"track_number"`
	DurationMs       int                `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	IsLocal          bool               `json:"is_local"`
	IsPlayable       bool               `json:"is_playable"`
	PreviewURL       string             `json:"preview_url"`
	ExternalURLs     ExternalURLs       `json:"external_urls"`
	Restrictions     *Restrictions      `json:"restrictions"`
}

// Track is a full track object.
type Track struct {
	SimplifiedTrack
	Album       SimplifiedAlbum `json:"album"`
	ExternalIDs ExternalIDs     `json:"external_ids"`
	Popularity  int             `json:"popularity"`
}

// SavedTrack is a track in the user's library with its save timestamp.
type SavedTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// PublicUser is the public profile shape embedded in playlists.
type PublicUser struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name"`
	URI          string       `json:"uri"`
	Href         string       `json:"href"`
	Type         string       `json:"type"`
	Followers    Followers    `json:"followers"`
	Images       []Image      `json:"images"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// User is the current user's full profile.
type User struct {
	PublicUser
	Country         string          `json:"country"`
	Email           string          `json:"email"`
	Product         string          `json:"product"`
	ExplicitContent ExplicitContent `json:"explicit_content"`
}

// ExplicitContent holds the user's explicit-content settings.
type ExplicitContent struct {
	FilterEnabled bool `json:"filter_enabled"`
	FilterLocked  bool `json:"filter_locked"`
}

// SimplifiedPlaylist is the playlist shape returned by listings; Tracks
// carries only a count and link, not the items.
type SimplifiedPlaylist struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	URI           string        `json:"uri"`
	Href          string        `json:"href"`
	Type          string        `json:"type"`
	Collaborative bool          `json:"collaborative"`
	Public        *bool         `json:"public"`
	SnapshotID    string        `json:"snapshot_id"`
	Images        []Image       `json:"images"`
	Owner         PublicUser    `json:"owner"`
	Tracks        PlaylistRef   `json:"tracks"`
	ExternalURLs  ExternalURLs  `json:"external_urls"`
}

// PlaylistRef is the track-count stub inside a simplified playlist.
type PlaylistRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// Playlist is a full playlist object with its first page of items.
type Playlist struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	URI           string              `json:"uri"`
	Href          string              `json:"href"`
	Type          string              `json:"type"`
	Collaborative bool                `json:"collaborative"`
	Public        *bool               `json:"public"`
	SnapshotID    string              `json:"snapshot_id"`
	Images        []Image             `json:"images"`
	Owner         PublicUser          `json:"owner"`
	Followers     Followers           `json:"followers"`
	Tracks        Page[PlaylistTrack] `json:"tracks"`
	ExternalURLs  ExternalURLs        `json:"external_urls"`
}

// PlaylistTrack is one playlist entry with its addition metadata.
type PlaylistTrack struct {
	AddedAt string     `json:"added_at"`
	AddedBy PublicUser `json:"added_by"`
	IsLocal bool       `json:"is_local"`
	Track   Track      `json:"track"`
}

// SimplifiedShow is the show shape returned by listings.
type SimplifiedShow struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	HTMLDescription    string       `json:"html_description"`
	URI                string       `json:"uri"`
	Href               string       `json:"href"`
	Type               string       `json:"type"`
	Publisher          string       `json:"publisher"`
	MediaType          string       `json:"media_type"`
	Languages          []string     `json:"languages"`
	AvailableMarkets   []string     `json:"available_markets"`
	Explicit           bool         `json:"explicit"`
	IsExternallyHosted bool         `json:"is_externally_hosted"`
	TotalEpisodes      int          `json:"total_episodes"`
	Images             []Image      `json:"images"`
	Copyrights         []Copyright  `json:"copyrights"`
	ExternalURLs       ExternalURLs `json:"external_urls"`
}

// Show is a full show object with its first page of episodes.
type Show struct {
	SimplifiedShow
	Episodes Page[SimplifiedEpisode] `json:"episodes"`
}

// SimplifiedEpisode is the episode shape embedded in shows.
type SimplifiedEpisode struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Description          string       `json:"description"`
	HTMLDescription      string       `json:"html_description"`
	URI                  string       `json:"uri"`
	Href                 string       `json:"href"`
	Type                 string       `json:"type"`
	AudioPreviewURL      string       `json:"audio_preview_url"`
	DurationMs           int          `json:"duration_ms"`
	Explicit             bool         `json:"explicit"`
	IsExternallyHosted   bool         `json:"is_externally_hosted"`
	IsPlayable           bool         `json:"is_playable"`
	Languages            []string     `json:"languages"`
	ReleaseDate          string       `json:"release_date"`
	ReleaseDatePrecision string       `json:"release_date_precision"`
	Images               []Image      `json:"images"`
	ResumePoint          *ResumePoint `json:"resume_point"`
	ExternalURLs         ExternalURLs `json:"external_urls"`
}

// Episode is a full episode object.
type Episode struct {
	SimplifiedEpisode
	Show SimplifiedShow `json:"show"`
}

// Author is a book author or narrator name.
type Author struct {
	Name string `json:"name"`
}

// SimplifiedAudiobook is the audiobook shape returned by listings.
type SimplifiedAudiobook struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	HTMLDescription  string       `json:"html_description"`
	URI              string       `json:"uri"`
	Href             string       `json:"href"`
	Type             string       `json:"type"`
	Publisher        string       `json:"publisher"`
	Edition          string       `json:"edition"`
	MediaType        string       `json:"media_type"`
	Languages        []string     `json:"languages"`
	AvailableMarkets []string     `json:"available_markets"`
	Explicit         bool         `json:"explicit"`
	TotalChapters    int          `json:"total_chapters"`
	Authors          []Author     `json:"authors"`
	Narrators        []Author     `json:"narrators"`
	Images           []Image      `json:"images"`
	Copyrights       []Copyright  `json:"copyrights"`
	ExternalURLs     ExternalURLs `json:"external_urls"`
}

// Audiobook is a full audiobook object with its first page of chapters.
type Audiobook struct {
	SimplifiedAudiobook
	Chapters Page[SimplifiedChapter] `json:"chapters"`
}

// SimplifiedChapter is the chapter shape embedded in audiobooks.
type SimplifiedChapter struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Description          string       `json:"description"`
	HTMLDescription      string       `json:"html_description"`
	URI                  string       `json:"uri"`
	Href                 string       `json:"href"`
	Type                 string       `json:"type"`
	AudioPreviewURL      string       `json:"audio_preview_url"`
	ChapterNumber        int          `json:"chapter_number"`
	DurationMs           int          `json:"duration_ms"`
	Explicit             bool         `json:"explicit"`
	IsPlayable           bool         `json:"is_playable"`
	Languages            []string     `json:"languages"`
	ReleaseDate          string       `json:"release_date"`
	ReleaseDatePrecision string       `json:"release_date_precision"`
	AvailableMarkets     []string     `json:"available_markets"`
	Images               []Image      `json:"images"`
	ResumePoint          *ResumePoint `json:"resume_point"`
	ExternalURLs         ExternalURLs `json:"external_urls"`
}

// Chapter is a full chapter object.
type Chapter struct {
	SimplifiedChapter
	Audiobook SimplifiedAudiobook `json:"audiobook"`
}

// SearchResult groups the per-type pages of one search response; only the
// pages for requested types are populated.
type SearchResult struct {
	Albums     *Page[SimplifiedAlbum]     `json:"albums"`
	Artists    *Page[Artist]              `json:"artists"`
	Tracks     *Page[Track]               `json:"tracks"`
	Playlists  *Page[SimplifiedPlaylist]  `json:"playlists"`
	Shows      *Page[SimplifiedShow]      `json:"shows"`
	Episodes   *Page[SimplifiedEpisode]   `json:"episodes"`
	Audiobooks *Page[SimplifiedAudiobook] `json:"audiobooks"`
}

// SnapshotID is returned by playlist mutation endpoints.
type SnapshotID struct {
	SnapshotID string `json:"snapshot_id"`
}
