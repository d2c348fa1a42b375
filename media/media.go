package media

import (
	"fmt"
	"time"
)

// MediaType classifies a canonical item.
type MediaType string

const (
	TypeMovie   MediaType = "movie"
	TypeSeries  MediaType = "series"
	TypeSeason  MediaType = "season"
	TypeEpisode MediaType = "episode"
	TypeCatalog MediaType = "catalog"
)

// ImageType selects which artwork reference of an item to resolve.
type ImageType string

const (
	ImagePoster   ImageType = "poster"
	ImageBackdrop ImageType = "backdrop"
	ImageLogo     ImageType = "logo"
	ImageThumb    ImageType = "thumb"
)

// MediaStreamType classifies one track inside a playable source.
type MediaStreamType string

const (
	StreamAudio    MediaStreamType = "audio"
	StreamVideo    MediaStreamType = "video"
	StreamSubtitle MediaStreamType = "subtitle"
	StreamData     MediaStreamType = "data"
	StreamLyric    MediaStreamType = "lyric"
)

// RatingSource identifies where a normalized rating came from.
type RatingSource string

const (
	RatingRottenTomatoes RatingSource = "rotten_tomatoes"
	RatingTMDb           RatingSource = "tmdb"
)

// Rating is a review score normalized to a 0-100 scale.
type Rating struct {
	Source RatingSource
	Score  int
}

// MediaStream is one track (audio/video/subtitle/...) of a MediaSource.
type MediaStream struct {
	Index        int
	Title        string
	DisplayTitle string
	Type         MediaStreamType
}

// MediaSource is one playable rendition of a Media item.
type MediaSource struct {
	ID      string
	Name    string
	Streams []MediaStream
}

// UserData carries the authenticated user's playback state for an item.
type UserData struct {
	PlaybackPositionTicks int64
	PlayCount             int
	Favorite              bool
	Watched               bool
}

// Genre is a named genre. Backends that only expose genre names use the
// name as the id.
type Genre struct {
	ID   string
	Name string
}

// Media is the canonical, backend-agnostic item every adapter translates
// its raw responses into. ID is unique within one backend instance only;
// callers mixing backends must namespace it themselves.
type Media struct {
	ID             string
	Title          string
	Type           MediaType
	Description    string
	ReleaseDate    *time.Time
	RuntimeSeconds int64
	IndexNumber    int
	OfficialRating string

	// Image references. For Jellyfin these are image tags, for Stremio
	// they are absolute URLs; ImageURL on the adapter resolves them.
	Poster   string
	Backdrop string
	Logo     string
	Thumb    string

	Genres   []string
	UserData *UserData
	Ratings  []Rating
	Sources  []MediaSource

	// Enabled is only meaningful for catalog entries.
	Enabled bool
}

// IsSeries reports whether the item is a series.
func (m *Media) IsSeries() bool { return m.Type == TypeSeries }

// FormattedRuntime renders the runtime as "2h 15m" style text. Items
// without a known runtime render as the empty string.
func (m *Media) FormattedRuntime() string {
	if m.RuntimeSeconds <= 0 {
		return ""
	}
	d := time.Duration(m.RuntimeSeconds) * time.Second
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	switch {
	case hours == 0 && minutes == 0:
		return "0m"
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}

// Progress returns the playback completion percentage (0-100) derived from
// the position ticks, or false when there is no usable playback state.
// Position ticks are 100ns units, as reported by Jellyfin.
func (m *Media) Progress() (int, bool) {
	if m.UserData == nil || m.UserData.PlaybackPositionTicks == 0 || m.RuntimeSeconds == 0 {
		return 0, false
	}
	seconds := m.UserData.PlaybackPositionTicks / 10_000_000
	pct := seconds * 100 / m.RuntimeSeconds
	if pct > 100 {
		pct = 100
	}
	return int(pct), true
}

// Synthetic catalog ids injected by every adapter so the UI has a stable
// quick-access set regardless of backend.
const (
	CatalogLatest           = "latest"
	CatalogFavorites        = "favorites"
	CatalogContinueWatching = "continue_watching"
)

// IsSyntheticCatalog reports whether id names one of the injected catalogs.
func IsSyntheticCatalog(id string) bool {
	switch id {
	case CatalogLatest, CatalogFavorites, CatalogContinueWatching:
		return true
	}
	return false
}

// Catalog builds a catalog-typed Media entry.
func Catalog(id, title string) Media {
	return Media{ID: id, Title: title, Type: TypeCatalog, Enabled: true}
}
