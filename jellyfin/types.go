package jellyfin

import "github.com/remuxapp/remux/capabilities"

// Item types used in IncludeItemTypes filters.
const (
	itemTypeMovie   = "Movie"
	itemTypeSeries  = "Series"
	itemTypeSeason  = "Season"
	itemTypeEpisode = "Episode"
	itemTypeBoxSet  = "BoxSet"
)

// authRequest is the AuthenticateByName request body.
type authRequest struct {
	Username string `json:"Username"`
	Password string `json:"Pw"`
}

// AuthenticationResult is the AuthenticateByName response.
type AuthenticationResult struct {
	AccessToken string   `json:"AccessToken"`
	ServerID    string   `json:"ServerId"`
	User        *userDto `json:"User"`
}

type userDto struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// itemsResponse is the paginated envelope of /Items style endpoints.
type itemsResponse struct {
	Items            []baseItem `json:"Items"`
	TotalRecordCount int        `json:"TotalRecordCount"`
	StartIndex       int        `json:"StartIndex"`
}

// baseItem is the subset of Jellyfin's BaseItemDto the adapter consumes.
type baseItem struct {
	ID                string            `json:"Id"`
	Name              string            `json:"Name"`
	Type              string            `json:"Type"`
	Overview          string            `json:"Overview"`
	PremiereDate      string            `json:"PremiereDate"`
	RunTimeTicks      int64             `json:"RunTimeTicks"`
	IndexNumber       int               `json:"IndexNumber"`
	OfficialRating    string            `json:"OfficialRating"`
	CriticRating      float64           `json:"CriticRating"`
	CommunityRating   float64           `json:"CommunityRating"`
	Genres            []string          `json:"Genres"`
	ImageTags         map[string]string `json:"ImageTags"`
	BackdropImageTags []string          `json:"BackdropImageTags"`
	UserData          *userItemData     `json:"UserData"`
	MediaSources      []mediaSourceInfo `json:"MediaSources"`
	SeriesID          string            `json:"SeriesId"`
	SeasonID          string            `json:"SeasonId"`
}

type userItemData struct {
	PlaybackPositionTicks int64 `json:"PlaybackPositionTicks"`
	PlayCount             int   `json:"PlayCount"`
	IsFavorite            bool  `json:"IsFavorite"`
	Played                bool  `json:"Played"`
}

type mediaSourceInfo struct {
	ID             string        `json:"Id"`
	Name           string        `json:"Name"`
	Container      string        `json:"Container"`
	TranscodingURL string        `json:"TranscodingUrl"`
	MediaStreams   []mediaStream `json:"MediaStreams"`
}

type mediaStream struct {
	Index        int    `json:"Index"`
	Title        string `json:"Title"`
	DisplayTitle string `json:"DisplayTitle"`
	Type         string `json:"Type"`
	Codec        string `json:"Codec"`
}

// playbackInfoRequest is posted to /Items/{id}/PlaybackInfo.
type playbackInfoRequest struct {
	UserID             string                     `json:"UserId,omitempty"`
	MediaSourceID      string                     `json:"MediaSourceId,omitempty"`
	DeviceProfile      capabilities.DeviceProfile `json:"DeviceProfile"`
	EnableAllSubtitles bool                       `json:"EnableAllSubtitles"`
	AutoOpenLiveStream bool                       `json:"AutoOpenLiveStream"`
}

type playbackInfoResponse struct {
	MediaSources  []mediaSourceInfo `json:"MediaSources"`
	PlaySessionID string            `json:"PlaySessionId"`
}

// queryFilters is the /Items/Filters response.
type queryFilters struct {
	Genres          []string `json:"Genres"`
	OfficialRatings []string `json:"OfficialRatings"`
	Tags            []string `json:"Tags"`
	Years           []int    `json:"Years"`
}
