package jellyfin

import (
	"strings"
	"time"

	"github.com/remuxapp/remux/media"
)

func toMediaType(itemType string) (media.MediaType, bool) {
	switch itemType {
	case itemTypeMovie:
		return media.TypeMovie, true
	case itemTypeSeries:
		return media.TypeSeries, true
	case itemTypeSeason:
		return media.TypeSeason, true
	case itemTypeEpisode:
		return media.TypeEpisode, true
	case itemTypeBoxSet:
		return media.TypeCatalog, true
	}
	return "", false
}

func fromMediaType(t media.MediaType) (string, bool) {
	switch t {
	case media.TypeMovie:
		return itemTypeMovie, true
	case media.TypeSeries:
		return itemTypeSeries, true
	case media.TypeSeason:
		return itemTypeSeason, true
	case media.TypeEpisode:
		return itemTypeEpisode, true
	case media.TypeCatalog:
		return itemTypeBoxSet, true
	}
	return "", false
}

func toStreamType(t string) media.MediaStreamType {
	switch t {
	case "Audio":
		return media.StreamAudio
	case "Video":
		return media.StreamVideo
	case "Subtitle":
		return media.StreamSubtitle
	case "Lyric":
		return media.StreamLyric
	default:
		return media.StreamData
	}
}

// toMedia translates one BaseItemDto into the canonical model. Items with
// an unknown type are skipped by callers.
func toMedia(item baseItem) (media.Media, bool) {
	mediaType, ok := toMediaType(item.Type)
	if !ok || item.ID == "" {
		return media.Media{}, false
	}

	m := media.Media{
		ID:             item.ID,
		Title:          item.Name,
		Type:           mediaType,
		Description:    item.Overview,
		RuntimeSeconds: item.RunTimeTicks / 10_000_000,
		IndexNumber:    item.IndexNumber,
		OfficialRating: item.OfficialRating,
		Genres:         item.Genres,
		Enabled:        true,
	}

	if item.PremiereDate != "" {
		if t, err := time.Parse(time.RFC3339, item.PremiereDate); err == nil {
			m.ReleaseDate = &t
		}
	}

	m.Poster = item.ImageTags["Primary"]
	m.Logo = item.ImageTags["Logo"]
	m.Thumb = item.ImageTags["Thumb"]
	if len(item.BackdropImageTags) > 0 {
		m.Backdrop = item.BackdropImageTags[0]
	}

	if item.UserData != nil {
		m.UserData = &media.UserData{
			PlaybackPositionTicks: item.UserData.PlaybackPositionTicks,
			PlayCount:             item.UserData.PlayCount,
			Favorite:              item.UserData.IsFavorite,
			Watched:               item.UserData.Played,
		}
	}

	if item.CriticRating > 0 {
		m.Ratings = append(m.Ratings, media.Rating{
			Source: media.RatingRottenTomatoes,
			Score:  int(item.CriticRating),
		})
	}
	if item.CommunityRating > 0 {
		m.Ratings = append(m.Ratings, media.Rating{
			Source: media.RatingTMDb,
			Score:  int(item.CommunityRating * 10),
		})
	}

	for _, src := range item.MediaSources {
		if src.ID == "" {
			continue
		}
		m.Sources = append(m.Sources, toMediaSource(src))
	}

	return m, true
}

func toMediaSource(src mediaSourceInfo) media.MediaSource {
	out := media.MediaSource{ID: src.ID, Name: src.Name}
	for _, s := range src.MediaStreams {
		out.Streams = append(out.Streams, media.MediaStream{
			Index:        s.Index,
			Title:        s.Title,
			DisplayTitle: s.DisplayTitle,
			Type:         toStreamType(s.Type),
		})
	}
	return out
}

func toMediaList(items []baseItem) []media.Media {
	out := make([]media.Media, 0, len(items))
	for _, item := range items {
		if m, ok := toMedia(item); ok {
			out = append(out, m)
		}
	}
	return out
}

func includeItemTypes(types []media.MediaType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		if name, ok := fromMediaType(t); ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}
