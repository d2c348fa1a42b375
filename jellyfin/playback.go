package jellyfin

import (
	"context"
	"fmt"
	"net/url"

	"github.com/remuxapp/remux/capabilities"
	"github.com/remuxapp/remux/media"
)

// SetWatched marks or unmarks an item as played. The call is
// fire-and-forget; callers update their local state optimistically.
func (c *Client) SetWatched(ctx context.Context, watched bool, item *media.Media) error {
	endpoint := fmt.Sprintf("/Users/%s/PlayedItems/%s", url.PathEscape(c.userID), url.PathEscape(item.ID))
	if watched {
		return c.post(ctx, endpoint, nil, nil, nil)
	}
	return c.del(ctx, endpoint)
}

// SetFavorite marks or unmarks an item as a favorite.
func (c *Client) SetFavorite(ctx context.Context, favorite bool, item *media.Media) error {
	endpoint := fmt.Sprintf("/Users/%s/FavoriteItems/%s", url.PathEscape(c.userID), url.PathEscape(item.ID))
	if favorite {
		return c.post(ctx, endpoint, nil, nil, nil)
	}
	return c.del(ctx, endpoint)
}

// GetStreamURL negotiates a playback URL for an item. The device profile
// derived from caps is posted to PlaybackInfo; when the server answers with
// a transcoding URL it has decided a transcode is required and that URL is
// used verbatim. Otherwise the client assembles a direct static-stream URL
// from the item/source ids and the access token.
func (c *Client) GetStreamURL(ctx context.Context, item *media.Media, source *media.MediaSource, caps capabilities.Capabilities) (string, error) {
	reqBody := playbackInfoRequest{
		UserID:             c.userID,
		DeviceProfile:      caps.DeviceProfile(),
		EnableAllSubtitles: true,
	}
	if source != nil {
		reqBody.MediaSourceID = source.ID
	}

	var resp playbackInfoResponse
	endpoint := "/Items/" + url.PathEscape(item.ID) + "/PlaybackInfo"
	if err := c.post(ctx, endpoint, nil, &reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.MediaSources) == 0 {
		return "", fmt.Errorf("jellyfin: no media sources for item %s", item.ID)
	}

	if transcodeURL := resp.MediaSources[0].TranscodingURL; transcodeURL != "" {
		c.logger.Debug().Str("item_id", item.ID).Msg("Server selected transcoding")
		return c.host + transcodeURL + "&SubtitleMethod=Hls", nil
	}

	params := url.Values{}
	params.Set("static", "true")
	params.Set("api_key", c.token)
	params.Set("SubtitleMethod", "Hls")
	if source != nil {
		params.Set("MediaSourceId", source.ID)
	}

	c.logger.Debug().Str("item_id", item.ID).Msg("Direct playing")
	return fmt.Sprintf("%s/Videos/%s/stream?%s", c.host, url.PathEscape(item.ID), params.Encode()), nil
}

// ImageURL resolves an image reference to a fetchable URL. It is pure and
// performs no network I/O; ok is false when the item carries no tag for
// that image type.
func (c *Client) ImageURL(item *media.Media, imageType media.ImageType) (string, bool) {
	var tag, kind string
	switch imageType {
	case media.ImagePoster:
		tag, kind = item.Poster, "Primary"
	case media.ImageBackdrop:
		tag, kind = item.Backdrop, "Backdrop"
	case media.ImageLogo:
		tag, kind = item.Logo, "Logo"
	case media.ImageThumb:
		tag, kind = item.Thumb, "Thumb"
	}
	if tag == "" {
		return "", false
	}
	return fmt.Sprintf("%s/Items/%s/Images/%s?tag=%s", c.host, url.PathEscape(item.ID), kind, url.QueryEscape(tag)), true
}
