// Package capabilities converts a client's probed codec/container support
// matrix into the ordered device profile backends use to choose between
// direct play and transcoding.
package capabilities

// Capabilities is the invoking client's supported codec/container matrix.
// It is probed once per session and immutable afterwards.
type Capabilities struct {
	H264 bool `mapstructure:"h264" json:"supportsH264"`
	VP9  bool `mapstructure:"vp9" json:"supportsVP9"`
	AV1  bool `mapstructure:"av1" json:"supportsAV1"`
	HEVC bool `mapstructure:"hevc" json:"supportsHEVC"`

	AAC  bool `mapstructure:"aac" json:"supportsAAC"`
	Opus bool `mapstructure:"opus" json:"supportsOpus"`
	MP3  bool `mapstructure:"mp3" json:"supportsMP3"`
	FLAC bool `mapstructure:"flac" json:"supportsFLAC"`
	EAC3 bool `mapstructure:"eac3" json:"supportsEAC3"`

	HLS    bool `mapstructure:"hls" json:"supportsHLS"`
	WebVTT bool `mapstructure:"webvtt" json:"supportsWebVTT"`

	UserAgent string `mapstructure:"user_agent" json:"userAgent"`
}

// DirectPlayProfile declares one container/codec tuple the client can play
// without server-side re-encoding. Field names follow the Jellyfin wire
// schema.
type DirectPlayProfile struct {
	Container  string `json:"Container"`
	Type       string `json:"Type"`
	VideoCodec string `json:"VideoCodec,omitempty"`
	AudioCodec string `json:"AudioCodec,omitempty"`
	Protocol   string `json:"Protocol,omitempty"`
}

// TranscodingProfile declares a server-side re-encode target the client
// accepts as a fallback.
type TranscodingProfile struct {
	Container                 string `json:"Container"`
	Type                      string `json:"Type"`
	VideoCodec                string `json:"VideoCodec,omitempty"`
	AudioCodec                string `json:"AudioCodec,omitempty"`
	Protocol                  string `json:"Protocol,omitempty"`
	Context                   string `json:"Context,omitempty"`
	EnableSubtitlesInManifest bool   `json:"EnableSubtitlesInManifest,omitempty"`
}

// SubtitleProfile declares one subtitle format/delivery combination.
type SubtitleProfile struct {
	Format string `json:"Format"`
	Method string `json:"Method"`
}

// DeviceProfile is the ordered playback preference set sent to the backend
// with each playback-info request.
type DeviceProfile struct {
	Name                string               `json:"Name,omitempty"`
	MaxStreamingBitrate int64                `json:"MaxStreamingBitrate,omitempty"`
	DirectPlayProfiles  []DirectPlayProfile  `json:"DirectPlayProfiles"`
	TranscodingProfiles []TranscodingProfile `json:"TranscodingProfiles"`
	SubtitleProfiles    []SubtitleProfile    `json:"SubtitleProfiles"`
	CodecProfiles       []struct{}           `json:"CodecProfiles"`
}

// Subtitle delivery methods understood by Jellyfin-compatible backends.
const (
	SubtitleHLS      = "Hls"
	SubtitleExternal = "External"
	SubtitleEncode   = "Encode"
)

const maxStreamingBitrate = 20_000_000

// subtitleFormats is the fixed list the profile advertises. Subtitle
// capability is not probed from the client, so the full cross product with
// every delivery method is generated unconditionally.
var subtitleFormats = []string{
	"vtt", "webvtt", "srt", "subrip", "ttml", "dvbsub", "ass", "idx",
	"pgs", "pgssub", "ssa",
	"microdvd", "mov_text", "mpl2", "pjs", "realtext", "scc", "smi",
	"stl", "sub", "subviewer", "teletext", "text", "vplayer", "xsub",
}

var subtitleMethods = []string{SubtitleHLS, SubtitleExternal, SubtitleEncode}

// DeviceProfile derives the playback profile for these capabilities.
// The derivation is pure and cheap; callers build a fresh profile per
// stream-URL request rather than caching it.
//
// Direct-play entries are appended in a fixed enumeration order: video
// codecs first (H264, VP9, AV1, HEVC), then audio codecs (AAC, Opus, MP3,
// FLAC, EAC3). A single HLS/h264/aac transcoding profile is always the
// last-resort entry.
func (c Capabilities) DeviceProfile() DeviceProfile {
	var direct []DirectPlayProfile

	if c.H264 {
		direct = append(direct, DirectPlayProfile{
			Container: "mp4", Type: "Video",
			VideoCodec: "h264", AudioCodec: "aac", Protocol: "http",
		})
	}
	if c.VP9 {
		direct = append(direct, DirectPlayProfile{
			Container: "webm", Type: "Video",
			VideoCodec: "vp9", AudioCodec: "opus", Protocol: "http",
		})
	}
	if c.AV1 {
		direct = append(direct, DirectPlayProfile{
			Container: "mp4", Type: "Video",
			VideoCodec: "av1", AudioCodec: "aac", Protocol: "http",
		})
	}
	if c.HEVC {
		direct = append(direct, DirectPlayProfile{
			Container: "mp4", Type: "Video",
			VideoCodec: "hevc", AudioCodec: "aac", Protocol: "http",
		})
	}

	if c.AAC {
		direct = append(direct, DirectPlayProfile{
			Container: "mp4", Type: "Audio", AudioCodec: "aac", Protocol: "http",
		})
	}
	if c.Opus {
		direct = append(direct, DirectPlayProfile{
			Container: "webm", Type: "Audio", AudioCodec: "opus", Protocol: "http",
		})
	}
	if c.MP3 {
		direct = append(direct, DirectPlayProfile{
			Container: "mp3", Type: "Audio", AudioCodec: "mp3", Protocol: "http",
		})
	}
	if c.FLAC {
		direct = append(direct, DirectPlayProfile{
			Container: "webm", Type: "Audio", AudioCodec: "flac", Protocol: "http",
		})
	}
	if c.EAC3 {
		direct = append(direct, DirectPlayProfile{
			Container: "mp4", Type: "Audio", AudioCodec: "eac3", Protocol: "http",
		})
	}

	return DeviceProfile{
		Name:                c.UserAgent,
		MaxStreamingBitrate: maxStreamingBitrate,
		DirectPlayProfiles:  direct,
		TranscodingProfiles: []TranscodingProfile{{
			Container: "ts", Type: "Video",
			VideoCodec: "h264", AudioCodec: "aac", Protocol: "hls",
			Context:                   "Streaming",
			EnableSubtitlesInManifest: true,
		}},
		SubtitleProfiles: subtitleProfiles(),
		CodecProfiles:    []struct{}{},
	}
}

func subtitleProfiles() []SubtitleProfile {
	profiles := make([]SubtitleProfile, 0, len(subtitleFormats)*len(subtitleMethods))
	for _, format := range subtitleFormats {
		for _, method := range subtitleMethods {
			profiles = append(profiles, SubtitleProfile{Format: format, Method: method})
		}
	}
	return profiles
}
