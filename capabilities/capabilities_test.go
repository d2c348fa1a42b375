package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceProfileDirectPlayOrdering(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want []DirectPlayProfile
	}{
		{
			name: "nothing supported",
			caps: Capabilities{},
			want: nil,
		},
		{
			name: "typical h264 plus aac",
			caps: Capabilities{H264: true, AAC: true},
			want: []DirectPlayProfile{
				{Container: "mp4", Type: "Video", VideoCodec: "h264", AudioCodec: "aac", Protocol: "http"},
				{Container: "mp4", Type: "Audio", AudioCodec: "aac", Protocol: "http"},
			},
		},
		{
			name: "video codecs keep enumeration order",
			caps: Capabilities{HEVC: true, H264: true, AV1: true, VP9: true},
			want: []DirectPlayProfile{
				{Container: "mp4", Type: "Video", VideoCodec: "h264", AudioCodec: "aac", Protocol: "http"},
				{Container: "webm", Type: "Video", VideoCodec: "vp9", AudioCodec: "opus", Protocol: "http"},
				{Container: "mp4", Type: "Video", VideoCodec: "av1", AudioCodec: "aac", Protocol: "http"},
				{Container: "mp4", Type: "Video", VideoCodec: "hevc", AudioCodec: "aac", Protocol: "http"},
			},
		},
		{
			name: "audio codecs follow video",
			caps: Capabilities{H264: true, EAC3: true, MP3: true, AAC: true, FLAC: true, Opus: true},
			want: []DirectPlayProfile{
				{Container: "mp4", Type: "Video", VideoCodec: "h264", AudioCodec: "aac", Protocol: "http"},
				{Container: "mp4", Type: "Audio", AudioCodec: "aac", Protocol: "http"},
				{Container: "webm", Type: "Audio", AudioCodec: "opus", Protocol: "http"},
				{Container: "mp3", Type: "Audio", AudioCodec: "mp3", Protocol: "http"},
				{Container: "webm", Type: "Audio", AudioCodec: "flac", Protocol: "http"},
				{Container: "mp4", Type: "Audio", AudioCodec: "eac3", Protocol: "http"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := tt.caps.DeviceProfile()
			assert.Equal(t, tt.want, profile.DirectPlayProfiles)
		})
	}
}

func TestDeviceProfileTranscodingFallback(t *testing.T) {
	// The HLS fallback is present even when nothing can be direct played.
	profile := Capabilities{}.DeviceProfile()

	require.Len(t, profile.TranscodingProfiles, 1)
	fallback := profile.TranscodingProfiles[0]
	assert.Equal(t, "ts", fallback.Container)
	assert.Equal(t, "h264", fallback.VideoCodec)
	assert.Equal(t, "aac", fallback.AudioCodec)
	assert.Equal(t, "hls", fallback.Protocol)
	assert.Equal(t, "Streaming", fallback.Context)
	assert.True(t, fallback.EnableSubtitlesInManifest)
}

func TestDeviceProfileBitrateAndName(t *testing.T) {
	profile := Capabilities{UserAgent: "remux/1.0"}.DeviceProfile()
	assert.Equal(t, int64(20_000_000), profile.MaxStreamingBitrate)
	assert.Equal(t, "remux/1.0", profile.Name)
	assert.NotNil(t, profile.CodecProfiles)
}

func TestSubtitleProfiles(t *testing.T) {
	profile := Capabilities{}.DeviceProfile()

	require.Len(t, profile.SubtitleProfiles, len(subtitleFormats)*3)

	// Every format appears with every delivery method, format-major.
	assert.Equal(t, SubtitleProfile{Format: "vtt", Method: SubtitleHLS}, profile.SubtitleProfiles[0])
	assert.Equal(t, SubtitleProfile{Format: "vtt", Method: SubtitleExternal}, profile.SubtitleProfiles[1])
	assert.Equal(t, SubtitleProfile{Format: "vtt", Method: SubtitleEncode}, profile.SubtitleProfiles[2])

	seen := make(map[SubtitleProfile]bool)
	for _, sp := range profile.SubtitleProfiles {
		assert.False(t, seen[sp], "duplicate subtitle profile %+v", sp)
		seen[sp] = true
	}
}
