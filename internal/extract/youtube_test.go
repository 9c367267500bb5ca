package extract

import (
	"testing"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ?start=5", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?feature=share&v=a-b_c1234XY", "a-b_c1234XY", true},
		{"not a url", "", false},
		{"https://youtu.be/short", "", false},
	}
	for _, tt := range tests {
		got, ok := VideoID(tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestPickTrackPrefersEnglish(t *testing.T) {
	lang, ok := pickTrack([]youtube.CaptionTrack{
		{LanguageCode: "de"},
		{LanguageCode: "en"},
	})
	assert.True(t, ok)
	assert.Equal(t, "en", lang)

	lang, ok = pickTrack([]youtube.CaptionTrack{{LanguageCode: "pt"}, {LanguageCode: "fr"}})
	assert.True(t, ok)
	assert.Equal(t, "pt", lang)

	_, ok = pickTrack(nil)
	assert.False(t, ok)
}

func TestJoinSegments(t *testing.T) {
	got := joinSegments(youtube.VideoTranscript{
		{Text: "never gonna"},
		{Text: "give you up"},
	})
	assert.Equal(t, "never gonna give you up", got)
}
