package fonts

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fontFS() fstest.MapFS {
	return fstest.MapFS{
		"Inter/Inter-Bold.ttf":               {},
		"Inter/Inter-Regular.ttf":            {},
		"Google_Sans/GoogleSans-Medium.otf":  {},
		"Google_Sans/OFL.txt":                {},
		"Roboto_Mono/RobotoMono-Italic.woff": {},
	}
}

func TestScanDir_OnlyFonts(t *testing.T) {
	list, err := ScanDir(fontFS())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"Inter/Inter-Bold.ttf",
		"Inter/Inter-Regular.ttf",
		"Google_Sans/GoogleSans-Medium.otf",
	}, list)
}

func TestFind(t *testing.T) {
	tests := []struct {
		search string
		want   string
	}{
		{"Inter", "Inter/Inter-Regular.ttf"},
		{"inter-bold", "Inter/Inter-Bold.ttf"},
		{"Google Sans", "Google_Sans/GoogleSans-Medium.otf"},
		{"GoogleSans-Medium.otf", "Google_Sans/GoogleSans-Medium.otf"},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got, err := Find(fontFS(), tt.search)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind_Missing(t *testing.T) {
	_, err := Find(fontFS(), "Roboto Mono")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = Find(fontFS(), "  ")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
