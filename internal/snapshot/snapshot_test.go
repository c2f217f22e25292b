package snapshot

import (
	"context"
	"testing"

	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		venue   string
		lang    string
		want    string
		wantErr bool
	}{
		{"VenueAndLang", "http://localhost:8080", "v1", "zh", "http://localhost:8080/?lang=zh&venue=v1", false},
		{"TrailingSlash", "https://guide.example.com/", "v 2", "", "https://guide.example.com/?venue=v+2", false},
		{"Home", "http://localhost:8080", "", "", "http://localhost:8080/", false},
		{"BadScheme", "ftp://host", "v1", "", "", true},
		{"NoScheme", "localhost:8080", "v1", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VenueURL(tt.base, tt.venue, tt.lang)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSameOrigin(t *testing.T) {
	page := "http://localhost:8080/?venue=v1"
	assert.True(t, SameOrigin(page, "http://localhost:8080/api/venues"))
	assert.True(t, SameOrigin(page, "http://LOCALHOST:8080/app.js"))
	assert.False(t, SameOrigin(page, "http://localhost:9090/api/venues"))
	assert.False(t, SameOrigin(page, "https://localhost:8080/"))
	assert.False(t, SameOrigin(page, "https://maps.googleapis.com/maps/api/js?key=k"))
	assert.False(t, SameOrigin("not a url", "not a url"))
}

func TestRequestHeaders(t *testing.T) {
	page := "http://localhost:8080/"
	orig := network.Headers{"User-Agent": "chrome", "authorization": "Bearer stale"}

	t.Run("PortalRequest", func(t *testing.T) {
		got := RequestHeaders(orig, page, "http://localhost:8080/api/favorites", "tok", "zh")
		assert.Equal(t, []*fetch.HeaderEntry{
			{Name: "Accept-Language", Value: "zh"},
			{Name: "Authorization", Value: "Bearer tok"},
			{Name: "User-Agent", Value: "chrome"},
		}, got)
	})

	t.Run("ThirdPartyRequest", func(t *testing.T) {
		got := RequestHeaders(orig, page, "https://maps.googleapis.com/maps/api/js", "tok", "zh")
		assert.Equal(t, []*fetch.HeaderEntry{
			{Name: "Accept-Language", Value: "zh"},
			{Name: "User-Agent", Value: "chrome"},
		}, got)
	})

	t.Run("NoLanguage", func(t *testing.T) {
		got := RequestHeaders(network.Headers{"Accept-Language": "en"}, page, page, "", "")
		assert.Equal(t, []*fetch.HeaderEntry{{Name: "Accept-Language", Value: "en"}}, got)
	})
}

func TestCaptureRequiresStart(t *testing.T) {
	_, err := New(DefaultOptions()).Capture(context.Background(), "http://localhost", "", "")
	assert.Error(t, err)
}
