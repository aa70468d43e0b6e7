package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somema/somema-api/internal/models"
)

func newTestMetaService(handler http.Handler) (*metaService, *httptest.Server) {
	server := httptest.NewServer(handler)
	return &metaService{baseURL: server.URL, client: server.Client()}, server
}

func TestPublishInstagramTwoStep(t *testing.T) {
	var creationID string
	m, server := newTestMetaService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.URL.Path {
		case "/page1/media":
			assert.Equal(t, "https://cdn.example.com/a.jpg", r.Form.Get("image_url"))
			assert.Equal(t, "token", r.Form.Get("access_token"))
			fmt.Fprint(w, `{"id":"container_1"}`)
		case "/page1/media_publish":
			creationID = r.Form.Get("creation_id")
			fmt.Fprint(w, `{"id":"media_9"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	post := &models.Post{
		Platform: models.PlatformInstagram,
		PageID:   "page1",
		Caption:  "hello",
		Hashtags: []string{"#go", "#social"},
		MediaURL: "https://cdn.example.com/a.jpg",
	}

	id, err := m.Publish(context.Background(), post, "token")
	require.NoError(t, err)

	assert.Equal(t, "media_9", id)
	assert.Equal(t, "container_1", creationID)
}

func TestPublishFacebookPrefersPostID(t *testing.T) {
	m, server := newTestMetaService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/page1/photos", r.URL.Path)
		assert.Equal(t, "hello\n\n#go", r.Form.Get("message"))
		fmt.Fprint(w, `{"id":"photo_1","post_id":"page1_post7"}`)
	}))
	defer server.Close()

	post := &models.Post{
		Platform: models.PlatformFacebook,
		PageID:   "page1",
		Caption:  "hello",
		Hashtags: []string{"#go"},
		MediaURL: "https://cdn.example.com/a.jpg",
	}

	id, err := m.Publish(context.Background(), post, "token")
	require.NoError(t, err)
	assert.Equal(t, "page1_post7", id)
}

func TestPublishGraphErrorSurfaced(t *testing.T) {
	m, server := newTestMetaService(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`)
	}))
	defer server.Close()

	post := &models.Post{Platform: models.PlatformFacebook, PageID: "page1"}

	_, err := m.Publish(context.Background(), post, "expired")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestPublishUnsupportedPlatform(t *testing.T) {
	m := &metaService{}

	_, err := m.Publish(context.Background(), &models.Post{Platform: "myspace"}, "token")
	assert.Error(t, err)
}
