package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/somema/somema-api/internal/models"
)

// Publisher delivers a post to its social platform and returns the
// platform-assigned post id.
type Publisher interface {
	Publish(ctx context.Context, post *models.Post, accessToken string) (string, error)
}

type metaService struct {
	baseURL string
	client  *http.Client
}

func NewMetaService() Publisher {
	return &metaService{
		baseURL: "https://graph.facebook.com/v19.0",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (m *metaService) Publish(ctx context.Context, post *models.Post, accessToken string) (string, error) {
	switch post.Platform {
	case models.PlatformInstagram:
		return m.publishInstagram(ctx, post, accessToken)
	case models.PlatformFacebook:
		return m.publishFacebook(ctx, post, accessToken)
	default:
		return "", fmt.Errorf("unsupported platform %q", post.Platform)
	}
}

func buildCaption(post *models.Post) string {
	caption := post.Caption
	if len(post.Hashtags) > 0 {
		caption = caption + "\n\n" + strings.Join(post.Hashtags, " ")
	}
	return caption
}

// publishInstagram runs the two-step container flow: create a media
// container, then publish it.
func (m *metaService) publishInstagram(ctx context.Context, post *models.Post, accessToken string) (string, error) {
	data := url.Values{}
	data.Set("image_url", post.MediaURL)
	data.Set("caption", buildCaption(post))
	data.Set("access_token", accessToken)

	container, err := m.graphCall(ctx, fmt.Sprintf("%s/%s/media", m.baseURL, post.PageID), data)
	if err != nil {
		return "", fmt.Errorf("creating media container: %w", err)
	}

	publishData := url.Values{}
	publishData.Set("creation_id", container)
	publishData.Set("access_token", accessToken)

	mediaID, err := m.graphCall(ctx, fmt.Sprintf("%s/%s/media_publish", m.baseURL, post.PageID), publishData)
	if err != nil {
		return "", fmt.Errorf("publishing media container: %w", err)
	}

	return mediaID, nil
}

func (m *metaService) publishFacebook(ctx context.Context, post *models.Post, accessToken string) (string, error) {
	data := url.Values{}
	data.Set("url", post.MediaURL)
	data.Set("message", buildCaption(post))
	data.Set("access_token", accessToken)

	postID, err := m.graphCall(ctx, fmt.Sprintf("%s/%s/photos", m.baseURL, post.PageID), data)
	if err != nil {
		return "", fmt.Errorf("publishing to page feed: %w", err)
	}

	return postID, nil
}

func (m *metaService) graphCall(ctx context.Context, endpoint string, data url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var graphErr struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    int    `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &graphErr); err == nil && graphErr.Error.Message != "" {
			return "", fmt.Errorf("graph api error %d: %s", graphErr.Error.Code, graphErr.Error.Message)
		}
		return "", fmt.Errorf("graph api returned %d", resp.StatusCode)
	}

	var result struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if result.PostID != "" {
		return result.PostID, nil
	}
	return result.ID, nil
}
