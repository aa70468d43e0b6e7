package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somema/somema-api/internal/models"
	"github.com/somema/somema-api/internal/transfer"
)

type fakePostRepo struct {
	created   []*models.Post
	createErr error
	post      *models.Post
	owned     bool
	removed   []int64
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return f.post, nil
}

func (f *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, post)
	return int64(len(f.created)), nil
}

func (f *fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	if f.post == nil {
		return nil, nil
	}
	return []*models.Post{f.post}, nil
}

func (f *fakePostRepo) UpdatePostStatus(ctx context.Context, status string, postID int64) error {
	return nil
}

func (f *fakePostRepo) MarkPublished(ctx context.Context, postID int64, metaPostID string, postedAt time.Time) error {
	return nil
}

func (f *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return f.owned, nil
}

func (f *fakePostRepo) Remove(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return nil
}

func validPostCreation(scheduledFor time.Time) *transfer.PostCreation {
	return &transfer.PostCreation{
		Platform:     models.PlatformInstagram,
		Caption:      "launch day",
		Hashtags:     []string{"#launch"},
		MediaURL:     "https://cdn.example.com/a.jpg",
		PageID:       "page1",
		ScheduledFor: scheduledFor.Format(time.RFC3339),
	}
}

func TestCreatePostCommitsPostAndQueueRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	pr := &fakePostRepo{}
	qr := &fakeQueueRepo{}
	s := NewPostService(db, pr, qr)

	scheduledFor := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	postID, delay, err := s.CreatePost(context.Background(), 42, validPostCreation(scheduledFor))
	require.NoError(t, err)

	assert.Equal(t, int64(1), postID)
	assert.InDelta(t, (2 * time.Hour).Seconds(), delay.Seconds(), 5)

	require.Len(t, pr.created, 1)
	p := pr.created[0]
	assert.Equal(t, int64(42), p.UserID)
	assert.Equal(t, models.PostStatusScheduled, p.Status)
	assert.NotEmpty(t, p.Reference)
	assert.True(t, p.ScheduledFor.Equal(scheduledFor))

	require.Len(t, qr.enqueued, 1)
	assert.Equal(t, postID, qr.enqueued[0].PostID)
	assert.True(t, qr.enqueued[0].ScheduledFor.Equal(scheduledFor))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePostPastScheduleGetsZeroDelay(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	s := NewPostService(db, &fakePostRepo{}, &fakeQueueRepo{})

	_, delay, err := s.CreatePost(context.Background(), 42, validPostCreation(time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	assert.Zero(t, delay)
}

func TestCreatePostValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostService(db, &fakePostRepo{}, &fakeQueueRepo{})
	valid := validPostCreation(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		mutate func(pc *transfer.PostCreation)
	}{
		{"empty caption", func(pc *transfer.PostCreation) { pc.Caption = "" }},
		{"unsupported platform", func(pc *transfer.PostCreation) { pc.Platform = "tiktok" }},
		{"missing media", func(pc *transfer.PostCreation) { pc.MediaURL = "" }},
		{"missing page", func(pc *transfer.PostCreation) { pc.PageID = "" }},
		{"bad timestamp", func(pc *transfer.PostCreation) { pc.ScheduledFor = "tomorrow" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := *valid
			tt.mutate(&pc)

			_, _, err := s.CreatePost(context.Background(), 42, &pc)
			assert.Error(t, err)
		})
	}
}

func TestCreatePostRollsBackOnEnqueueFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	qr := &fakeQueueRepo{enqueueErr: errors.New("duplicate queue row")}
	s := NewPostService(db, &fakePostRepo{}, qr)

	_, _, err = s.CreatePost(context.Background(), 42, validPostCreation(time.Now().Add(time.Hour)))

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostInfoChecksOwnership(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pr := &fakePostRepo{post: &models.Post{ID: 10, UserID: 42}, owned: false}
	s := NewPostService(db, pr, &fakeQueueRepo{})

	_, err = s.PostInfo(context.Background(), 10, 42)
	assert.Error(t, err)

	pr.owned = true
	post, err := s.PostInfo(context.Background(), 10, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(10), post.ID)
}

func TestRemoveChecksOwnership(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pr := &fakePostRepo{owned: false}
	s := NewPostService(db, pr, &fakeQueueRepo{})

	err = s.Remove(context.Background(), 42, 10)
	assert.Error(t, err)
	assert.Empty(t, pr.removed)

	pr.owned = true
	err = s.Remove(context.Background(), 42, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, pr.removed)
}
