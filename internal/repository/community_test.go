package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service"
)

func newTestCommunityRepo(t *testing.T) *CommunityRepository {
	t.Helper()
	repo := NewCommunityRepository()
	return repo.(*CommunityRepository)
}

func TestCommunityRepo_SeededData(t *testing.T) {
	repo := newTestCommunityRepo(t)
	ctx := context.Background()

	posts, err := repo.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	alerts, err := repo.ListAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 3)
}

func TestCommunityRepo_SeededAlertsNewestFirst(t *testing.T) {
	repo := newTestCommunityRepo(t)
	ctx := context.Background()

	alerts, err := repo.ListAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	// Лента оповещений отдается от новых к старым
	assert.Equal(t, "Suspicious Activity Reported", alerts[0].Title)
	assert.Equal(t, "Street Light Outage", alerts[1].Title)
	assert.Equal(t, "Road Closure - Maintenance", alerts[2].Title)
	for i := 1; i < len(alerts); i++ {
		assert.True(t, alerts[i].CreatedAt.Before(alerts[i-1].CreatedAt))
	}
}

func TestCommunityRepo_AddPost_PrependsAndAssignsID(t *testing.T) {
	repo := newTestCommunityRepo(t)
	ctx := context.Background()

	post := &models.CommunityPost{
		Title:      "Новая публикация",
		Content:    "Содержимое",
		Category:   "general",
		AuthorName: "resident@example.com",
	}
	require.NoError(t, repo.AddPost(ctx, post))
	assert.NotZero(t, post.ID)

	posts, err := repo.ListPosts(ctx)
	require.NoError(t, err)
	// Новая публикация встает в начало ленты
	assert.Equal(t, post.ID, posts[0].ID)
}

func TestCommunityRepo_LikePost_IncrementsCounter(t *testing.T) {
	repo := newTestCommunityRepo(t)
	ctx := context.Background()

	posts, err := repo.ListPosts(ctx)
	require.NoError(t, err)
	target := posts[0]
	before := target.Likes

	likes, err := repo.LikePost(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, likes)

	likes, err = repo.LikePost(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, before+2, likes)
}

func TestCommunityRepo_LikePost_UnknownID(t *testing.T) {
	repo := newTestCommunityRepo(t)
	ctx := context.Background()

	_, err := repo.LikePost(ctx, 99999)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCommunityRepo_Comments(t *testing.T) {
	repo := newTestCommunityRepo(t)
	ctx := context.Background()

	posts, err := repo.ListPosts(ctx)
	require.NoError(t, err)
	target := posts[0]

	comment := &models.Comment{
		PostID:     target.ID,
		Content:    "Полезно, спасибо",
		AuthorName: "neighbor@example.com",
	}
	require.NoError(t, repo.AddComment(ctx, comment))
	assert.NotZero(t, comment.ID)

	comments, err := repo.ListComments(ctx, target.ID)
	require.NoError(t, err)
	require.NotEmpty(t, comments)
	assert.Equal(t, comment.Content, comments[len(comments)-1].Content)
}

func TestCommunityRepo_AddComment_UnknownPost(t *testing.T) {
	repo := newTestCommunityRepo(t)
	ctx := context.Background()

	err := repo.AddComment(ctx, &models.Comment{PostID: 99999, Content: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCommunityRepo_ListReturnsCopies(t *testing.T) {
	repo := newTestCommunityRepo(t)
	ctx := context.Background()

	posts, err := repo.ListPosts(ctx)
	require.NoError(t, err)

	// Мутация выданного слайса не должна затрагивать хранилище
	posts[0].Likes = 1000

	again, err := repo.ListPosts(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, 1000, again[0].Likes)
}

func TestCommunityRepo_AddAlert_Prepends(t *testing.T) {
	repo := newTestCommunityRepo(t)
	ctx := context.Background()

	alert := &models.EmergencyAlert{
		Title:      "Прорыв трубы",
		Message:    "Перекрыт перекресток",
		Severity:   "high",
		Status:     "active",
		AuthorName: "admin@example.com",
	}
	require.NoError(t, repo.AddAlert(ctx, alert))
	assert.NotZero(t, alert.ID)

	alerts, err := repo.ListAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, alert.ID, alerts[0].ID)
}
