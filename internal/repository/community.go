package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service"
)

// CommunityRepository хранит ленту сообщества в памяти процесса.
// Данные не переживают перезапуск; стартовое наполнение задается сидом.
type CommunityRepository struct {
	mu       sync.RWMutex
	posts    []*models.CommunityPost
	comments map[int64][]*models.Comment
	alerts   []*models.EmergencyAlert
	nextID   int64
}

func NewCommunityRepository() service.CommunityRepository {
	r := &CommunityRepository{
		posts:    make([]*models.CommunityPost, 0),
		comments: make(map[int64][]*models.Comment),
		alerts:   make([]*models.EmergencyAlert, 0),
		nextID:   1,
	}
	r.seed()
	return r
}

// seed наполняет ленту стартовыми записями, чтобы пустой инстанс
// не выглядел сломанным.
func (r *CommunityRepository) seed() {
	now := time.Now()

	r.addPostLocked(&models.CommunityPost{
		Title:      "Community Safety Tips",
		Content:    "Here are some important safety tips for our neighborhood. Always be aware of your surroundings and report any suspicious activities.",
		AuthorName: "John Doe",
		Category:   "safety",
		Views:      45,
		Likes:      12,
		CreatedAt:  now.Add(-48 * time.Hour),
	})
	r.addPostLocked(&models.CommunityPost{
		Title:      "Neighborhood Watch Update",
		Content:    "Our neighborhood watch program is expanding. We are looking for more volunteers to help keep our community safe.",
		AuthorName: "Jane Smith",
		Category:   "community",
		Views:      32,
		Likes:      8,
		CreatedAt:  now.Add(-24 * time.Hour),
	})
	r.comments[r.posts[0].ID] = append(r.comments[r.posts[0].ID], &models.Comment{
		ID:         r.nextIDLocked(),
		PostID:     r.posts[0].ID,
		Content:    "Great post! Very helpful information.",
		AuthorName: "Community Member",
		CreatedAt:  now.Add(-36 * time.Hour),
	})

	// Оповещения добавляются от старых к новым: addAlertLocked ставит
	// запись в начало, поэтому свежие оказываются первыми в списке.
	r.addAlertLocked(&models.EmergencyAlert{
		Title:      "Road Closure - Maintenance",
		Message:    "Oak Street will be closed for emergency water main repair from 8 AM to 6 PM today. Please use alternate routes.",
		Severity:   "low",
		Location:   "Oak Street",
		AuthorName: "City Services",
		Status:     "resolved",
		CreatedAt:  now.Add(-18 * time.Hour),
	})
	r.addAlertLocked(&models.EmergencyAlert{
		Title:      "Street Light Outage",
		Message:    "Several street lights are out on Main Street between 5th and 7th Avenue. Use caution when walking in this area after dark.",
		Severity:   "medium",
		Location:   "Main Street",
		AuthorName: "City Maintenance",
		Status:     "active",
		CreatedAt:  now.Add(-12 * time.Hour),
	})
	r.addAlertLocked(&models.EmergencyAlert{
		Title:      "Suspicious Activity Reported",
		Message:    "Multiple residents have reported suspicious individuals in the downtown area. Please be cautious and report any unusual activity to authorities.",
		Severity:   "high",
		Location:   "Downtown Area",
		AuthorName: "Community Watch",
		Status:     "active",
		CreatedAt:  now.Add(-6 * time.Hour),
	})
}

func (r *CommunityRepository) nextIDLocked() int64 {
	id := r.nextID
	r.nextID++
	return id
}

func (r *CommunityRepository) addPostLocked(post *models.CommunityPost) {
	post.ID = r.nextIDLocked()
	// Новые публикации встают в начало ленты
	r.posts = append([]*models.CommunityPost{post}, r.posts...)
}

func (r *CommunityRepository) addAlertLocked(alert *models.EmergencyAlert) {
	alert.ID = r.nextIDLocked()
	r.alerts = append([]*models.EmergencyAlert{alert}, r.alerts...)
}

// ListPosts возвращает копию ленты публикаций
func (r *CommunityRepository) ListPosts(ctx context.Context) ([]*models.CommunityPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.CommunityPost, len(r.posts))
	for i, p := range r.posts {
		cp := *p
		out[i] = &cp
	}
	return out, nil
}

// AddPost добавляет публикацию в начало ленты и присваивает ей ID
func (r *CommunityRepository) AddPost(ctx context.Context, post *models.CommunityPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addPostLocked(post)
	return nil
}

// LikePost увеличивает счетчик отметок и возвращает новое значение
func (r *CommunityRepository) LikePost(ctx context.Context, postID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.ID == postID {
			p.Likes++
			return p.Likes, nil
		}
	}
	return 0, fmt.Errorf("post with id %d: %w", postID, service.ErrNotFound)
}

// ViewPost увеличивает счетчик просмотров
func (r *CommunityRepository) ViewPost(ctx context.Context, postID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.ID == postID {
			p.Views++
			return nil
		}
	}
	return fmt.Errorf("post with id %d: %w", postID, service.ErrNotFound)
}

// ListComments возвращает комментарии публикации в порядке добавления
func (r *CommunityRepository) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := false
	for _, p := range r.posts {
		if p.ID == postID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("post with id %d: %w", postID, service.ErrNotFound)
	}

	src := r.comments[postID]
	out := make([]*models.Comment, len(src))
	for i, c := range src {
		cc := *c
		out[i] = &cc
	}
	return out, nil
}

// AddComment добавляет комментарий к публикации
func (r *CommunityRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for _, p := range r.posts {
		if p.ID == comment.PostID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("post with id %d: %w", comment.PostID, service.ErrNotFound)
	}

	comment.ID = r.nextIDLocked()
	r.comments[comment.PostID] = append(r.comments[comment.PostID], comment)
	return nil
}

// ListAlerts возвращает копию списка оповещений
func (r *CommunityRepository) ListAlerts(ctx context.Context) ([]*models.EmergencyAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.EmergencyAlert, len(r.alerts))
	for i, a := range r.alerts {
		ca := *a
		out[i] = &ca
	}
	return out, nil
}

// AddAlert добавляет оповещение в начало списка и присваивает ему ID
func (r *CommunityRepository) AddAlert(ctx context.Context, alert *models.EmergencyAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addAlertLocked(alert)
	return nil
}
