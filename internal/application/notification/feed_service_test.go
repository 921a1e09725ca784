package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeedRepo struct {
	entries    []notification.Notification
	lastFilter shared.Filter
}

func (r *stubFeedRepo) FindByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	for i := range r.entries {
		if r.entries[i].ID == id {
			return &r.entries[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubFeedRepo) FindAll(_ context.Context, filter shared.Filter) ([]notification.Notification, error) {
	r.lastFilter = filter
	return r.entries, nil
}

func (r *stubFeedRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *stubFeedRepo) CountUnread(_ context.Context) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if !e.Read {
			n++
		}
	}
	return n, nil
}

func (r *stubFeedRepo) Save(_ context.Context, n *notification.Notification) error {
	for i := range r.entries {
		if r.entries[i].ID == n.ID {
			r.entries[i] = *n
			return nil
		}
	}
	r.entries = append(r.entries, *n)
	return nil
}

func (r *stubFeedRepo) MarkAllRead(_ context.Context) error {
	for i := range r.entries {
		r.entries[i].Read = true
	}
	return nil
}

func seedFeedEntry(t *testing.T, repo *stubFeedRepo, title string, typ notification.Type) *notification.Notification {
	t.Helper()
	n, err := notification.New(title, "details", typ)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), n))
	return n
}

func TestFeedService_List(t *testing.T) {
	repo := &stubFeedRepo{}
	seedFeedEntry(t, repo, "Late fee charged", notification.TypePenalty)
	seedFeedEntry(t, repo, "Payment reminder", notification.TypeReminder)
	svc := NewFeedService(repo)

	entries, total, err := svc.List(context.Background(), FeedListFilter{Type: "PENALTY", Unread: true})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, entries, 2)
	assert.Equal(t, "PENALTY", repo.lastFilter.Filters["type"])
	assert.Equal(t, true, repo.lastFilter.Filters["unread"])
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 20, repo.lastFilter.PageSize)
	assert.Equal(t, "created_at", repo.lastFilter.OrderBy)
	assert.Equal(t, "desc", repo.lastFilter.OrderDir)
}

func TestFeedService_MarkRead(t *testing.T) {
	repo := &stubFeedRepo{}
	entry := seedFeedEntry(t, repo, "Payment received", notification.TypePayment)
	svc := NewFeedService(repo)

	got, err := svc.MarkRead(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)
	assert.True(t, repo.entries[0].Read)

	count, err := svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFeedService_MarkRead_NotFound(t *testing.T) {
	svc := NewFeedService(&stubFeedRepo{})

	_, err := svc.MarkRead(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestFeedService_MarkAllRead(t *testing.T) {
	repo := &stubFeedRepo{}
	seedFeedEntry(t, repo, "a", notification.TypeInfo)
	seedFeedEntry(t, repo, "b", notification.TypeInfo)
	svc := NewFeedService(repo)

	require.NoError(t, svc.MarkAllRead(context.Background()))

	count, err := svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
