package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// NotificationResponse represents a feed entry in API responses
type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedListFilter represents filter options for the feed
type FeedListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=INFO PAYMENT PENALTY REMINDER"`
	Unread   bool   `form:"unread"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// FeedService manages the internal dashboard notification feed
type FeedService struct {
	repo notification.Repository
}

// NewFeedService creates a new FeedService
func NewFeedService(repo notification.Repository) *FeedService {
	return &FeedService{repo: repo}
}

// List returns feed entries matching the filter, newest first
func (s *FeedService) List(ctx context.Context, filter FeedListFilter) ([]NotificationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Unread {
		domainFilter.Filters["unread"] = true
	}

	entries, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]NotificationResponse, len(entries))
	for i := range entries {
		responses[i] = toResponse(&entries[i])
	}
	return responses, total, nil
}

// UnreadCount returns how many feed entries are unread
func (s *FeedService) UnreadCount(ctx context.Context) (int64, error) {
	return s.repo.CountUnread(ctx)
}

// MarkRead flags one entry as seen
func (s *FeedService) MarkRead(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.MarkRead()
	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}
	response := toResponse(entry)
	return &response, nil
}

// MarkAllRead flags every entry as seen
func (s *FeedService) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}

func toResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
