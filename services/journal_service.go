package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"healthtrack/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ImageLabeler interface {
	RecognizeLabels(ctx context.Context, dataURI string) ([]string, error)
}

// JournalService stores free-text entries with an optional photo. uploader and
// labeler may be nil; photos are then rejected and left unlabeled respectively.
type JournalService struct {
	db       *gorm.DB
	uploader ImageUploader
	labeler  ImageLabeler
	log      *zap.Logger
}

func NewJournalService(db *gorm.DB, uploader ImageUploader, labeler ImageLabeler, log *zap.Logger) *JournalService {
	return &JournalService{db: db, uploader: uploader, labeler: labeler, log: log}
}

type JournalInput struct {
	Title   string     `json:"title" binding:"max=200"`
	Content string     `json:"content" binding:"required"`
	Mood    int        `json:"mood" binding:"min=0,max=5"`
	Tags    []string   `json:"tags"`
	Image   string     `json:"image_base64"`
	EntryAt *time.Time `json:"entry_at"`
}

func (s *JournalService) Create(ctx context.Context, userID uint, in JournalInput) (*models.JournalEntry, error) {
	e := &models.JournalEntry{
		UserID:  userID,
		Title:   in.Title,
		Content: in.Content,
		Mood:    in.Mood,
		Tags:    joinTags(in.Tags),
		EntryAt: time.Now(),
	}
	if in.EntryAt != nil {
		e.EntryAt = *in.EntryAt
	}
	if err := s.attachImage(ctx, e, in.Image); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// attachImage uploads the photo and, when a labeler is configured, tags the
// entry with what the photo shows. Labeling failures only get logged.
func (s *JournalService) attachImage(ctx context.Context, e *models.JournalEntry, dataURI string) error {
	if dataURI == "" {
		return nil
	}
	if s.uploader == nil {
		return ErrUnavailable
	}
	url, err := s.uploader.UploadDataURI(ctx, dataURI, fmt.Sprintf("journal/%d", e.UserID))
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}
	e.ImageURL = url

	if s.labeler == nil {
		return nil
	}
	labels, err := s.labeler.RecognizeLabels(ctx, dataURI)
	if err != nil {
		s.log.Warn("label journal image", zap.Uint("user_id", e.UserID), zap.Error(err))
		return nil
	}
	e.AILabels = joinTags(labels)
	return nil
}

func (s *JournalService) List(ctx context.Context, userID uint, tag string, r DateRange) ([]models.JournalEntry, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
		like := "%" + tag + "%"
		q = q.Where("(tags LIKE ? OR LOWER(ai_labels) LIKE ?)", like, like)
	}
	var out []models.JournalEntry
	err := r.apply(q, "entry_at").Order("entry_at desc").Find(&out).Error
	return out, err
}

func (s *JournalService) Get(ctx context.Context, userID, id uint) (*models.JournalEntry, error) {
	var e models.JournalEntry
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (s *JournalService) Update(ctx context.Context, userID, id uint, in JournalInput) (*models.JournalEntry, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	e.Title = in.Title
	e.Content = in.Content
	e.Mood = in.Mood
	e.Tags = joinTags(in.Tags)
	if in.EntryAt != nil {
		e.EntryAt = *in.EntryAt
	}
	if err := s.attachImage(ctx, e, in.Image); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (s *JournalService) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.JournalEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// joinTags lowercases, trims and de-duplicates tags, keeping first-seen order.
func joinTags(tags []string) string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return strings.Join(out, ",")
}
