package teams

import (
	"errors"

	"github.com/kindred-dev/kindred/internal/models"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// CreatePost publishes a post on behalf of the caller's current team in the
// given event. Requires in_team.
func (s *Service) CreatePost(userID, eventID uint, title, content string) (models.TeamPost, error) {
	var post models.TeamPost

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var participant models.EventParticipant

		err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&participant).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotJoinedEvent
		}

		if err != nil {
			return err
		}

		if participant.TeamID == nil {
			return ErrNotInTeam
		}

		post = models.TeamPost{
			TeamID:   *participant.TeamID,
			AuthorID: userID,
			Title:    title,
			Content:  content,
			IsActive: true,
		}

		return tx.Create(&post).Error
	})

	return post, err
}

// ListPosts returns all active posts, newest first.
func (s *Service) ListPosts() ([]models.TeamPost, error) {
	var posts []models.TeamPost

	err := s.db.Preload("Author").Preload("Team").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&posts).Error

	return posts, err
}

// UpdatePost edits a post owned by the caller.
func (s *Service) UpdatePost(userID, postID uint, title, content string) (models.TeamPost, error) {
	var post models.TeamPost

	err := s.db.Where("id = ? AND author_id = ? AND is_active = ?", postID, userID, true).First(&post).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TeamPost{}, ErrPostNotFound
	}

	if err != nil {
		return models.TeamPost{}, err
	}

	post.Title = title
	post.Content = content

	if err := s.db.Save(&post).Error; err != nil {
		return models.TeamPost{}, err
	}

	return post, nil
}

// DeletePost soft-deletes a post owned by the caller.
func (s *Service) DeletePost(userID, postID uint) error {
	result := s.db.Model(&models.TeamPost{}).
		Where("id = ? AND author_id = ? AND is_active = ?", postID, userID, true).
		Update("is_active", false)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}
