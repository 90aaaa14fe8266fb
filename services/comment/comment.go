// Package comment implements the per-course discussion thread. Commenting
// is open to the course's creator and to students who purchased it; editing
// and deleting stay with the author.
package comment

import (
	"errors"
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrNotAllowed      = errors.New("not allowed")
)

// Add posts a comment under a course. parentID nil starts a new thread;
// otherwise the comment is a reply and the parent must belong to the same
// course.
func Add(db *gorm.DB, userID, courseID uint, content string, parentID *uint) (*courseModels.Comment, error) {
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	allowed, err := mayComment(db, userID, course)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotAllowed
	}

	if parentID != nil {
		var parent courseModels.Comment
		err := db.Where("id = ? AND course_id = ?", *parentID, courseID).First(&parent).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
	}

	entry := courseModels.Comment{
		CourseID: courseID,
		AuthorID: userID,
		ParentID: parentID,
		Content:  content,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// mayComment allows the course's creator and any user holding a PURCHASED
// access row
func mayComment(db *gorm.DB, userID uint, course courseModels.Course) (bool, error) {
	if course.CreatorID == userID {
		return true, nil
	}
	var count int64
	err := db.Model(&courseModels.CourseAccess{}).
		Where("user_id = ? AND course_id = ? AND access_type = ?",
			userID, course.ID, courseModels.AccessPurchased).
		Count(&count).Error
	return count > 0, err
}

// Update changes the content of the author's own comment
func Update(db *gorm.DB, userID, commentID uint, content string) (*courseModels.Comment, error) {
	var entry courseModels.Comment
	if err := db.First(&entry, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if entry.AuthorID != userID {
		return nil, ErrNotAllowed
	}

	entry.Content = content
	if err := db.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes the author's own comment. Replies to it survive but drop
// out of the thread view with their parent gone.
func Delete(db *gorm.DB, userID, commentID uint) error {
	var entry courseModels.Comment
	if err := db.First(&entry, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if entry.AuthorID != userID {
		return ErrNotAllowed
	}
	return db.Delete(&entry).Error
}

// Node is one comment in the thread view with its replies nested
type Node struct {
	ID         uint      `json:"id"`
	Content    string    `json:"content"`
	AuthorID   uint      `json:"authorId"`
	AuthorName string    `json:"authorName"`
	ParentID   *uint     `json:"parentId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	Replies    []*Node   `json:"replies"`
}

// Thread returns the course's comments as a tree, oldest first. Replies
// whose parent no longer exists are dropped.
func Thread(db *gorm.DB, courseID uint) ([]*Node, error) {
	var comments []courseModels.Comment
	err := db.Where("course_id = ?", courseID).
		Order("created_at asc, id asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	names, err := authorNames(db, comments)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*Node, len(comments))
	for _, comment := range comments {
		byID[comment.ID] = &Node{
			ID:         comment.ID,
			Content:    comment.Content,
			AuthorID:   comment.AuthorID,
			AuthorName: names[comment.AuthorID],
			ParentID:   comment.ParentID,
			CreatedAt:  comment.CreatedAt,
			Replies:    []*Node{},
		}
	}

	roots := []*Node{}
	for _, comment := range comments {
		node := byID[comment.ID]
		if comment.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := byID[*comment.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		}
	}
	return roots, nil
}

func authorNames(db *gorm.DB, comments []courseModels.Comment) (map[uint]string, error) {
	ids := make([]uint, 0, len(comments))
	seen := map[uint]bool{}
	for _, comment := range comments {
		if !seen[comment.AuthorID] {
			seen[comment.AuthorID] = true
			ids = append(ids, comment.AuthorID)
		}
	}
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}

	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}
	return names, nil
}
