package comment_test

import (
	"testing"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/comment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: "hashed",
		Balance:  decimal.Zero,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedCourse creates a visible course plus a buyer holding a PURCHASED
// access row
func seedCourse(t *testing.T, db *gorm.DB) (courseModels.Course, models.User, models.User) {
	t.Helper()

	teacher := createUser(t, db, "Teacher", "teacher@test.com", models.RoleTeacher)
	buyer := createUser(t, db, "Buyer", "buyer@test.com", models.RoleStudent)

	course := courseModels.Course{
		Title:     "Practical Go",
		Price:     decimal.NewFromInt(1000),
		CreatorID: teacher.ID,
		Visible:   true,
	}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&courseModels.CourseAccess{
		UserID:     buyer.ID,
		CourseID:   course.ID,
		AccessType: courseModels.AccessPurchased,
	}).Error)

	return course, teacher, buyer
}

func TestAddCommentRequiresPurchaseOrOwnership(t *testing.T) {
	db := setupTestDB(t)
	course, teacher, buyer := seedCourse(t, db)
	outsider := createUser(t, db, "Outsider", "outsider@test.com", models.RoleStudent)

	_, err := comment.Add(db, buyer.ID, course.ID, "Great course!", nil)
	require.NoError(t, err)

	_, err = comment.Add(db, teacher.ID, course.ID, "Thanks!", nil)
	require.NoError(t, err)

	_, err = comment.Add(db, outsider.ID, course.ID, "First!", nil)
	assert.ErrorIs(t, err, comment.ErrNotAllowed)

	_, err = comment.Add(db, buyer.ID, 9999, "Hello?", nil)
	assert.ErrorIs(t, err, comment.ErrCourseNotFound)
}

func TestReplyValidation(t *testing.T) {
	db := setupTestDB(t)
	course, _, buyer := seedCourse(t, db)

	root, err := comment.Add(db, buyer.ID, course.ID, "Question about lesson 3", nil)
	require.NoError(t, err)

	reply, err := comment.Add(db, buyer.ID, course.ID, "Answering myself", &root.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	// A parent from another course is not a valid thread root
	otherTeacher := createUser(t, db, "Other", "other@test.com", models.RoleTeacher)
	otherCourse := courseModels.Course{Title: "Other", CreatorID: otherTeacher.ID, Visible: true}
	require.NoError(t, db.Create(&otherCourse).Error)

	_, err = comment.Add(db, otherTeacher.ID, otherCourse.ID, "reply", &root.ID)
	assert.ErrorIs(t, err, comment.ErrParentNotFound)

	missing := uint(9999)
	_, err = comment.Add(db, buyer.ID, course.ID, "reply", &missing)
	assert.ErrorIs(t, err, comment.ErrParentNotFound)
}

func TestThreadNestsReplies(t *testing.T) {
	db := setupTestDB(t)
	course, teacher, buyer := seedCourse(t, db)

	first, err := comment.Add(db, buyer.ID, course.ID, "Is there a part two?", nil)
	require.NoError(t, err)
	_, err = comment.Add(db, teacher.ID, course.ID, "Coming soon.", &first.ID)
	require.NoError(t, err)
	_, err = comment.Add(db, buyer.ID, course.ID, "Separate question", nil)
	require.NoError(t, err)

	thread, err := comment.Thread(db, course.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)

	assert.Equal(t, "Is there a part two?", thread[0].Content)
	assert.Equal(t, "Buyer", thread[0].AuthorName)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "Coming soon.", thread[0].Replies[0].Content)
	assert.Equal(t, "Teacher", thread[0].Replies[0].AuthorName)

	assert.Equal(t, "Separate question", thread[1].Content)
	assert.Empty(t, thread[1].Replies)
}

func TestUpdateCommentOwnershipCheck(t *testing.T) {
	db := setupTestDB(t)
	course, teacher, buyer := seedCourse(t, db)

	entry, err := comment.Add(db, buyer.ID, course.ID, "typo hree", nil)
	require.NoError(t, err)

	_, err = comment.Update(db, teacher.ID, entry.ID, "edited by someone else")
	assert.ErrorIs(t, err, comment.ErrNotAllowed)

	updated, err := comment.Update(db, buyer.ID, entry.ID, "typo here")
	require.NoError(t, err)
	assert.Equal(t, "typo here", updated.Content)

	_, err = comment.Update(db, buyer.ID, 9999, "x")
	assert.ErrorIs(t, err, comment.ErrCommentNotFound)
}

func TestDeleteCommentDropsRepliesFromThread(t *testing.T) {
	db := setupTestDB(t)
	course, teacher, buyer := seedCourse(t, db)

	root, err := comment.Add(db, buyer.ID, course.ID, "root", nil)
	require.NoError(t, err)
	_, err = comment.Add(db, teacher.ID, course.ID, "reply", &root.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, comment.Delete(db, teacher.ID, root.ID), comment.ErrNotAllowed)
	require.NoError(t, comment.Delete(db, buyer.ID, root.ID))

	// The orphaned reply no longer appears in the thread view
	thread, err := comment.Thread(db, course.ID)
	require.NoError(t, err)
	assert.Empty(t, thread)
}
