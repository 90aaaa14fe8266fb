package rating_test

import (
	"testing"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/rating"

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

func createBuyer(t *testing.T, db *gorm.DB, email string, courseID uint) models.User {
	t.Helper()

	user := models.User{
		Name:     "Buyer",
		Email:    email,
		Role:     models.RoleStudent,
		Password: "hashed",
		Balance:  decimal.Zero,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&courseModels.CourseAccess{
		UserID:     user.ID,
		CourseID:   courseID,
		AccessType: courseModels.AccessPurchased,
	}).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB) courseModels.Course {
	t.Helper()

	teacher := models.User{
		Name:     "Teacher",
		Email:    "teacher@test.com",
		Role:     models.RoleTeacher,
		Password: "hashed",
		Balance:  decimal.Zero,
	}
	require.NoError(t, db.Create(&teacher).Error)

	course := courseModels.Course{
		Title:     "Practical Go",
		Price:     decimal.NewFromInt(1000),
		CreatorID: teacher.ID,
		Visible:   true,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func TestRateRequiresPurchase(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)

	outsider := models.User{
		Name: "Outsider", Email: "outsider@test.com",
		Role: models.RoleStudent, Password: "hashed", Balance: decimal.Zero,
	}
	require.NoError(t, db.Create(&outsider).Error)

	_, err := rating.Rate(db, outsider.ID, course.ID, 5)
	assert.ErrorIs(t, err, rating.ErrNotPurchased)

	buyer := createBuyer(t, db, "buyer@test.com", course.ID)
	entry, err := rating.Rate(db, buyer.ID, course.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, entry.Value)
}

func TestRateValidatesScoreAndCourse(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)
	buyer := createBuyer(t, db, "buyer@test.com", course.ID)

	for _, score := range []int{0, -1, 6} {
		_, err := rating.Rate(db, buyer.ID, course.ID, score)
		assert.ErrorIs(t, err, rating.ErrInvalidScore, "score %d", score)
	}

	_, err := rating.Rate(db, buyer.ID, 9999, 3)
	assert.ErrorIs(t, err, rating.ErrCourseNotFound)
}

func TestReRatingOverwrites(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)
	buyer := createBuyer(t, db, "buyer@test.com", course.ID)

	_, err := rating.Rate(db, buyer.ID, course.ID, 2)
	require.NoError(t, err)
	_, err = rating.Rate(db, buyer.ID, course.ID, 5)
	require.NoError(t, err)

	// Still one row, carrying the latest score
	var rows []courseModels.Rating
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Value)

	mine, err := rating.ForStudent(db, buyer.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, mine.Value)
}

func TestAverageOverBuyers(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)

	average, count, err := rating.Average(db, course.ID)
	require.NoError(t, err)
	assert.Zero(t, average)
	assert.Zero(t, count)

	first := createBuyer(t, db, "first@test.com", course.ID)
	second := createBuyer(t, db, "second@test.com", course.ID)

	_, err = rating.Rate(db, first.ID, course.ID, 4)
	require.NoError(t, err)
	_, err = rating.Rate(db, second.ID, course.ID, 5)
	require.NoError(t, err)

	average, count, err = rating.Average(db, course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, average, 0.0001)
	assert.EqualValues(t, 2, count)
}

func TestForStudentMissingRating(t *testing.T) {
	db := setupTestDB(t)
	course := seedCourse(t, db)
	buyer := createBuyer(t, db, "buyer@test.com", course.ID)

	_, err := rating.ForStudent(db, buyer.ID, course.ID)
	assert.ErrorIs(t, err, rating.ErrNotFound)
}
