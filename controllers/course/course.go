package controllers

import (
	"log"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CreateCourse creates a new course owned by the calling teacher. New
// courses start hidden; the teacher publishes them explicitly. Creation also
// grants the CREATED access row so the author always sees their own course.
func CreateCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Price       decimal.Decimal `json:"price"`
		ImageURL    string          `json:"imageUrl"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	newCourse := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Category:    reqData.Category,
		Price:       reqData.Price,
		ImageURL:    reqData.ImageURL,
		CreatorID:   userId,
		Visible:     false,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&newCourse).Error; err != nil {
		tx.Rollback()
		log.Printf("[COURSE] Failed to create course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	access := courseModels.CourseAccess{
		UserID:     userId,
		CourseID:   newCourse.ID,
		AccessType: courseModels.AccessCreated,
	}
	if err := tx.Create(&access).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", newCourse)
}

// UpdateCourse updates an existing course (owner only)
func UpdateCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Price       decimal.Decimal `json:"price"`
		ImageURL    string          `json:"imageUrl"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.CreatorID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	course.Title = reqData.Title
	course.Description = reqData.Description
	course.Category = reqData.Category
	course.Price = reqData.Price
	course.ImageURL = reqData.ImageURL

	if err := db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// SetCourseVisibility publishes or hides a course (owner only). Hiding a
// course blocks new purchases; existing buyers keep access.
func SetCourseVisibility(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	reqData := new(struct {
		Visible bool `json:"visible"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.CreatorID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	if err := db.Model(&course).Update("visible", reqData.Visible).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update visibility!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course visibility updated!", fiber.Map{
		"courseId": course.ID,
		"visible":  reqData.Visible,
	})
}

// GetCreatedCourses lists the calling teacher's own courses, hidden ones
// included
func GetCreatedCourses(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&courseModels.Course{}).Where("creator_id = ? AND is_deleted = false", userId)

	var total int64
	query.Count(&total)

	var courses []courseModels.Course
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ExploreCourses lists visible courses the student has not purchased yet
func ExploreCourses(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 8)
	category := c.Query("category")
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 8
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	purchased := db.Model(&courseModels.CourseAccess{}).
		Select("course_id").
		Where("user_id = ? AND access_type = ?", userId, courseModels.AccessPurchased)

	query := db.Model(&courseModels.Course{}).
		Where("visible = ? AND is_deleted = false", true).
		Where("id NOT IN (?)", purchased)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	query.Count(&total)

	var courses []courseModels.Course
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetPurchasedCourses lists the courses the calling student owns
func GetPurchasedCourses(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 8)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 8
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	owned := db.Model(&courseModels.CourseAccess{}).
		Select("course_id").
		Where("user_id = ? AND access_type = ?", userId, courseModels.AccessPurchased)

	query := db.Model(&courseModels.Course{}).
		Where("id IN (?) AND is_deleted = false", owned)

	var total int64
	query.Count(&total)

	var courses []courseModels.Course
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchased courses fetched!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns one course. A hidden course is only shown to
// users who already have an access row for it (creator or prior buyer).
func GetCourseDetails(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	hasAccess := false
	var access courseModels.CourseAccess
	if err := db.Where("user_id = ? AND course_id = ?", userId, courseID).First(&access).Error; err == nil {
		hasAccess = true
	}

	if !course.Visible && !hasAccess {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This course is not available.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":    course,
		"hasAccess": hasAccess,
	})
}
