package seeders

import (
	"log"
	"time"

	"anglebelearn_go/database"
	"anglebelearn_go/models"
	"anglebelearn_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedTeachers()
	SeedStudents()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers seeds the users table
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	// Hash the default password
	hashedPassword, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			BaseModel: models.BaseModel{ID: 1, CreatedAt: time.Date(2025, 8, 15, 2, 28, 56, 0, time.UTC)},
			Username:  "admin",
			Password:  hashedPassword,
			Email:     "admin@anglebelearn.com",
			Phone:     "9812345678",
			Role:      "admin",
			Status:    "active",
		},
		{
			BaseModel: models.BaseModel{ID: 2, CreatedAt: time.Date(2025, 8, 15, 2, 28, 56, 0, time.UTC)},
			Username:  "owner",
			Password:  hashedPassword,
			Email:     "owner@anglebelearn.com",
			Phone:     "9812345679",
			Role:      "owner",
			Status:    "active",
		},
		{
			BaseModel: models.BaseModel{ID: 3, CreatedAt: time.Date(2025, 8, 15, 2, 28, 56, 0, time.UTC)},
			Username:  "teacher_priya",
			Password:  hashedPassword,
			Email:     "priya.sharma@anglebelearn.com",
			Phone:     "9891234567",
			Role:      "teacher",
			Status:    "active",
			SheetID:   "AB - T - 001",
		},
		{
			BaseModel: models.BaseModel{ID: 4, CreatedAt: time.Date(2025, 8, 15, 2, 28, 56, 0, time.UTC)},
			Username:  "student_rahul",
			Password:  hashedPassword,
			Email:     "rahul.mehta@gmail.com",
			Phone:     "9896789012",
			Role:      "student",
			Status:    "active",
			SheetID:   "AB - 2024 - 001",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedTeachers seeds the teachers table
func SeedTeachers() {
	var count int64
	database.DB.Model(&models.Teacher{}).Count(&count)
	if count > 0 {
		log.Println("Teachers already seeded, skipping...")
		return
	}

	teachers := []models.Teacher{
		{
			BaseModel: models.BaseModel{ID: 1, CreatedAt: time.Date(2025, 8, 20, 6, 15, 59, 0, time.UTC)},
			TeacherID: "AB - T - 001",
			Name:      "Priya Sharma",
			Email:     "priya.sharma@anglebelearn.com",
			Phone:     "9891234567",
			Active:    true,
		},
		{
			BaseModel: models.BaseModel{ID: 2, CreatedAt: time.Date(2025, 8, 20, 6, 15, 59, 0, time.UTC)},
			TeacherID: "AB - T - 002",
			Name:      "Arjun Nair",
			Email:     "arjun.nair@anglebelearn.com",
			Phone:     "9891234568",
			Active:    true,
		},
	}

	for _, teacher := range teachers {
		if err := database.DB.Create(&teacher).Error; err != nil {
			log.Printf("Error seeding teacher %s: %v", teacher.TeacherID, err)
		}
	}

	log.Println("Teachers seeded successfully")
}

// SeedStudents seeds the students table
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	students := []models.Student{
		{
			BaseModel:         models.BaseModel{ID: 1, CreatedAt: time.Date(2025, 8, 15, 2, 28, 57, 0, time.UTC)},
			StudentID:         "AB - 2024 - 001",
			Name:              "Rahul Mehta",
			EMName:            "Kavita Iyer",
			EMPhone:           "9896789013",
			SupalearnPassword: "sply-4821",
			Active:            true,
		},
		{
			BaseModel: models.BaseModel{ID: 2, CreatedAt: time.Date(2025, 8, 15, 2, 28, 57, 0, time.UTC)},
			StudentID: "AB - 2024 - 002",
			Name:      "Ananya Rao",
			EMName:    "Kavita Iyer",
			EMPhone:   "9896789013",
			Active:    true,
		},
	}

	for _, student := range students {
		if err := database.DB.Create(&student).Error; err != nil {
			log.Printf("Error seeding student %s: %v", student.StudentID, err)
		}
	}

	log.Println("Students seeded successfully")
}
