package database

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/univault/univault-api/internal/config"
	"github.com/univault/univault-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the default ADMIN and MOD accounts if no admin exists.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        cfg.AdminEmail,
		Username:     "admin",
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Created default admin user: %s", admin.Email)

	mod := models.User{
		Email:        "mod@example.com",
		Username:     "moderator",
		PasswordHash: string(hashedPassword),
		Role:         models.RoleMod,
	}
	if err := db.Create(&mod).Error; err != nil {
		return err
	}
	log.Printf("Created default moderator user: %s", mod.Email)

	return nil
}

var seedBranches = []models.Branch{
	{Name: "Computer Science Engineering", Slug: "cse"},
	{Name: "CSE - AI", Slug: "cse-ai"},
	{Name: "AI & ML", Slug: "aiml"},
	{Name: "Mathematics and Computing", Slug: "mac"},
	{Name: "Electronics and Communication", Slug: "ece"},
	{Name: "ECE - AI", Slug: "ece-ai"},
	{Name: "Mechanical Engineering Automation", Slug: "mae"},
}

var semesterSubjects = map[int][]string{
	1: {"Applied Mathematics I", "Applied Physics I", "Programming in C", "Engineering Drawing", "Communication Skills"},
	2: {"Applied Mathematics II", "Applied Physics II", "Data Structures", "Digital Electronics", "Environmental Science"},
	3: {"Discrete Mathematics", "Computer Organization", "Object Oriented Programming", "Database Management Systems", "Operating Systems"},
	4: {"Theory of Computation", "Computer Networks", "Software Engineering", "Microprocessors", "Design and Analysis of Algorithms"},
	5: {"Machine Learning", "Compiler Design", "Web Technologies", "Computer Graphics", "Artificial Intelligence"},
	6: {"Cloud Computing", "Information Security", "Mobile Application Development", "Big Data Analytics", "Internet of Things"},
	7: {"Deep Learning", "Blockchain Technology", "Natural Language Processing", "Cyber Security", "DevOps"},
	8: {"Project Work", "Industrial Training", "Seminar", "Elective I", "Elective II"},
}

// SeedCatalog populates the branch/semester/subject/unit hierarchy. It is
// idempotent: existing branches, semesters and subjects are left untouched.
func SeedCatalog(db *gorm.DB) error {
	for _, b := range seedBranches {
		var branch models.Branch
		if err := db.Where(models.Branch{Slug: b.Slug}).
			Attrs(models.Branch{Name: b.Name}).
			FirstOrCreate(&branch).Error; err != nil {
			return err
		}
		log.Printf("Seeded branch: %s", branch.Name)

		for number := 1; number <= 8; number++ {
			var semester models.Semester
			if err := db.Where(models.Semester{BranchID: branch.ID, Number: number}).
				FirstOrCreate(&semester).Error; err != nil {
				return err
			}

			for _, name := range semesterSubjects[number] {
				var existing int64
				if err := db.Model(&models.Subject{}).
					Where("semester_id = ? AND name = ?", semester.ID, name).
					Count(&existing).Error; err != nil {
					return err
				}
				if existing > 0 {
					continue
				}

				subject := models.Subject{
					Name:       name,
					Code:       fmt.Sprintf("%s-%d%02d", strings.ToUpper(branch.Slug), number, rand.Intn(100)),
					SemesterID: semester.ID,
					Units:      defaultUnits(),
				}
				if err := db.Create(&subject).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func defaultUnits() []models.Unit {
	units := make([]models.Unit, models.DefaultUnitCount)
	for i := range units {
		units[i] = models.Unit{
			Number: i + 1,
			Name:   fmt.Sprintf("Unit %d", i+1),
		}
	}
	return units
}
