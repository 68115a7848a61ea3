package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/markbook/internal/config"
	"github.com/stemsi/markbook/internal/database"
	"github.com/stemsi/markbook/internal/logger"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/repository"
	"github.com/stemsi/markbook/internal/service"
)

// Demo data: one class with its subjects, a roster, an exam, a teacher and
// a student login for the first roll number.
var (
	demoClass = model.Class{Name: "10", Section: "A"}

	demoSubjects = []model.Subject{
		{Name: "English", MaxMarks: 100, PassingMarks: 35},
		{Name: "Mathematics", MaxMarks: 100, PassingMarks: 35},
		{Name: "Science", MaxMarks: 100, PassingMarks: 35},
		{Name: "Social Studies", MaxMarks: 100, PassingMarks: 35},
		{Name: "Computer Applications", MaxMarks: 50, PassingMarks: 18},
	}

	demoStudents = []string{
		"Aarav Sharma", "Diya Patel", "Vihaan Reddy", "Ananya Iyer", "Arjun Nair",
		"Ishita Verma", "Kabir Singh", "Meera Joshi", "Rohan Gupta", "Saanvi Rao",
		"Aditya Kulkarni", "Kavya Menon", "Reyansh Das", "Tara Bhat", "Yash Chauhan",
		"Nisha Pillai", "Dev Malhotra", "Riya Kapoor", "Arnav Mishra", "Pooja Shetty",
	}
)

const demoPassword = "markbook123"

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	classRepo := repository.NewClassRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	classService := service.NewClassService(classRepo)
	studentService := service.NewStudentService(studentRepo, classRepo)
	subjectService := service.NewSubjectService(repository.NewSubjectRepository(pool), classRepo, log)
	examService := service.NewExamService(repository.NewExamRepository(pool), classRepo, log)
	userService := service.NewUserService(repository.NewUserRepository(pool), studentRepo, service.NewAuthService(cfg, nil), log)

	fmt.Println("=== Seeding demo data ===")

	class := demoClass
	if err := classService.Create(ctx, &class); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fmt.Printf("Class %s-%s already exists, nothing to do.\n", demoClass.Name, demoClass.Section)
			return
		}
		log.Fatal().Err(err).Msg("Failed to create class")
	}
	fmt.Printf("Created class %s-%s (ID %d)\n", class.Name, class.Section, class.ID)

	for _, s := range demoSubjects {
		sub := s
		sub.ClassID = class.ID
		if err := subjectService.Create(ctx, &sub); err != nil {
			log.Fatal().Err(err).Str("subject", sub.Name).Msg("Failed to create subject")
		}
	}
	fmt.Printf("Created %d subjects\n", len(demoSubjects))

	var first *model.Student
	for i, name := range demoStudents {
		st := &model.Student{
			RollNumber: fmt.Sprintf("%02d", i+1),
			Name:       name,
			ClassID:    class.ID,
		}
		if err := studentService.Create(ctx, st); err != nil {
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		if first == nil {
			first = st
		}
	}
	fmt.Printf("Created %d students\n", len(demoStudents))

	examDate := time.Now().Truncate(24 * time.Hour)
	exam := &model.Exam{Name: "Half-Yearly Examination", ClassID: class.ID, ExamDate: &examDate}
	if err := examService.Create(ctx, exam); err != nil {
		log.Fatal().Err(err).Msg("Failed to create exam")
	}
	fmt.Printf("Created exam %q (ID %s)\n", exam.Name, exam.ID)

	accounts := []*model.CreateUserRequest{
		{Name: "Demo Teacher", Email: "teacher@markbook.local", Password: demoPassword, Role: model.RoleTeacher},
	}
	if first != nil {
		accounts = append(accounts, &model.CreateUserRequest{
			Name: first.Name, Email: "student01@markbook.local", Password: demoPassword,
			Role: model.RoleStudent, StudentID: &first.ID,
		})
	}
	for _, req := range accounts {
		if _, err := userService.Create(ctx, req); err != nil {
			fmt.Printf("Skipping account %s: %v\n", req.Email, err)
			continue
		}
		fmt.Printf("Created %s account %s (password %q)\n", req.Role, req.Email, demoPassword)
	}

	fmt.Println("\nSeed completed!")
}
