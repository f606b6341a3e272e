package database

import (
	"fmt"
	"log"
)

// Seed populates an empty database with demo data so the board is usable
// right after first boot. hashedPassword is the shared demo password hash,
// already run through the credential service. Does nothing when any user
// exists.
func (s *DataService) Seed(hashedPassword string) error {
	count, err := s.CountUsers()
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Database already seeded")
		return nil
	}

	log.Println("Seeding database...")

	demo, err := s.CreateUser("demo@example.com", hashedPassword, "Demo User")
	if err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}
	john, err := s.CreateUser("john@example.com", hashedPassword, "John Doe")
	if err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	board, err := s.CreateBoard("Team Project Board", demo.ID)
	if err != nil {
		return fmt.Errorf("failed to seed board: %w", err)
	}

	todo, err := s.CreateColumn(board.ID, "To Do", 0)
	if err != nil {
		return fmt.Errorf("failed to seed column: %w", err)
	}
	inProgress, err := s.CreateColumn(board.ID, "In Progress", 1)
	if err != nil {
		return fmt.Errorf("failed to seed column: %w", err)
	}
	done, err := s.CreateColumn(board.ID, "Done", 2)
	if err != nil {
		return fmt.Errorf("failed to seed column: %w", err)
	}

	mockups := "Create mockups for the new landing page design"
	ci := "Configure automated testing for every push"
	auth := "Add token-based authentication to the API"
	setup := "Initialize the project and its dependencies"

	design, err := s.CreateTask(todo.ID, "Design new landing page", &mockups, PriorityHigh, demo.ID)
	if err != nil {
		return fmt.Errorf("failed to seed task: %w", err)
	}
	if _, err := s.CreateTask(todo.ID, "Setup CI/CD pipeline", &ci, PriorityMedium, john.ID); err != nil {
		return fmt.Errorf("failed to seed task: %w", err)
	}
	if _, err := s.CreateTask(inProgress.ID, "Implement authentication", &auth, PriorityHigh, demo.ID); err != nil {
		return fmt.Errorf("failed to seed task: %w", err)
	}
	if _, err := s.CreateTask(done.ID, "Project setup", &setup, PriorityMedium, john.ID); err != nil {
		return fmt.Errorf("failed to seed task: %w", err)
	}

	if _, err := s.CreateComment(design.ID, demo.ID, "Let's use Figma for this"); err != nil {
		return fmt.Errorf("failed to seed comment: %w", err)
	}
	if _, err := s.CreateComment(design.ID, john.ID, "Sounds good! I'll review it once ready"); err != nil {
		return fmt.Errorf("failed to seed comment: %w", err)
	}

	log.Println("Database seeded successfully")
	log.Println("Demo login: demo@example.com / password123")
	return nil
}
