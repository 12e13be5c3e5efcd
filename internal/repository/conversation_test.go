package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/symptom-triage-server/internal/database"
	"github.com/symptom-triage-server/internal/domain"
)

// generateTestPassword creates a secure random password for test databases
func generateTestPassword() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a default test password if random generation fails
		return "test_fallback_password_123"
	}
	return "test_" + hex.EncodeToString(bytes)
}

func setupTestDB(t *testing.T) (*database.DB, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	// Generate secure random password for test database
	testPassword := generateTestPassword()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	// Get connection details
	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create database connection
	config := database.Config{
		Host:        host,
		Port:        port.Int(),
		Database:    "testdb",
		Username:    "testuser",
		Password:    testPassword,
		MaxConns:    10,
		MinConns:    2,
		MaxConnLife: time.Hour,
		MaxConnIdle: time.Minute * 30,
		SSLMode:     "disable",
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	db, err := database.NewConnection(ctx, config, logger)
	if err != nil {
		t.Fatalf("Failed to create database connection: %v", err)
	}

	// Run migrations
	migrationRunner, err := database.NewMigrationRunner(config.URL(), logger)
	if err != nil {
		t.Fatalf("Failed to create migration runner: %v", err)
	}

	if err := migrationRunner.Up(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		migrationRunner.Close()
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	}

	return db, cleanup
}

func newTestRepo(db *database.DB) *ConversationRepository {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return NewConversationRepository(db.Pool, logger)
}

func TestConversationRepository_Create(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)

	conversation := &domain.Conversation{
		ID:      uuid.New(),
		CheckID: "chk-create-1",
	}

	ctx := context.Background()
	if err := repo.Create(ctx, conversation); err != nil {
		t.Fatalf("Failed to create conversation: %v", err)
	}

	if conversation.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set from the database")
	}

	// Verify the conversation can be looked up both ways
	byID, err := repo.GetByID(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("Failed to get conversation by ID: %v", err)
	}
	if byID.CheckID != "chk-create-1" {
		t.Errorf("Expected check ID chk-create-1, got %s", byID.CheckID)
	}

	byCheck, err := repo.GetByCheckID(ctx, "chk-create-1")
	if err != nil {
		t.Fatalf("Failed to get conversation by check ID: %v", err)
	}
	if byCheck.ID != conversation.ID {
		t.Errorf("Expected ID %s, got %s", conversation.ID, byCheck.ID)
	}
}

func TestConversationRepository_GetByID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("Expected error for missing conversation, got nil")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestConversationRepository_Messages(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)
	ctx := context.Background()

	conversation := &domain.Conversation{
		ID:      uuid.New(),
		CheckID: "chk-messages-1",
	}
	if err := repo.Create(ctx, conversation); err != nil {
		t.Fatalf("Failed to create conversation: %v", err)
	}

	turns := []struct {
		role    string
		content string
	}{
		{domain.RoleUser, "Should I be worried about my cough?"},
		{domain.RoleAssistant, "A mild cough lasting a few days is usually not a concern."},
		{domain.RoleUser, "What if it gets worse?"},
	}

	for _, turn := range turns {
		message := &domain.ConversationMessage{
			ConversationID: conversation.ID,
			Role:           turn.role,
			Content:        turn.content,
		}
		if err := repo.AppendMessage(ctx, message); err != nil {
			t.Fatalf("Failed to append message: %v", err)
		}
		if message.ID == 0 {
			t.Error("Expected message ID to be assigned")
		}
	}

	messages, err := repo.GetMessages(ctx, conversation.ID, 50)
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}

	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}

	// Messages come back in chronological order
	for i, turn := range turns {
		if messages[i].Role != turn.role {
			t.Errorf("Message %d: expected role %s, got %s", i, turn.role, messages[i].Role)
		}
		if messages[i].Content != turn.content {
			t.Errorf("Message %d: unexpected content %q", i, messages[i].Content)
		}
	}
}

func TestConversationRepository_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)
	ctx := context.Background()

	conversation := &domain.Conversation{
		ID:      uuid.New(),
		CheckID: "chk-delete-1",
	}
	if err := repo.Create(ctx, conversation); err != nil {
		t.Fatalf("Failed to create conversation: %v", err)
	}

	message := &domain.ConversationMessage{
		ConversationID: conversation.ID,
		Role:           domain.RoleUser,
		Content:        "hello",
	}
	if err := repo.AppendMessage(ctx, message); err != nil {
		t.Fatalf("Failed to append message: %v", err)
	}

	if err := repo.Delete(ctx, conversation.ID); err != nil {
		t.Fatalf("Failed to delete conversation: %v", err)
	}

	if _, err := repo.GetByID(ctx, conversation.ID); err == nil {
		t.Error("Expected error when getting deleted conversation, got nil")
	}

	// Messages cascade with the conversation
	messages, err := repo.GetMessages(ctx, conversation.ID, 10)
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("Expected no messages after delete, got %d", len(messages))
	}
}

func TestConversationRepository_Delete_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := newTestRepo(db)

	err := repo.Delete(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("Expected error for missing conversation, got nil")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
