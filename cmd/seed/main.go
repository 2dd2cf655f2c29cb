package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"studynotes/internal/config"
	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	notesSvc "studynotes/internal/domain/services/notes"
	"studynotes/internal/repository/postgres"
	postgresNotes "studynotes/internal/repository/postgres/notes"
	serviceNotes "studynotes/internal/service/notes"
)

// fixture is the YAML seed file layout: users first, then the folder
// permissions and notes that reference them by email.
type fixture struct {
	Users []struct {
		Email       string   `yaml:"email"`
		Name        string   `yaml:"name"`
		Role        string   `yaml:"role"`
		Departments []string `yaml:"departments"`
	} `yaml:"users"`

	Permissions []struct {
		User       string `yaml:"user"`
		GrantedBy  string `yaml:"granted_by"`
		FolderPath string `yaml:"folder_path"`
		CanRead    bool   `yaml:"can_read"`
		CanWrite   bool   `yaml:"can_write"`
		CanDelete  bool   `yaml:"can_delete"`
		CanManage  bool   `yaml:"can_manage"`
		ExpiresIn  string `yaml:"expires_in"`
	} `yaml:"permissions"`

	Notes []struct {
		Uploader string `yaml:"uploader"`
		Title    string `yaml:"title"`
		Folder   struct {
			Department string `yaml:"department"`
			Year       string `yaml:"year"`
			Section    string `yaml:"section"`
			Subject    string `yaml:"subject"`
		} `yaml:"folder"`
		Content string `yaml:"content"`
		Publish bool   `yaml:"publish"`
	} `yaml:"notes"`
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't load fixtures")
	fixturePath := flag.String("fixture", "cmd/seed/fixtures.yaml", "Path to the YAML fixture file")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("Refusing to drop tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if _, err := pool.Exec(ctx, postgres.Schema(cfg.TablePrefix)); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	raw, err := os.ReadFile(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to read fixture file: %v", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		log.Fatalf("Failed to parse fixture file: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	noteRepo := postgresNotes.NewNoteRepository(repoConfig)
	versionRepo := postgresNotes.NewVersionRepository(repoConfig)
	permRepo := postgresNotes.NewPermissionRepository(repoConfig)
	auditRepo := postgresNotes.NewAuditRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	auditTrail := serviceNotes.NewAuditTrail(auditRepo, logger)
	resolver := serviceNotes.NewPermissionResolver(permRepo, auditTrail, logger)
	versions := serviceNotes.NewVersionStore(versionRepo, logger)
	lifecycle := serviceNotes.NewDocumentLifecycle(noteRepo, versions, resolver, auditTrail, txManager, logger)

	// Users first; permissions and notes reference them by email.
	byEmail := make(map[string]*models.User)
	for _, u := range fx.Users {
		user := &models.User{
			PublicID:    uuid.NewString(),
			Email:       u.Email,
			Name:        u.Name,
			Role:        models.Role(u.Role),
			Departments: u.Departments,
			Enabled:     true,
			CreatedAt:   time.Now().UTC(),
		}
		if existing, err := userRepo.GetByEmail(ctx, u.Email); err == nil {
			byEmail[u.Email] = existing
			log.Printf("User %s already exists, skipping", u.Email)
			continue
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
		byEmail[u.Email] = user
		log.Printf("Created user %s (%s)", u.Email, u.Role)
	}

	for _, p := range fx.Permissions {
		user, grantor, err := lookupPair(byEmail, p.User, p.GrantedBy)
		if err != nil {
			log.Fatalf("Permission fixture: %v", err)
		}

		permission := &notesModels.FolderPermission{
			UserID:      user.ID,
			FolderPath:  p.FolderPath,
			CanRead:     p.CanRead,
			CanWrite:    p.CanWrite,
			CanDelete:   p.CanDelete,
			CanManage:   p.CanManage,
			Active:      true,
			GrantedByID: grantor.ID,
			GrantedAt:   time.Now().UTC(),
		}
		if p.ExpiresIn != "" {
			d, err := time.ParseDuration(p.ExpiresIn)
			if err != nil {
				log.Fatalf("Permission fixture: bad expires_in %q: %v", p.ExpiresIn, err)
			}
			expires := time.Now().UTC().Add(d)
			permission.ExpiresAt = &expires
		}
		if err := permRepo.Upsert(ctx, permission); err != nil {
			log.Fatalf("Failed to grant permission on %s: %v", p.FolderPath, err)
		}
		log.Printf("Granted %s on %s", p.User, p.FolderPath)
	}

	// Notes flow through the lifecycle service so each gets version 1 and
	// an audit fact, same as a live request.
	for i, n := range fx.Notes {
		uploader, ok := byEmail[n.Uploader]
		if !ok {
			log.Fatalf("Note fixture %d references unknown uploader %s", i, n.Uploader)
		}

		note, err := lifecycle.Create(ctx, uploader, &notesSvc.CreateNoteRequest{
			Title: n.Title,
			Folder: notesModels.Folder{
				Department: n.Folder.Department,
				Year:       n.Folder.Year,
				Section:    n.Folder.Section,
				Subject:    n.Folder.Subject,
			},
			Content:            n.Content,
			PublishImmediately: n.Publish,
			ChangeSummary:      "initial import",
		})
		if err != nil {
			log.Printf("Failed to create note %q: %v", n.Title, err)
			continue
		}
		log.Printf("Created note %d/%d: %s (%s, %s)", i+1, len(fx.Notes), n.Title, note.PublicID, note.Status)
	}

	log.Println("Seeding complete")
}

func lookupPair(byEmail map[string]*models.User, userEmail, grantorEmail string) (*models.User, *models.User, error) {
	user, ok := byEmail[userEmail]
	if !ok {
		return nil, nil, fmt.Errorf("unknown user %s", userEmail)
	}
	grantor, ok := byEmail[grantorEmail]
	if !ok {
		return nil, nil, fmt.Errorf("unknown grantor %s", grantorEmail)
	}
	return user, grantor, nil
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{
		tables.AuditLogs,
		tables.DeletionRequests,
		tables.FolderPermissions,
		tables.NoteVersions,
		tables.Notes,
		tables.Users,
	} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
