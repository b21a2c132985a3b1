package server

import (
	"context"
	"database/sql"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-usermgmt"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Server assembles the user management REST API.
type Server struct {
	config Config
	logger usermgmt.Logger
	db     *bun.DB
	app    *fiber.App
	repo   Users
	tokens TokenService
}

type Option func(*Server) *Server

func WithLogger(logger usermgmt.Logger) Option {
	return func(s *Server) *Server {
		if logger != nil {
			s.logger = logger
		}
		return s
	}
}

// New opens the database, provisions the schema, seeds the configured admin
// account, and registers the routes.
func New(ctx context.Context, cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		config: cfg,
		logger: usermgmt.DefaultLogger(),
	}

	for _, opt := range opts {
		s = opt(s)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.DSN)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to open database")
	}

	s.db = bun.NewDB(sqldb, sqlitedialect.New())
	s.repo = NewUsersRepository(s.db)
	s.tokens = NewTokenService(
		[]byte(cfg.Auth.SigningKey),
		cfg.Auth.TokenExpiration,
		cfg.Auth.Issuer,
		s.logger,
	)

	if err := s.provision(ctx); err != nil {
		return nil, err
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "go-usermgmt",
		DisableStartupMessage: true,
	})
	s.registerRoutes()

	return s, nil
}

// App exposes the fiber application (tests drive it via app.Test).
func (s *Server) App() *fiber.App {
	return s.app
}

// DB exposes the bun handle.
func (s *Server) DB() *bun.DB {
	return s.db
}

// Repo exposes the users repository.
func (s *Server) Repo() Users {
	return s.repo
}

// Listen serves the API until Shutdown.
func (s *Server) Listen() error {
	s.logger.Info("user management api listening", "addr", s.config.Server.Addr)
	return s.app.Listen(s.config.Server.Addr)
}

// Shutdown drains in-flight requests and closes the database.
func (s *Server) Shutdown() error {
	if err := s.app.Shutdown(); err != nil {
		return err
	}
	return s.db.Close()
}

func (s *Server) registerRoutes() {
	controller := NewController(s.repo, s.tokens, s.logger)

	api := s.app.Group("/api")

	api.Post("/auth/signup", controller.Signup)
	api.Post("/auth/login", controller.Login)

	users := api.Group("/users", Protected(s.tokens))
	users.Get("/", controller.ListUsers)
	users.Get("/me", controller.CurrentUser)
	users.Get("/:id", controller.GetUser)
	users.Put("/:id", controller.UpdateUser)
	users.Delete("/:id", controller.DeleteUser)
}

func (s *Server) provision(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to provision users table")
	}

	return s.seedAdmin(ctx)
}

// seedAdmin bootstraps the first administrator account when configured and
// absent. Registration through the API always creates USER accounts, so this
// is the only path that mints an ADMIN.
func (s *Server) seedAdmin(ctx context.Context) error {
	seed := s.config.Seed
	if seed.AdminUsername == "" || seed.AdminEmail == "" || seed.AdminPassword == "" {
		return nil
	}

	exists, err := s.repo.ExistsByUsername(ctx, seed.AdminUsername)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := HashPassword(seed.AdminPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash seed admin password")
	}

	record := &User{
		Username:     seed.AdminUsername,
		Email:        seed.AdminEmail,
		Role:         usermgmt.RoleAdmin,
		PasswordHash: hash,
	}
	if id, err := hashid.NewUUID(seed.AdminEmail); err == nil {
		record.ID = id
	} else {
		record.ID = uuid.New()
	}

	if _, err := s.repo.Create(ctx, record); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed admin account")
	}

	s.logger.Info("seeded admin account", "username", seed.AdminUsername)
	return nil
}
