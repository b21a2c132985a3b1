package server

import (
	"database/sql"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-usermgmt"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Controller holds the REST handlers for the user management API.
type Controller struct {
	Logger usermgmt.Logger
	Repo   Users
	Tokens TokenService
}

// NewController wires the handlers to their collaborators.
func NewController(repo Users, tokens TokenService, logger usermgmt.Logger) *Controller {
	if logger == nil {
		logger = usermgmt.DefaultLogger()
	}
	return &Controller{
		Logger: logger,
		Repo:   repo,
		Tokens: tokens,
	}
}

// SignupRequest is the registration payload. Confirmation matching is a
// client concern; the server enforces the field level rules.
type SignupRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.PhoneNumber, validation.By(usermgmt.ValidatePhoneNumber)),
		validation.Field(&r.DateOfBirth, validation.Date("2006-01-02")),
	)
}

// Signup registers a new user. Registration does not establish a session;
// the user logs in explicitly afterwards.
func (a *Controller) Signup(c *fiber.Ctx) error {
	payload := new(SignupRequest)
	if err := c.BodyParser(payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.Context()

	if taken, err := a.Repo.ExistsByUsername(ctx, payload.Username); err != nil {
		return a.internalError(c, err)
	} else if taken {
		return errorJSON(c, fiber.StatusBadRequest, "Username already exists")
	}

	if taken, err := a.Repo.ExistsByEmail(ctx, payload.Email); err != nil {
		return a.internalError(c, err)
	} else if taken {
		return errorJSON(c, fiber.StatusBadRequest, "Email already exists")
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return a.internalError(c, err)
	}

	record := &User{
		Username:     payload.Username,
		Email:        payload.Email,
		Role:         usermgmt.RoleUser,
		PhoneNumber:  payload.PhoneNumber,
		DateOfBirth:  payload.DateOfBirth,
		PasswordHash: hash,
	}
	if id, err := hashid.NewUUID(payload.Email); err == nil {
		record.ID = id
	} else {
		record.ID = uuid.New()
	}

	record, err = a.Repo.Create(ctx, record)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "could not create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    record.ToAPI(),
	})
}

// LoginRequest payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// Login authenticates credentials and mints a bearer token.
func (a *Controller) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := a.Repo.GetByIdentifier(c.Context(), payload.Username)
	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid username or password")
		}
		return a.internalError(c, err)
	}

	if err := ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		a.Logger.Info("login rejected", "username", payload.Username)
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid username or password")
	}

	token, err := a.Tokens.Generate(user)
	if err != nil {
		return a.internalError(c, err)
	}

	return c.JSON(usermgmt.LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// ListUsers returns every user record.
func (a *Controller) ListUsers(c *fiber.Ctx) error {
	records, err := a.Repo.List(c.Context())
	if err != nil {
		return a.internalError(c, err)
	}

	users := make([]usermgmt.User, 0, len(records))
	for _, record := range records {
		users = append(users, record.ToAPI())
	}
	return c.JSON(users)
}

// CurrentUser returns the record behind the validated credential.
func (a *Controller) CurrentUser(c *fiber.Ctx) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "missing or malformed JWT")
	}

	id, err := uuid.Parse(claims.UID)
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	}

	user, err := a.Repo.FindByID(c.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		return a.internalError(c, err)
	}

	return c.JSON(user.ToAPI())
}

// GetUser returns a single user record by id.
func (a *Controller) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := a.Repo.FindByID(c.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		return a.internalError(c, err)
	}

	return c.JSON(user.ToAPI())
}

// UpdateRequest carries profile edits. Password is optional and only
// re-hashed when provided.
type UpdateRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"`
	Password    string `json:"password"`
}

// Validate will run validation rules
func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.PhoneNumber, validation.By(usermgmt.ValidatePhoneNumber)),
		validation.Field(&r.DateOfBirth, validation.Date("2006-01-02")),
		validation.Field(&r.Password, validation.Length(6, 100)),
	)
}

// UpdateUser edits a user record. Admins may edit anyone; everyone else only
// their own profile.
func (a *Controller) UpdateUser(c *fiber.Ctx) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "missing or malformed JWT")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid user id")
	}

	if claims.UserRole != usermgmt.RoleAdmin && claims.UID != id.String() {
		return errorJSON(c, fiber.StatusForbidden, "You can only update your own profile")
	}

	payload := new(UpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.Context()

	record, err := a.Repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		return a.internalError(c, err)
	}

	if payload.Username != record.Username {
		if taken, err := a.Repo.ExistsByUsername(ctx, payload.Username); err != nil {
			return a.internalError(c, err)
		} else if taken {
			return errorJSON(c, fiber.StatusBadRequest, "Username already exists")
		}
	}

	if payload.Email != record.Email {
		if taken, err := a.Repo.ExistsByEmail(ctx, payload.Email); err != nil {
			return a.internalError(c, err)
		} else if taken {
			return errorJSON(c, fiber.StatusBadRequest, "Email already exists")
		}
	}

	record.Username = payload.Username
	record.Email = payload.Email
	record.PhoneNumber = payload.PhoneNumber
	record.DateOfBirth = payload.DateOfBirth

	if payload.Password != "" {
		hash, err := HashPassword(payload.Password)
		if err != nil {
			return a.internalError(c, err)
		}
		record.PasswordHash = hash
	}

	record, err = a.Repo.Update(ctx, record)
	if err != nil {
		return a.internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    record.ToAPI(),
	})
}

// DeleteUser removes a user record. Only admins may delete, and never their
// own account.
func (a *Controller) DeleteUser(c *fiber.Ctx) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "missing or malformed JWT")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid user id")
	}

	if claims.UserRole != usermgmt.RoleAdmin {
		return errorJSON(c, fiber.StatusForbidden, "Only admins can delete accounts")
	}

	if claims.UID == id.String() {
		return errorJSON(c, fiber.StatusForbidden, "Admin cannot delete their own account")
	}

	if err := a.Repo.DeleteByID(c.Context(), id); err != nil {
		if repository.IsRecordNotFound(err) {
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		return a.internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

func (a *Controller) internalError(c *fiber.Ctx, err error) error {
	a.Logger.Error("internal server error", "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, "internal server error")
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
