package server

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the persistence contract for user records.
type Users interface {
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	Update(ctx context.Context, record *User, criteria ...repository.UpdateCriteria) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)

	List(ctx context.Context) ([]*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository builds the users repository over bun.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{Repository: repo, db: db}
}

func (r *users) List(ctx context.Context) ([]*User, error) {
	var records []*User
	if err := r.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list users")
	}
	return records, nil
}

func (r *users) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().
		Model(record).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound()
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to fetch user")
	}
	return record, nil
}

func (r *users) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *users) exists(ctx context.Context, column, value string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*User)(nil)).
		Where("? = ?", bun.Ident(column), value).
		Exists(ctx)
	if err != nil && err != sql.ErrNoRows {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check user existence")
	}
	return exists, nil
}

func (r *users) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound()
	}
	return nil
}
