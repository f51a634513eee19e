// AngelaMos | 2026
// repository.go

package usuario

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/angelamos/usuario-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, u *Usuario) error
	GetByID(ctx context.Context, id int64) (*Usuario, error)
	GetByLogin(ctx context.Context, login string) (*Usuario, error)
	GetByEmail(ctx context.Context, email string) (*Usuario, error)
	List(ctx context.Context) ([]Usuario, error)
	Update(ctx context.Context, u *Usuario) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *Usuario) error {
	query := `
		INSERT INTO usuarios (login, senha, email, nivel, ativado)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, created_at, updated_at`

	err := r.db.GetContext(ctx, u, query,
		u.Login,
		u.Senha,
		u.Email,
		u.Nivel,
		u.Ativado,
	)
	if err != nil {
		if mapped := mapDuplicateKey(err); mapped != nil {
			return fmt.Errorf("create usuario: %w", mapped)
		}
		return fmt.Errorf("create usuario: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Usuario, error) {
	query := `
		SELECT user_id, login, senha, email, nivel, ativado,
		       created_at, updated_at
		FROM usuarios
		WHERE user_id = $1`

	var u Usuario
	err := r.db.GetContext(ctx, &u, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get usuario: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get usuario: %w", err)
	}

	return &u, nil
}

func (r *repository) GetByLogin(
	ctx context.Context,
	login string,
) (*Usuario, error) {
	query := `
		SELECT user_id, login, senha, email, nivel, ativado,
		       created_at, updated_at
		FROM usuarios
		WHERE login = $1`

	var u Usuario
	err := r.db.GetContext(ctx, &u, query, login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get usuario by login: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get usuario by login: %w", err)
	}

	return &u, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Usuario, error) {
	query := `
		SELECT user_id, login, senha, email, nivel, ativado,
		       created_at, updated_at
		FROM usuarios
		WHERE email = $1`

	var u Usuario
	err := r.db.GetContext(ctx, &u, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get usuario by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get usuario by email: %w", err)
	}

	return &u, nil
}

func (r *repository) List(ctx context.Context) ([]Usuario, error) {
	query := `
		SELECT user_id, login, senha, email, nivel, ativado,
		       created_at, updated_at
		FROM usuarios
		ORDER BY user_id`

	var usuarios []Usuario
	if err := r.db.SelectContext(ctx, &usuarios, query); err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}

	return usuarios, nil
}

func (r *repository) Update(ctx context.Context, u *Usuario) error {
	query := `
		UPDATE usuarios
		SET email = $2, senha = $3, nivel = $4, ativado = $5,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &u.UpdatedAt, query,
		u.UserID,
		u.Email,
		u.Senha,
		u.Nivel,
		u.Ativado,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update usuario: %w", core.ErrNotFound)
	}
	if err != nil {
		if mapped := mapDuplicateKey(err); mapped != nil {
			return fmt.Errorf("update usuario: %w", mapped)
		}
		return fmt.Errorf("update usuario: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM usuarios WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete usuario: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete usuario: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete usuario: %w", core.ErrNotFound)
	}

	return nil
}

// mapDuplicateKey turns a unique-constraint violation into the matching
// uniqueness error, closing the check-then-insert race at the storage layer.
func mapDuplicateKey(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "login"):
		return ErrLoginTaken
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrEmailTaken
	default:
		return core.ErrDuplicateKey
	}
}
