// AngelaMos | 2026
// service.go

package usuario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/angelamos/usuario-api/internal/core"
)

var (
	ErrEmailRequired      = errors.New("email required")
	ErrLoginTaken         = errors.New("login already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfirmed       = errors.New("usuario not confirmed")
)

// TokenIssuer mints the bearer token handed out on registration.
// auth.JWTManager satisfies it.
type TokenIssuer interface {
	CreateAccessToken(userID int64, nivel int) (string, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register validates the candidate, stores the senha digest and mints the
// access token. Insert and token issuance are not one transaction: if
// minting fails after the row landed, the row is deleted again before the
// error is reported.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*Usuario, string, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, "", fmt.Errorf("register: %w", ErrEmailRequired)
	}

	if _, err := s.repo.GetByLogin(ctx, req.Login); err == nil {
		return nil, "", fmt.Errorf("register: %w", ErrLoginTaken)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, "", fmt.Errorf("register: %w", ErrEmailTaken)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	u := &Usuario{
		Login:   req.Login,
		Senha:   core.HashSenha(req.Senha),
		Email:   req.Email,
		Nivel:   *req.Nivel,
		Ativado: AtivadoSim,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.CreateAccessToken(u.UserID, u.Nivel)
	if err != nil {
		if delErr := s.repo.Delete(ctx, u.UserID); delErr != nil {
			slog.Error("compensating delete failed",
				"user_id", u.UserID,
				"error", delErr,
			)
		}
		return nil, "", fmt.Errorf("issue access token: %w", err)
	}

	return u, token, nil
}

// Update overwrites only the fields present and non-empty in the request.
// A new senha is digested before storage; ativado is normalized to
// uppercase.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateRequest,
) (*Usuario, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != "" {
		u.Email = *req.Email
	}

	if req.Senha != nil && *req.Senha != "" {
		u.Senha = core.HashSenha(*req.Senha)
	}

	if req.Nivel != nil {
		u.Nivel = *req.Nivel
	}

	if req.Ativado != nil && *req.Ativado != "" {
		u.Ativado = strings.ToUpper(*req.Ativado)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Usuario, error) {
	return s.repo.List(ctx)
}

// VerifySenha checks a login/senha pair. Unknown login and wrong senha
// collapse into the same error so callers cannot tell which part failed;
// a correct pair on an unconfirmed account fails distinctly.
func (s *Service) VerifySenha(
	ctx context.Context,
	req VerifyRequest,
) (*Usuario, error) {
	u, err := s.repo.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// burn a digest anyway so the miss costs the same
			_ = core.HashSenha(req.Senha)
			return nil, fmt.Errorf("verify senha: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("verify senha: %w", err)
	}

	if !core.VerifySenha(req.Senha, u.Senha) {
		return nil, fmt.Errorf("verify senha: %w", ErrInvalidCredentials)
	}

	if !u.IsAtivado() {
		return nil, fmt.Errorf("verify senha: %w", ErrNotConfirmed)
	}

	return u, nil
}
