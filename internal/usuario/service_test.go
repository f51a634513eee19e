// AngelaMos | 2026
// service_test.go

package usuario

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/usuario-api/internal/core"
)

// fakeRepo mirrors the storage contract in memory, unique constraints
// included.
type fakeRepo struct {
	usuarios map[int64]*Usuario
	nextID   int64
	failNext error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{usuarios: make(map[int64]*Usuario), nextID: 1}
}

func (f *fakeRepo) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeRepo) Create(ctx context.Context, u *Usuario) error {
	if err := f.takeErr(); err != nil {
		return err
	}

	for _, existing := range f.usuarios {
		if existing.Login == u.Login {
			return fmt.Errorf("create usuario: %w", ErrLoginTaken)
		}
		if existing.Email == u.Email {
			return fmt.Errorf("create usuario: %w", ErrEmailTaken)
		}
	}

	u.UserID = f.nextID
	f.nextID++

	stored := *u
	f.usuarios[u.UserID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*Usuario, error) {
	if u, ok := f.usuarios[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, fmt.Errorf("get usuario: %w", core.ErrNotFound)
}

func (f *fakeRepo) GetByLogin(
	ctx context.Context,
	login string,
) (*Usuario, error) {
	for _, u := range f.usuarios {
		if u.Login == login {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get usuario by login: %w", core.ErrNotFound)
}

func (f *fakeRepo) GetByEmail(
	ctx context.Context,
	email string,
) (*Usuario, error) {
	for _, u := range f.usuarios {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get usuario by email: %w", core.ErrNotFound)
}

func (f *fakeRepo) List(ctx context.Context) ([]Usuario, error) {
	if err := f.takeErr(); err != nil {
		return nil, err
	}

	out := make([]Usuario, 0, len(f.usuarios))
	for id := int64(1); id < f.nextID; id++ {
		if u, ok := f.usuarios[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, u *Usuario) error {
	if err := f.takeErr(); err != nil {
		return err
	}

	if _, ok := f.usuarios[u.UserID]; !ok {
		return fmt.Errorf("update usuario: %w", core.ErrNotFound)
	}

	stored := *u
	f.usuarios[u.UserID] = &stored
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.usuarios[id]; !ok {
		return fmt.Errorf("delete usuario: %w", core.ErrNotFound)
	}
	delete(f.usuarios, id)
	return nil
}

type stubIssuer struct {
	err error
}

func (s *stubIssuer) CreateAccessToken(userID int64, nivel int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("token-%d-%d", userID, nivel), nil
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func registerReq(login, senha, email string, nivel int) RegisterRequest {
	return RegisterRequest{
		Login: login,
		Senha: senha,
		Nivel: intPtr(nivel),
		Email: email,
	}
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	u, token, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	assert.Equal(t, int64(1), u.UserID)
	assert.Equal(t, "token-1-1", token)
	assert.Equal(t, AtivadoSim, u.Ativado)
	assert.NotEqual(t, "pw1", u.Senha, "stored senha must be a digest")
	assert.Equal(t, core.HashSenha("pw1"), u.Senha)

	byLogin, err := repo.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, byLogin.UserID)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, byEmail.UserID)
}

func TestService_Register_LoginTaken(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	// same login, different email
	_, _, err = svc.Register(ctx, registerReq("alice", "pw2", "b@x.com", 2))
	assert.ErrorIs(t, err, ErrLoginTaken)
}

func TestService_Register_EmailTaken(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	// different login, same email
	_, _, err = svc.Register(ctx, registerReq("bob", "pw2", "a@x.com", 2))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Register_EmailRequired(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})

	_, _, err := svc.Register(
		context.Background(),
		registerReq("alice", "pw1", "   ", 1),
	)
	assert.ErrorIs(t, err, ErrEmailRequired)
	assert.Empty(t, repo.usuarios)
}

func TestService_Register_CompensatingDeleteOnTokenFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{err: errors.New("signing key gone")})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.Error(t, err)

	_, err = repo.GetByLogin(ctx, "alice")
	assert.ErrorIs(t, err, core.ErrNotFound,
		"row must be removed when token issuance fails after insert")
}

func TestService_Update_PartialFields(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	created, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.UserID, UpdateRequest{
		Nivel: intPtr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Nivel)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, core.HashSenha("pw1"), updated.Senha)
	assert.Equal(t, AtivadoSim, updated.Ativado)
}

func TestService_Update_SenhaRehashedAtivadoUppercased(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	created, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.UserID, UpdateRequest{
		Senha:   strPtr("pw2"),
		Ativado: strPtr("n"),
	})
	require.NoError(t, err)

	assert.Equal(t, core.HashSenha("pw2"), updated.Senha)
	assert.Equal(t, AtivadoNao, updated.Ativado)
}

func TestService_Update_EmptyStringsIgnored(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	created, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.UserID, UpdateRequest{
		Email: strPtr(""),
		Senha: strPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, core.HashSenha("pw1"), updated.Senha)
}

func TestService_Update_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), &stubIssuer{})

	_, err := svc.Update(context.Background(), 42, UpdateRequest{
		Nivel: intPtr(3),
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_Delete_TwiceYieldsNotFound(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	created, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.UserID))
	assert.ErrorIs(t, svc.Delete(ctx, created.UserID), core.ErrNotFound)
}

func TestService_VerifySenha(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	created, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	u, err := svc.VerifySenha(ctx, VerifyRequest{Login: "alice", Senha: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, created.UserID, u.UserID)
	assert.Equal(t, 1, u.Nivel)
	assert.Equal(t, AtivadoSim, u.Ativado)
}

func TestService_VerifySenha_WrongSenhaAndUnknownLoginCollapse(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	_, wrongSenha := svc.VerifySenha(ctx, VerifyRequest{
		Login: "alice",
		Senha: "nope",
	})
	assert.ErrorIs(t, wrongSenha, ErrInvalidCredentials)

	_, unknownLogin := svc.VerifySenha(ctx, VerifyRequest{
		Login: "mallory",
		Senha: "pw1",
	})
	assert.ErrorIs(t, unknownLogin, ErrInvalidCredentials)
}

func TestService_VerifySenha_NotConfirmed(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &stubIssuer{})
	ctx := context.Background()

	created, _, err := svc.Register(ctx, registerReq("alice", "pw1", "a@x.com", 1))
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.UserID, UpdateRequest{
		Ativado: strPtr(AtivadoNao),
	})
	require.NoError(t, err)

	_, err = svc.VerifySenha(ctx, VerifyRequest{Login: "alice", Senha: "pw1"})
	assert.ErrorIs(t, err, ErrNotConfirmed)
}
