// AngelaMos | 2026
// entity.go

package usuario

import (
	"time"
)

// Usuario is the single persisted entity. Senha always holds the digest,
// never the plaintext.
type Usuario struct {
	UserID    int64     `db:"user_id"`
	Login     string    `db:"login"`
	Senha     string    `db:"senha"`
	Email     string    `db:"email"`
	Nivel     int       `db:"nivel"`
	Ativado   string    `db:"ativado"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	AtivadoSim = "S"
	AtivadoNao = "N"
)

func (u *Usuario) IsAtivado() bool {
	return u.Ativado == AtivadoSim
}
