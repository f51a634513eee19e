// AngelaMos | 2026
// dto.go

package usuario

type RegisterRequest struct {
	Login string `json:"login" validate:"required,min=1,max=40"`
	Senha string `json:"senha" validate:"required,min=1,max=128"`
	Nivel *int   `json:"nivel" validate:"required"`
	Email string `json:"email" validate:"required,max=80"`
}

// UpdateRequest fields are optional; only present, non-empty values
// overwrite the stored record.
type UpdateRequest struct {
	Email   *string `json:"email,omitempty"   validate:"omitempty,max=80"`
	Senha   *string `json:"senha,omitempty"   validate:"omitempty,max=128"`
	Nivel   *int    `json:"nivel,omitempty"`
	Ativado *string `json:"ativado,omitempty" validate:"omitempty,oneof=S N s n"`
}

type VerifyRequest struct {
	Login string `json:"login" validate:"required,max=40"`
	Senha string `json:"senha" validate:"required,max=128"`
}

type UserView struct {
	UserID  int64  `json:"user_id"`
	Login   string `json:"login"`
	Email   string `json:"email"`
	Nivel   int    `json:"nivel"`
	Ativado string `json:"ativado"`
}

type ListResponse struct {
	Users []UserView `json:"Users"`
}

type RegisterResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	Login       string `json:"login"`
	Nivel       int    `json:"nivel"`
}

type VerifyResponse struct {
	UserID  int64  `json:"user_id"`
	Nivel   int    `json:"nivel"`
	Login   string `json:"login"`
	Ativado string `json:"ativado"`
}

func ToUserView(u *Usuario) UserView {
	return UserView{
		UserID:  u.UserID,
		Login:   u.Login,
		Email:   u.Email,
		Nivel:   u.Nivel,
		Ativado: u.Ativado,
	}
}

func ToUserViewList(usuarios []Usuario) []UserView {
	views := make([]UserView, 0, len(usuarios))
	for _, u := range usuarios {
		views = append(views, ToUserView(&u))
	}
	return views
}
