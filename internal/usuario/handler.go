// AngelaMos | 2026
// handler.go

package usuario

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/usuario-api/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Post("/registrar", h.Register)
	r.Post("/verifica_senha", h.VerificaSenha)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/usuarios", h.ListUsuarios)
		r.Put("/usuario/{id}", h.UpdateUsuario)
		r.Delete("/usuario/{id}", h.DeleteUsuario)
	})
}

// ListUsuarios returns every stored usuario, digests excluded.
func (h *Handler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ListResponse{Users: ToUserViewList(usuarios)})
}

// Register creates a usuario and returns a freshly minted access token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, token, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailRequired):
			core.BadRequest(w, "email is required")
		case errors.Is(err, ErrLoginTaken):
			core.BadRequest(w, "login '"+req.Login+"' already exists")
		case errors.Is(err, ErrEmailTaken):
			core.BadRequest(w, "email '"+req.Email+"' already exists")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, RegisterResponse{
		Message:     "usuario created successfully",
		AccessToken: token,
		Login:       u.Login,
		Nivel:       u.Nivel,
	})
}

// UpdateUsuario applies the present fields of the request to an existing
// usuario and returns the updated view.
func (h *Handler) UpdateUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "usuario")
		case errors.Is(err, ErrEmailTaken):
			core.BadRequest(w, "email already exists")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToUserView(u))
}

func (h *Handler) DeleteUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "usuario")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

// VerificaSenha validates a login/senha pair. Unknown login and wrong
// senha share one message so the response does not reveal which was wrong.
func (h *Handler) VerificaSenha(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.VerifySenha(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConfirmed):
			core.BadRequest(w, "usuario not confirmed")
		case errors.Is(err, ErrInvalidCredentials):
			core.BadRequest(w, "invalid credentials, check login and senha")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, VerifyResponse{
		UserID:  u.UserID,
		Nivel:   u.Nivel,
		Login:   u.Login,
		Ativado: u.Ativado,
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		core.BadRequest(w, "invalid usuario id")
		return 0, false
	}
	return id, true
}
