package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-billing-api/internal/application/auth"
	"github.com/jhoicas/stock-billing-api/internal/application/dto"
)

// AuthHandler maneja registro, login y la inicialización del administrador.
type AuthHandler struct {
	uc            *auth.AuthUseCase
	adminPassword string
}

// NewAuthHandler construye el handler de auth. adminPassword se usa en POST /api/init.
func NewAuthHandler(uc *auth.AuthUseCase, adminPassword string) *AuthHandler {
	return &AuthHandler{uc: uc, adminPassword: adminPassword}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "username, password"
// @Success      200   {object}  dto.APIResponse{data=dto.UserResponse}
// @Failure      400   {object}  dto.APIResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "usuario registrado", user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.APIResponse{data=dto.LoginResponse}
// @Failure      401   {object}  dto.APIResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "login exitoso", out)
}

// Init godoc
// @Summary      Crear el usuario administrador por defecto (idempotente)
// @Tags         auth
// @Produce      json
// @Success      200   {object}  dto.APIResponse{data=dto.InitResponse}
// @Router       /api/init [post]
func (h *AuthHandler) Init(c *fiber.Ctx) error {
	out, err := h.uc.EnsureDefaultAdmin(c.UserContext(), h.adminPassword)
	if err != nil {
		return respondError(c, err)
	}
	msg := "el usuario administrador ya existe"
	if out.Created {
		msg = "usuario administrador creado"
	}
	return respond(c, fiber.StatusOK, msg, out)
}
