package componente

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Codigo  string `json:"codigo"`
	Mensaje string `json:"mensaje"`
}

// RecursoController exposes the resource lifecycle over HTTP.
type RecursoController struct {
	servicio *RecursoService
	logger   Logger
}

func NewRecursoController(servicio *RecursoService, logger Logger) *RecursoController {
	return &RecursoController{
		servicio: servicio,
		logger:   normalizeLogger(logger),
	}
}

// RegisterRecursoRoutes mounts the CRUD routes under the given router,
// usually an app.Group("/api/recursos").
func RegisterRecursoRoutes(app fiber.Router, controller *RecursoController) {
	app.Get("/", controller.ObtenerTodos)
	app.Get("/activos", controller.ObtenerActivos)
	app.Get("/buscar", controller.BuscarPorNombre)
	app.Get("/:id", controller.ObtenerPorID)
	app.Post("/", controller.Crear)
	app.Put("/:id", controller.Actualizar)
	app.Delete("/:id", controller.Eliminar)
}

func (ctl *RecursoController) ObtenerTodos(c *fiber.Ctx) error {
	recursos, err := ctl.servicio.ObtenerTodos(c.UserContext())
	if err != nil {
		return ctl.renderError(c, err)
	}
	return c.JSON(toDTOs(recursos))
}

func (ctl *RecursoController) ObtenerActivos(c *fiber.Ctx) error {
	recursos, err := ctl.servicio.ObtenerActivos(c.UserContext())
	if err != nil {
		return ctl.renderError(c, err)
	}
	return c.JSON(toDTOs(recursos))
}

func (ctl *RecursoController) BuscarPorNombre(c *fiber.Ctx) error {
	recursos, err := ctl.servicio.BuscarPorNombre(c.UserContext(), c.Query("nombre"))
	if err != nil {
		return ctl.renderError(c, err)
	}
	return c.JSON(toDTOs(recursos))
}

func (ctl *RecursoController) ObtenerPorID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ctl.renderError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "identificador inválido").
			WithTextCode("ID_INVALIDO"))
	}

	recurso, err := ctl.servicio.ObtenerPorID(c.UserContext(), id)
	if err != nil {
		return ctl.renderError(c, err)
	}
	return c.JSON(ToDTO(recurso))
}

func (ctl *RecursoController) Crear(c *fiber.Ctx) error {
	dto := RecursoDTO{}
	if err := c.BodyParser(&dto); err != nil {
		return ctl.renderError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "cuerpo de petición inválido").
			WithTextCode("CUERPO_INVALIDO"))
	}

	ctx := ctl.requestContext(c)
	creado, err := ctl.servicio.Crear(ctx, FromDTO(dto))
	if err != nil {
		return ctl.renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ToDTO(creado))
}

func (ctl *RecursoController) Actualizar(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ctl.renderError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "identificador inválido").
			WithTextCode("ID_INVALIDO"))
	}

	dto := RecursoDTO{}
	if err := c.BodyParser(&dto); err != nil {
		return ctl.renderError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "cuerpo de petición inválido").
			WithTextCode("CUERPO_INVALIDO"))
	}

	ctx := ctl.requestContext(c)
	actualizado, err := ctl.servicio.Actualizar(ctx, id, FromDTO(dto))
	if err != nil {
		return ctl.renderError(c, err)
	}
	return c.JSON(ToDTO(actualizado))
}

func (ctl *RecursoController) Eliminar(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return ctl.renderError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "identificador inválido").
			WithTextCode("ID_INVALIDO"))
	}

	if err := ctl.servicio.Eliminar(ctl.requestContext(c), id); err != nil {
		return ctl.renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// requestContext carries the authenticated principal, when present, into
// the service layer so audit stamps use the real actor.
func (ctl *RecursoController) requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if actor, ok := c.Locals(LocalsUsername).(string); ok && actor != "" {
		ctx = WithActor(ctx, actor)
	}
	return ctx
}

func (ctl *RecursoController) renderError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "error interno del servidor")
	}

	status := statusForCategory(richErr.Category)
	if status >= fiber.StatusInternalServerError {
		ctl.logger.Error("Request failed: %v", richErr)
	}

	codigo := richErr.TextCode
	if codigo == "" {
		codigo = string(richErr.Category)
	}

	return c.Status(status).JSON(ErrorResponse{
		Codigo:  codigo,
		Mensaje: richErr.Message,
	})
}

func statusForCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func toDTOs(recursos []*Recurso) []RecursoDTO {
	out := make([]RecursoDTO, 0, len(recursos))
	for _, r := range recursos {
		out = append(out, ToDTO(r))
	}
	return out
}

// LocalsUsername is the fiber Locals key under which the authentication
// middleware stores the validated token subject.
const LocalsUsername = "usuario"

// AuthController exposes token endpoints for local development.
type AuthController struct {
	autenticador *Autenticador
	logger       Logger
}

func NewAuthController(autenticador *Autenticador, logger Logger) *AuthController {
	return &AuthController{
		autenticador: autenticador,
		logger:       normalizeLogger(logger),
	}
}

func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post("/login", controller.Login)
	app.Get("/token-sistema", controller.TokenSistema)
}

type credencialesRequest struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Tipo    string `json:"tipo"`
	Usuario string `json:"usuario"`
}

func (ctl *AuthController) Login(c *fiber.Ctx) error {
	credenciales := credencialesRequest{}
	if err := c.BodyParser(&credenciales); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Codigo:  "CUERPO_INVALIDO",
			Mensaje: "cuerpo de petición inválido",
		})
	}

	token, err := ctl.autenticador.Login(c.UserContext(), credenciales.Usuario, credenciales.Contrasena)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Codigo:  "CREDENCIALES_INVALIDAS",
			Mensaje: "credenciales inválidas",
		})
	}

	return c.JSON(tokenResponse{Token: token, Tipo: "Bearer", Usuario: credenciales.Usuario})
}

func (ctl *AuthController) TokenSistema(c *fiber.Ctx) error {
	token, err := ctl.autenticador.TokenSistema(c.UserContext())
	if err != nil {
		return ctl.renderError(c, err)
	}
	return c.JSON(tokenResponse{Token: token, Tipo: "Bearer", Usuario: ActorSistema})
}

func (ctl *AuthController) renderError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "error interno del servidor")
	}
	return c.Status(statusForCategory(richErr.Category)).JSON(ErrorResponse{
		Codigo:  richErr.TextCode,
		Mensaje: richErr.Message,
	})
}

// SessionClaims decodes the parsed token stored by the authentication
// middleware in Locals, mirroring how handlers read the session.
func SessionClaims(c *fiber.Ctx, key string) (jwt.MapClaims, error) {
	value := c.Locals(key)
	if value == nil {
		return nil, goerrors.New("sesión no encontrada", goerrors.CategoryAuth)
	}

	claims, ok := value.(jwt.MapClaims)
	if !ok {
		return nil, goerrors.New("sesión con formato inválido", goerrors.CategoryAuth)
	}
	return claims, nil
}
