package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pdv-api/internal/admin"
)

// AdminHandler expone la consola administrativa bajo /admin.
type AdminHandler struct {
	console *admin.Console
}

func NewAdminHandler(console *admin.Console) *AdminHandler {
	return &AdminHandler{console: console}
}

type adminChangeRequest struct {
	Fields        map[string]interface{} `json:"fields"`
	Justification string                 `json:"justification"`
}

type adminBulkRequest struct {
	Rows          []admin.BulkRow `json:"rows"`
	Justification string          `json:"justification"`
}

// parámetros del listado que no son filtros
var changelistParams = map[string]bool{"q": true, "o": true, "limit": true, "offset": true}

// Index godoc
// @Summary      Modelos de la consola visibles para el perfil
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  admin.ModelInfo
// @Router       /admin [get]
func (h *AdminHandler) Index(c *fiber.Ctx) error {
	return c.JSON(h.console.Index(GetActor(c)))
}

// Changelist godoc
// @Summary      Listado de un modelo
// @Description  q busca en search_fields, o ordena ("-campo" descendente), el resto de parámetros filtra por list_filter ("campo", "campo__gte", "campo__lte").
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        model   path   string  true   "Modelo"
// @Param        q       query  string  false  "Búsqueda"
// @Param        o       query  string  false  "Orden"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  admin.Changelist
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /admin/{model} [get]
func (h *AdminHandler) Changelist(c *fiber.Ctx) error {
	q := admin.ChangelistQuery{
		Search:   c.Query("q"),
		Ordering: c.Query("o"),
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
		Filters:  map[string]string{},
	}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		if key := string(k); !changelistParams[key] {
			q.Filters[key] = string(v)
		}
	})
	out, err := h.console.Changelist(c.Context(), GetActor(c), c.Params("model"), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *AdminHandler) Detail(c *fiber.Ctx) error {
	out, err := h.console.Detail(c.Context(), GetActor(c), c.Params("model"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Alta de un registro
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        model  path  string  true  "Modelo"
// @Success      201  {object}  admin.Detail
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /admin/{model} [post]
func (h *AdminHandler) Add(c *fiber.Ctx) error {
	var in map[string]interface{}
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.console.Add(c.Context(), GetActor(c), c.Params("model"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Change godoc
// @Summary      Edición de un registro
// @Description  Los modelos auditados exigen justification.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        model  path  string  true  "Modelo"
// @Param        id     path  string  true  "ID"
// @Success      200  {object}  admin.Detail
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /admin/{model}/{id} [patch]
func (h *AdminHandler) Change(c *fiber.Ctx) error {
	var in adminChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.console.Change(c.Context(), GetActor(c), c.Params("model"), c.Params("id"), in.Fields, in.Justification)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BulkEdit edición en lista (list_editable), todo o nada.
func (h *AdminHandler) BulkEdit(c *fiber.Ctx) error {
	var in adminBulkRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	n, err := h.console.BulkEdit(c.Context(), GetActor(c), c.Params("model"), in.Rows, in.Justification)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// Delete acepta la justificación en el cuerpo o en ?justification=.
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	var in adminChangeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if in.Justification == "" {
		in.Justification = c.Query("justification")
	}
	if err := h.console.Delete(c.Context(), GetActor(c), c.Params("model"), c.Params("id"), in.Justification); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
