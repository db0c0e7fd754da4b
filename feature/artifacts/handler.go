package artifacts

import (
	"errors"
	"strings"

	"pipeline-storage/core/logger"
	"pipeline-storage/core/pipeline"
	"pipeline-storage/core/utils"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// filterPrefix marks query parameters carrying field filters (filter.year=2021).
const filterPrefix = "filter."

// Handler handles HTTP requests for pipeline artifacts.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the artifacts routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/artifacts")
	group.Get("/find", h.HandleFind)
	group.Get("/keys", h.HandleKeys)
	// Before Get, which also answers HEAD
	group.Head("/object/*", h.HandleHas)
	group.Get("/object/*", h.HandleGet)
	group.Put("/object/*", h.HandlePut)
	group.Delete("/object/*", h.HandleDelete)
	group.Delete("/", h.HandleClear)
}

// HandleFind searches a namespace for keys matching a pattern.
// @Summary Find Artifacts
// @Description Lists the namespace once and returns the keys matching the pattern (anchored at the key start) with their named capture groups. Field filters are passed as filter.<group>=<pattern>.
// @Tags artifacts
// @Produce json
// @Param pattern query string true "Regular expression with named groups"
// @Param namespace query string false "Child namespace"
// @Param base_dir query string false "Key prefix to search under"
// @Param max_results query int false "Stop after this many matches"
// @Success 200 {object} FindResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Storage Unavailable"
// @Router /artifacts/find [get]
func (h *Handler) HandleFind(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	req := FindRequest{
		Namespace:  query(c, "namespace"),
		Pattern:    query(c, "pattern"),
		BaseDir:    query(c, "base_dir"),
		MaxResults: utils.ToInt(c.Query("max_results"), -1),
	}
	if req.Pattern == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pattern is required"})
	}

	for name, value := range c.Queries() {
		if field, ok := strings.CutPrefix(name, filterPrefix); ok {
			if req.FieldFilter == nil {
				req.FieldFilter = make(map[string]string)
			}
			req.FieldFilter[fiberutils.CopyString(field)] = fiberutils.CopyString(value)
		}
	}

	result, err := h.service.Find(c.Context(), req)
	if err != nil {
		l.Error("Find failed", zap.String("pattern", req.Pattern), zap.Error(err))
		return h.fail(c, err)
	}

	l.Info("Find completed", zap.String("pattern", req.Pattern), zap.Int("matches", len(result.Matches)))
	return c.JSON(result)
}

// HandleGet downloads an artifact.
// @Summary Get Artifact
// @Description Returns the artifact content. Text is decoded with the requested encoding and returned as UTF-8 unless binary=true.
// @Tags artifacts
// @Produce octet-stream
// @Param key path string true "Artifact key"
// @Param namespace query string false "Child namespace"
// @Param binary query boolean false "Return raw bytes"
// @Param encoding query string false "Text encoding of the stored artifact"
// @Success 200 {string} string "Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /artifacts/object/{key} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	key := objectKey(c)
	namespace := query(c, "namespace")

	if utils.ToBool(c.Query("binary")) {
		data, ok, err := h.service.Get(c.Context(), namespace, key)
		if err != nil {
			return h.fail(c, err)
		}
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "artifact not found", "key": key})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		return c.Send(data)
	}

	text, ok, err := h.service.GetText(c.Context(), namespace, key, query(c, "encoding"))
	if err != nil {
		return h.fail(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "artifact not found", "key": key})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(text)
}

// HandleHas checks whether an artifact exists.
// @Summary Check Artifact
// @Tags artifacts
// @Param key path string true "Artifact key"
// @Param namespace query string false "Child namespace"
// @Success 200 "Exists"
// @Failure 404 "Not Found"
// @Router /artifacts/object/{key} [head]
func (h *Handler) HandleHas(c *fiber.Ctx) error {
	exists, err := h.service.Has(c.Context(), query(c, "namespace"), objectKey(c))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Existence check failed", zap.Error(err))
		return c.SendStatus(statusFor(err))
	}
	if !exists {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandlePut uploads an artifact.
// @Summary Put Artifact
// @Description Stores the request body. Writes are best-effort: the response reports whether the artifact was persisted.
// @Tags artifacts
// @Accept octet-stream
// @Produce json
// @Param key path string true "Artifact key"
// @Param namespace query string false "Child namespace"
// @Param encoding query string false "Re-encode the UTF-8 body with this encoding"
// @Success 200 {object} map[string]interface{} "Write Result"
// @Router /artifacts/object/{key} [put]
func (h *Handler) HandlePut(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	key := objectKey(c)
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}

	result, err := h.service.Put(c.Context(), query(c, "namespace"), key, c.Body(), query(c, "encoding"))
	if err != nil {
		return h.fail(c, err)
	}

	body := fiber.Map{"key": result.Key, "address": result.Address, "persisted": result.Persisted()}
	if !result.Persisted() {
		l.Warn("Artifact not persisted", zap.String("key", key), zap.Error(result.Err))
		body["error"] = result.Err.Error()
	}
	return c.JSON(body)
}

// HandleDelete removes an artifact.
// @Summary Delete Artifact
// @Tags artifacts
// @Param key path string true "Artifact key"
// @Param namespace query string false "Child namespace"
// @Success 204 "Deleted"
// @Failure 503 {object} map[string]string "Storage Unavailable"
// @Router /artifacts/object/{key} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), query(c, "namespace"), objectKey(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClear removes every artifact of a namespace.
// @Summary Clear Namespace
// @Tags artifacts
// @Param namespace query string false "Child namespace"
// @Success 204 "Cleared"
// @Failure 503 {object} map[string]string "Storage Unavailable"
// @Router /artifacts [delete]
func (h *Handler) HandleClear(c *fiber.Ctx) error {
	namespace := query(c, "namespace")
	logger.WithRayID(h.service.logger, c).Info("Clearing namespace", zap.String("namespace", namespace))

	if err := h.service.Clear(c.Context(), namespace); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleKeys lists the keys of a namespace.
// @Summary List Keys
// @Description Not supported by the storage backends; use find instead.
// @Tags artifacts
// @Produce json
// @Failure 501 {object} map[string]string "Not Implemented"
// @Router /artifacts/keys [get]
func (h *Handler) HandleKeys(c *fiber.Ctx) error {
	keys, err := h.service.Keys(c.Context(), query(c, "namespace"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"keys": keys})
}

// objectKey returns the wildcard key of an object route. Fiber strings alias
// request buffers that are reused after the handler returns, so keys that may
// end up stored by a backend are copied.
func objectKey(c *fiber.Ctx) string {
	return fiberutils.CopyString(c.Params("*"))
}

// query returns a copy of the query parameter name.
func query(c *fiber.Ctx, name string) string {
	return fiberutils.CopyString(c.Query(name))
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrInvalidPattern), errors.Is(err, pipeline.ErrUnknownField),
		errors.Is(err, pipeline.ErrConfiguration):
		return fiber.StatusBadRequest
	case errors.Is(err, pipeline.ErrUnsupported):
		return fiber.StatusNotImplemented
	case errors.Is(err, pipeline.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
