package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/places-microservice/internal/pkg/errors"
	"github.com/places-microservice/internal/pkg/utils"
	"github.com/places-microservice/internal/pkg/validator"
	"github.com/places-microservice/internal/usecase"
	"github.com/places-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// AccountIDHeader - заголовок с идентификатором аккаунта вызывающего
const AccountIDHeader = "X-Account-ID"

// LocationHandler - обработчик для операций с локациями
type LocationHandler struct {
	locationUC *usecase.LocationUseCase
	logger     *zap.Logger
}

// NewLocationHandler - создание нового LocationHandler
func NewLocationHandler(locationUC *usecase.LocationUseCase, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
		logger:     logger,
	}
}

func accountID(c *fiber.Ctx) (string, error) {
	id := c.Get(AccountIDHeader)
	if id == "" {
		return "", errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"header": AccountIDHeader + " is required",
		})
	}
	return id, nil
}

func locationID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"param": "id must be a positive integer",
		})
	}
	return id, nil
}

// Resolve godoc
// @Summary Резолв точки в локацию
// @Description Превращает точку с радиусом в локацию. Если активная локация аккаунта уже полностью покрывает запрошенную область, возвращается она (кеш-хит). Иначе создаётся новая локация и синхронно наполняется объектами OSM из Overpass API.
// @Tags Places
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "Идентификатор аккаунта"
// @Param request body dto.ResolveRequest true "Точка, радиус и опциональные имя/тип запроса"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResolveResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/places/resolve [post]
func (h *LocationHandler) Resolve(c *fiber.Ctx) error {
	account, err := accountID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.locationUC.Resolve(c.Context(), account, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// ListLocations godoc
// @Summary Список активных локаций аккаунта
// @Tags Places
// @Produce json
// @Param X-Account-ID header string true "Идентификатор аккаунта"
// @Success 200 {object} utils.SuccessResponse{data=dto.LocationsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/places/locations [get]
func (h *LocationHandler) ListLocations(c *fiber.Ctx) error {
	account, err := accountID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.locationUC.ListLocations(c.Context(), account)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// GetLocation godoc
// @Summary Получение локации по ID
// @Tags Places
// @Produce json
// @Param X-Account-ID header string true "Идентификатор аккаунта"
// @Param id path int true "ID локации"
// @Success 200 {object} utils.SuccessResponse{data=domain.Location}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/places/locations/{id} [get]
func (h *LocationHandler) GetLocation(c *fiber.Ctx) error {
	account, err := accountID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	id, err := locationID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	loc, err := h.locationUC.GetLocation(c.Context(), account, id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, loc, nil)
}

// UpdateLocation godoc
// @Summary Изменение имени и описания локации
// @Description Меняет только пользовательские поля. Bbox и привязанные объекты не затрагиваются.
// @Tags Places
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "Идентификатор аккаунта"
// @Param id path int true "ID локации"
// @Param request body dto.UpdateLocationRequest true "Новые значения полей"
// @Success 200 {object} utils.SuccessResponse{data=domain.Location}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/places/locations/{id} [patch]
func (h *LocationHandler) UpdateLocation(c *fiber.Ctx) error {
	account, err := accountID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	id, err := locationID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	loc, err := h.locationUC.UpdateLocation(c.Context(), account, id, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, loc, nil)
}

// DeactivateLocation godoc
// @Summary Деактивация локации
// @Description Soft delete: локация исчезает из списков и перестаёт отдавать кеш-хиты. Объекты остаются в хранилище, они могут принадлежать другим локациям.
// @Tags Places
// @Produce json
// @Param X-Account-ID header string true "Идентификатор аккаунта"
// @Param id path int true "ID локации"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/places/locations/{id} [delete]
func (h *LocationHandler) DeactivateLocation(c *fiber.Ctx) error {
	account, err := accountID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	id, err := locationID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.locationUC.DeactivateLocation(c.Context(), account, id); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"deactivated": true}, nil)
}
