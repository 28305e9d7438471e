package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/places-microservice/internal/pkg/utils"
	"github.com/places-microservice/internal/pkg/validator"
	"github.com/places-microservice/internal/usecase"
	"github.com/places-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// FeatureHandler - обработчик для чтения объектов локации
type FeatureHandler struct {
	featureUC *usecase.FeatureUseCase
	logger    *zap.Logger
}

// NewFeatureHandler - создание нового FeatureHandler
func NewFeatureHandler(featureUC *usecase.FeatureUseCase, logger *zap.Logger) *FeatureHandler {
	return &FeatureHandler{
		featureUC: featureUC,
		logger:    logger,
	}
}

// ListFeatures godoc
// @Summary Страница объектов локации
// @Description Возвращает объекты локации в стабильном порядке с пагинацией. Геометрия отдаётся в WKT (SRID 4326).
// @Tags Places
// @Produce json
// @Param X-Account-ID header string true "Идентификатор аккаунта"
// @Param id path int true "ID локации"
// @Param limit query int false "Размер страницы" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} utils.SuccessResponse{data=dto.FeaturesResponse}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/places/locations/{id}/features [get]
func (h *FeatureHandler) ListFeatures(c *fiber.Ctx) error {
	account, err := accountID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	id, err := locationID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	req := dto.ListFeaturesRequest{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.featureUC.ListFeatures(c.Context(), account, id, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:  result.Total,
		Limit:  result.Limit,
		Offset: result.Offset,
	})
}
