package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soujanyavullam/epic-web-app/internal/dto"
	"github.com/soujanyavullam/epic-web-app/internal/pkg/serverutils"
	"github.com/soujanyavullam/epic-web-app/internal/service"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type queryController struct {
	queryService service.IQueryService
}

func NewQueryController(queryService service.IQueryService) IQueryController {
	return &queryController{
		queryService: queryService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/query/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("ask", c.Ask)
}

func (c *queryController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.queryService.Answer(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}
