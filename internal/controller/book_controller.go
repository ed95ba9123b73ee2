package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soujanyavullam/epic-web-app/internal/dto"
	"github.com/soujanyavullam/epic-web-app/internal/pkg/serverutils"
	"github.com/soujanyavullam/epic-web-app/internal/service"
)

type IBookController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type bookController struct {
	bookService      service.IBookService
	ingestionService service.IIngestionService
}

func NewBookController(bookService service.IBookService, ingestionService service.IIngestionService) IBookController {
	return &bookController{
		bookService:      bookService,
		ingestionService: ingestionService,
	}
}

func (c *bookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/book/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("upload", c.Upload)
	h.Post("ingest", c.Ingest)
}

func (c *bookController) Upload(ctx *fiber.Ctx) error {
	var req dto.UploadBookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.bookService.Upload(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload book", res))
}

func (c *bookController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestBookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestionService.Ingest(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest book", res))
}

func (c *bookController) List(ctx *fiber.Ctx) error {
	res, err := c.bookService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list books", res))
}
