package controller

import (
	"context"
	"errors"

	"github.com/cridiv/Aedar/internal/dto"
	"github.com/cridiv/Aedar/internal/pkg/serverutils"
	"github.com/cridiv/Aedar/internal/service"
	"github.com/cridiv/Aedar/pkg/roadmap"

	"github.com/gofiber/fiber/v2"
)

type IRoadmapController interface {
	RegisterRoutes(api fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type roadmapController struct {
	service service.IRoadmapService
}

func NewRoadmapController(service service.IRoadmapService) IRoadmapController {
	return &roadmapController{service: service}
}

func (c *roadmapController) RegisterRoutes(api fiber.Router) {
	api.Post("/chat", c.Chat)
}

// Chat turns a free-text request into a roadmap
// @Summary Generate a learning roadmap
// @Tags Roadmap
// @Accept json
// @Produce json
// @Param request body dto.GenerateRoadmapRequest true "User message"
// @Success 200 {object} dto.GenerateRoadmapResponse
// @Router /api/chat [post]
func (c *roadmapController) Chat(ctx *fiber.Ctx) error {
	var req dto.GenerateRoadmapRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.UserContext(), &req)
	if err != nil {
		return pipelineError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Roadmap generated", res))
}

func pipelineError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return serverutils.NewAppError(fiber.StatusGatewayTimeout, "Roadmap generation timed out. Please try again.", err)
	case errors.Is(err, roadmap.ErrExtractionFailure):
		return serverutils.NewAppError(fiber.StatusBadGateway, "Could not understand the request. Please rephrase it.", err)
	case errors.Is(err, roadmap.ErrGenerationFailure):
		return serverutils.NewAppError(fiber.StatusBadGateway, "Roadmap generation failed. Please try again.", err)
	default:
		return err
	}
}
