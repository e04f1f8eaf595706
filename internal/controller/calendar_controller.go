package controller

import (
	"errors"

	"github.com/cridiv/Aedar/internal/dto"
	"github.com/cridiv/Aedar/internal/pkg/serverutils"
	"github.com/cridiv/Aedar/internal/service"
	"github.com/cridiv/Aedar/pkg/calendar"

	"github.com/gofiber/fiber/v2"
)

type ICalendarController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	AddRoadmap(ctx *fiber.Ctx) error
	StoreCredentials(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type calendarController struct {
	service service.ICalendarService
}

func NewCalendarController(service service.ICalendarService) ICalendarController {
	return &calendarController{service: service}
}

func (c *calendarController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/calendar", jwtMiddleware)
	h.Post("/roadmap", c.AddRoadmap)
	h.Put("/credentials", c.StoreCredentials)
	h.Get("/status", c.Status)
}

// AddRoadmap schedules a roadmap and previews or creates the events
// @Summary Add a roadmap to the user's calendar
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AddRoadmapToCalendarRequest true "Roadmap and options"
// @Success 200 {object} dto.CalendarSyncResponse
// @Router /api/calendar/roadmap [post]
func (c *calendarController) AddRoadmap(ctx *fiber.Ctx) error {
	userID := ctx.Locals("user_id").(string)

	var req dto.AddRoadmapToCalendarRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddRoadmapToCalendar(ctx.UserContext(), userID, &req)
	if err != nil {
		code, message := calendarErrorStatus(err)
		if res != nil {
			return ctx.Status(code).JSON(serverutils.ErrorResponseWithData(code, message, res))
		}
		return serverutils.NewAppError(code, message, err)
	}

	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *calendarController) StoreCredentials(ctx *fiber.Ctx) error {
	userID := ctx.Locals("user_id").(string)

	var req dto.StoreCredentialsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.StoreCredentials(ctx.UserContext(), userID, &req); err != nil {
		code, message := calendarErrorStatus(err)
		return serverutils.NewAppError(code, message, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Calendar connected", nil))
}

func (c *calendarController) Status(ctx *fiber.Ctx) error {
	userID := ctx.Locals("user_id").(string)

	res, err := c.service.GetStatus(ctx.UserContext(), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Calendar status retrieved", res))
}

func calendarErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidStartDate):
		return fiber.StatusBadRequest, service.ErrInvalidStartDate.Error()
	case errors.Is(err, calendar.ErrInvalidCredential):
		return fiber.StatusBadRequest, "Invalid calendar credential"
	case errors.Is(err, calendar.ErrMissingCredentials):
		return fiber.StatusForbidden, "No valid access token – calendar not connected"
	case errors.Is(err, calendar.ErrCalendarAuth):
		return fiber.StatusUnauthorized, "Calendar access expired – please reconnect"
	case errors.Is(err, calendar.ErrCalendarDelivery):
		return fiber.StatusBadGateway, "Failed to add to calendar"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}
