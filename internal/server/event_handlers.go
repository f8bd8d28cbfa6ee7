package server

import (
	"strings"
	"time"

	"gatherly/internal/models"
	"gatherly/internal/service"
	"gatherly/internal/statsclient"

	"github.com/gofiber/fiber/v2"
)

type newEventRequest struct {
	Title             string                 `json:"title"`
	Annotation        string                 `json:"annotation"`
	Description       string                 `json:"description"`
	Category          uint                   `json:"category"`
	Location          *service.LocationInput `json:"location"`
	EventDate         string                 `json:"eventDate"`
	Paid              bool                   `json:"paid"`
	ParticipantLimit  int                    `json:"participantLimit"`
	RequestModeration *bool                  `json:"requestModeration"`
}

type updateEventRequest struct {
	Title             *string                `json:"title"`
	Annotation        *string                `json:"annotation"`
	Description       *string                `json:"description"`
	Category          *uint                  `json:"category"`
	Location          *service.LocationInput `json:"location"`
	EventDate         *string                `json:"eventDate"`
	Paid              *bool                  `json:"paid"`
	ParticipantLimit  *int                   `json:"participantLimit"`
	RequestModeration *bool                  `json:"requestModeration"`
	StateAction       string                 `json:"stateAction"`
}

func (r updateEventRequest) toInput() (service.UpdateEventInput, error) {
	in := service.UpdateEventInput{
		Title:             r.Title,
		Annotation:        r.Annotation,
		Description:       r.Description,
		CategoryID:        r.Category,
		Location:          r.Location,
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
		StateAction:       models.EventStateAction(r.StateAction),
	}
	if r.EventDate != nil {
		t, err := time.Parse(statsclient.DateTimeLayout, *r.EventDate)
		if err != nil {
			return in, models.NewValidationError("Invalid eventDate: expected " + statsclient.DateTimeLayout)
		}
		in.EventDate = &t
	}
	return in, nil
}

// AdminSearchEvents lists events matching optional admin filters (admin)
func (s *Server) AdminSearchEvents(c *fiber.Ctx) error {
	ctx := c.UserContext()

	paging, err := s.parsePaging(c)
	if err != nil {
		return nil
	}

	users, err := parseUintList(c.Query("users"))
	if err != nil {
		return respondError(c, err)
	}
	categories, err := parseUintList(c.Query("categories"))
	if err != nil {
		return respondError(c, err)
	}
	states, err := parseStateList(c.Query("states"))
	if err != nil {
		return respondError(c, err)
	}
	rangeStart, err := parseTimeParam(c, "rangeStart")
	if err != nil {
		return respondError(c, err)
	}
	rangeEnd, err := parseTimeParam(c, "rangeEnd")
	if err != nil {
		return respondError(c, err)
	}

	events, err := s.eventSvc.SearchByAdmin(ctx, service.AdminSearchInput{
		Users:      users,
		States:     states,
		Categories: categories,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		From:       paging.From,
		Size:       paging.Size,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

// AdminUpdateEvent applies an administrative event update, including
// publication and rejection (admin)
func (s *Server) AdminUpdateEvent(c *fiber.Ctx) error {
	ctx := c.UserContext()

	eventID, err := s.parseID(c, "eventId")
	if err != nil {
		return nil
	}

	var req updateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	in, err := req.toInput()
	if err != nil {
		return respondError(c, err)
	}

	event, err := s.eventSvc.UpdateByAdmin(ctx, eventID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

// ListOwnEvents lists the user's own events (owner)
func (s *Server) ListOwnEvents(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	paging, err := s.parsePaging(c)
	if err != nil {
		return nil
	}

	events, err := s.eventSvc.ListByInitiator(ctx, userID, paging.From, paging.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

// CreateEvent registers a new event in pending state (owner)
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req newEventRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if req.Location == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Location is required"))
	}
	eventDate, err := time.Parse(statsclient.DateTimeLayout, req.EventDate)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid eventDate: expected "+statsclient.DateTimeLayout))
	}

	event, err := s.eventSvc.Create(ctx, service.CreateEventInput{
		InitiatorID:       userID,
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		CategoryID:        req.Category,
		Location:          *req.Location,
		EventDate:         eventDate,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.RequestModeration,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// GetOwnEvent returns one of the user's own events (owner)
func (s *Server) GetOwnEvent(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	eventID, err := s.parseID(c, "eventId")
	if err != nil {
		return nil
	}

	event, err := s.eventSvc.GetByInitiator(ctx, userID, eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

// UpdateOwnEvent applies an owner event update, including resubmission and
// cancellation (owner)
func (s *Server) UpdateOwnEvent(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	eventID, err := s.parseID(c, "eventId")
	if err != nil {
		return nil
	}

	var req updateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	in, err := req.toInput()
	if err != nil {
		return respondError(c, err)
	}

	event, err := s.eventSvc.UpdateByInitiator(ctx, userID, eventID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

// SearchEvents lists published events matching public filters (public)
func (s *Server) SearchEvents(c *fiber.Ctx) error {
	ctx := c.UserContext()

	paging, err := s.parsePaging(c)
	if err != nil {
		return nil
	}

	categories, err := parseUintList(c.Query("categories"))
	if err != nil {
		return respondError(c, err)
	}
	paid, err := parseBoolParam(c, "paid")
	if err != nil {
		return respondError(c, err)
	}
	rangeStart, err := parseTimeParam(c, "rangeStart")
	if err != nil {
		return respondError(c, err)
	}
	rangeEnd, err := parseTimeParam(c, "rangeEnd")
	if err != nil {
		return respondError(c, err)
	}
	sortBy, err := parseSortParam(c.Query("sort"))
	if err != nil {
		return respondError(c, err)
	}

	events, err := s.eventSvc.SearchPublic(ctx, service.PublicSearchInput{
		Text:          c.Query("text"),
		Categories:    categories,
		Paid:          paid,
		RangeStart:    rangeStart,
		RangeEnd:      rangeEnd,
		OnlyAvailable: c.QueryBool("onlyAvailable", false),
		Sort:          sortBy,
		From:          paging.From,
		Size:          paging.Size,
		IP:            c.IP(),
		URI:           c.Path(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

// GetEvent returns a published event by id (public)
func (s *Server) GetEvent(c *fiber.Ctx) error {
	ctx := c.UserContext()

	eventID, err := s.parseID(c, "eventId")
	if err != nil {
		return nil
	}

	event, err := s.eventSvc.GetPublic(ctx, eventID, c.IP())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

func parseStateList(raw string) ([]models.EventState, error) {
	if raw == "" {
		return nil, nil
	}
	var states []models.EventState
	for _, part := range strings.Split(raw, ",") {
		state, ok := models.ParseEventState(strings.TrimSpace(part))
		if !ok {
			return nil, models.NewValidationError("Unknown event state: " + part)
		}
		states = append(states, state)
	}
	return states, nil
}

func parseSortParam(raw string) (models.EventSort, error) {
	switch models.EventSort(raw) {
	case "", models.EventSortViews, models.EventSortEventDate:
		return models.EventSort(raw), nil
	}
	return "", models.NewValidationError("Unknown sort: " + raw)
}
