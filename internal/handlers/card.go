package handlers

import (
	"errors"
	"log"

	apperrors "cardhub/internal/errors"
	"cardhub/internal/middleware"
	"cardhub/internal/models"
	"cardhub/internal/services/card"
	"cardhub/internal/utils/response"
	"cardhub/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type CardHandler struct {
	cardService card.Service
}

func NewCardHandler(cardService card.Service) *CardHandler {
	return &CardHandler{
		cardService: cardService,
	}
}

func (h *CardHandler) GetCards(c *fiber.Ctx) error {
	cards, err := h.cardService.GetAll(c.UserContext(), middleware.CardholderID(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.Success(c, "Cards retrieved successfully", cards)
}

func (h *CardHandler) GetCard(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validation.IsUUID(id) {
		return response.NotFound(c, apperrors.ErrCardNotFound.Error())
	}

	found, err := h.cardService.GetByID(c.UserContext(), middleware.CardholderID(c), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.Success(c, "Card retrieved successfully", found)
}

// LookupCard serves the admin route; it is not scoped to a cardholder.
func (h *CardHandler) LookupCard(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validation.IsUUID(id) {
		return response.NotFound(c, apperrors.ErrCardNotFound.Error())
	}

	found, err := h.cardService.Lookup(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.Success(c, "Card retrieved successfully", found)
}

func (h *CardHandler) CreateCard(c *fiber.Ctx) error {
	var input models.CreateCardInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if v := validation.Validate(&input); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	created, err := h.cardService.CreateCard(c.UserContext(), middleware.CardholderID(c), input)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.Created(c, "Card created successfully", created)
}

func (h *CardHandler) UpdateCardStatus(c *fiber.Ctx) error {
	var input models.UpdateCardStatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if v := validation.Validate(&input); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	updated, err := h.cardService.UpdateCardStatus(c.UserContext(), middleware.CardholderID(c), input)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.Success(c, "Card status updated successfully", updated)
}

func (h *CardHandler) UpdateCardLimits(c *fiber.Ctx) error {
	var input models.UpdateCardLimitsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if v := validation.Validate(&input); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	updated, err := h.cardService.UpdateCardLimits(c.UserContext(), middleware.CardholderID(c), input)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.Success(c, "Card limits updated successfully", updated)
}

func (h *CardHandler) handleError(c *fiber.Ctx, err error) error {
	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		return response.NotFound(c, nf.Error())
	}

	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return response.BadRequest(c, de.Message)
	}

	log.Printf("Card request %s %s failed: %v", c.Method(), c.Path(), err)
	return response.ServerError(c, "Internal server error")
}
