package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/smitlab/tariff-api/app/dto"
	businessflow "github.com/smitlab/tariff-api/business_flow"
	"github.com/smitlab/tariff-api/utils"
)

// MessageHandlerInterface defines the contract for broker publish handlers
type MessageHandlerInterface interface {
	PublishMessage(c fiber.Ctx) error
}

// MessageHandler handles broker publish HTTP requests
type MessageHandler struct {
	flow      businessflow.MessageFlow
	validator *validator.Validate
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(flow businessflow.MessageFlow) MessageHandlerInterface {
	return &MessageHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *MessageHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// PublishMessage forwards a topic and message pair to the broker
// @Summary Publish message
// @Description Forward a text message to the broker under the given topic
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body dto.PublishMessageRequest true "Topic and message"
// @Success 200 "Message accepted"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Publish failed"
// @Router /kafka/ [post]
func (h *MessageHandler) PublishMessage(c fiber.Ctx) error {
	var req dto.PublishMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "MESSAGE_PUBLISH_INVALID", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		var details []map[string]string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, verr := range verrs {
				details = append(details, map[string]string{
					"field":   verr.Field(),
					"message": getValidationErrorMessage(verr),
				})
			}
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "MESSAGE_PUBLISH_INVALID", details)
	}

	if err := h.flow.PublishMessage(h.createRequestContext(c, "/kafka/"), &req); err != nil {
		log.Println("Publish message failed:", err)
		if be, ok := businessflow.IsBusinessError(err); ok {
			return h.ErrorResponse(c, fiber.StatusInternalServerError, be.Message, be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Publish message failed", "MESSAGE_PUBLISH_FAILED", nil)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *MessageHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}
