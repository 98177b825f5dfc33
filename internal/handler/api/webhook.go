package api

import (
	"io"
	"net/http"

	resdto "studiobook/internal/handler/dto/response"
	"studiobook/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxWebhookBody = 1 << 20

// WebhookHandler is the public entry for provider notifications. Providers
// retry failed deliveries indefinitely, so anything short of an
// infrastructure failure answers 200.
type WebhookHandler struct {
	webhookUseCase usecase.WebhookUsecase
}

func NewWebhookHandler(webhookUseCase usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{webhookUseCase: webhookUseCase}
}

// @Summary Payment provider webhook
// @Description Receive and reconcile an asynchronous provider event
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} resdto.WebhookResponse
// @Failure 500 {object} httperr.Response
// @Router /payments/webhook [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		// A broken read is the provider's problem; report OK so it moves on
		// and let redelivery carry the payload.
		c.JSON(http.StatusOK, resdto.WebhookResponse{OK: false, Info: "unreadable_body"})
		return
	}

	input := usecase.WebhookInput{
		Topic:         firstQuery(c, "topic", "type"),
		ResourceID:    firstQuery(c, "id", "data.id"),
		AccountIDHint: uuidQuery(c, "account_id"),
		BookingIDHint: uuidQuery(c, "booking_id"),
		Body:          body,
	}

	result, err := h.webhookUseCase.Process(c.Request.Context(), input)
	if err != nil {
		// Non-2xx makes the provider redeliver, which is what we want for
		// transient infrastructure failures.
		c.JSON(http.StatusInternalServerError, resdto.WebhookResponse{OK: false, Info: "processing_failed"})
		return
	}

	resp := resdto.WebhookResponse{OK: true}
	if !result.Matched {
		resp.Info = "unmatched"
	}
	c.JSON(http.StatusOK, resp)
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return ""
}

func uuidQuery(c *gin.Context, key string) *uuid.UUID {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}
