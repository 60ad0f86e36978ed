package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chelseasymphony/donations/internal/model"
	"github.com/chelseasymphony/donations/internal/paypal"
	"github.com/chelseasymphony/donations/internal/service"
)

const maxIPNBody = 64 << 10

type IPNVerifier interface {
	Verify(ctx context.Context, body []byte) error
}

type IPNHandler struct {
	svc      *service.IPNService
	verifier IPNVerifier
}

// NewIPNHandler builds the notify_url handler. A nil verifier trusts the
// body as delivered.
func NewIPNHandler(svc *service.IPNService, verifier IPNVerifier) *IPNHandler {
	return &IPNHandler{svc: svc, verifier: verifier}
}

// Receive answers 200 for anything PayPal should not redeliver, including
// untrusted, unclassified and postback-rejected notifications. Transient
// failures answer 503 so PayPal retries.
func (h *IPNHandler) Receive(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxIPNBody)
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if h.verifier != nil {
		err := h.verifier.Verify(c.Request.Context(), body)
		switch {
		case errors.Is(err, paypal.ErrNotVerified):
			log.Warn().Err(err).Msg("ipn rejected by paypal postback")
			c.String(http.StatusOK, "OKAY")
			return
		case err != nil:
			// Non-2xx makes PayPal redeliver.
			_ = c.Error(fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err))
			return
		}
	}

	values, err := paypal.ParseForm(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err = h.svc.Process(c.Request.Context(), paypal.ToEvent(values))
	switch {
	case err == nil,
		errors.Is(err, model.ErrUntrustedSender),
		errors.Is(err, model.ErrUnclassifiedEvent):
		c.String(http.StatusOK, "OKAY")
	default:
		_ = c.Error(err)
	}
}
