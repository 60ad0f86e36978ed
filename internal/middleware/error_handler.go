package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/chelseasymphony/donations/internal/dto"
	"github.com/chelseasymphony/donations/internal/model"
)

// MapError converts a handler error into a status and response body.
func MapError(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, model.ErrInvalidAmount):
		return http.StatusBadRequest, dto.ErrorResponse{Error: "invalid amount", Details: err.Error()}
	case errors.Is(err, model.ErrMailDispatch):
		return http.StatusServiceUnavailable, dto.ErrorResponse{Error: "notification could not be sent"}
	case errors.Is(err, model.ErrUpstreamUnavailable):
		log.Warn().Err(err).Msg("payment processor unavailable")
		return http.StatusServiceUnavailable, dto.ErrorResponse{Error: "payment processor unavailable"}
	}
	return MapDBError(err)
}

func MapDBError(err error) (int, dto.ErrorResponse) {
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, dto.ErrorResponse{Error: "resource not found"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusConflict, dto.ErrorResponse{
				Error:   "resource already exists",
				Details: pgErr.Detail,
			}
		case "23514": // check_violation
			return http.StatusBadRequest, dto.ErrorResponse{
				Error:   "constraint violation",
				Details: pgErr.Detail,
			}
		}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			status, resp := MapError(err)
			c.JSON(status, resp)
		}
	}
}
