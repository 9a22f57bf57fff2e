package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError writes {"error": ...}. Server faults are logged and their
// details kept out of the response.
func (s *Server) respondError(c *fiber.Ctx, status int, err error) error {
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		s.log.Error("request error",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.Path()),
			zap.Error(err))
		msg = "Internal server error"
	}
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return s.respondError(c, status, err)
}
