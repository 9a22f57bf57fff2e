package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags every request with an ID and logs it once handled
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("requestID", rid)
		c.Set(requestIDHeader, rid)

		err := c.Next()

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
			s.log.Warn("request failed", fields...)
		} else {
			s.log.Info("request processed", fields...)
		}
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if rid, ok := c.Locals("requestID").(string); ok {
		return rid
	}
	return ""
}
