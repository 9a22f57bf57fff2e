package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ppiankov/slangwatch/internal/model"
)

const tokenIssuer = "slangwatch"

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

// Login checks the admin password and issues a session token, both as a
// cookie and in the body for API clients.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, fiber.StatusBadRequest, errors.New("invalid request body"))
	}

	password := strings.TrimSpace(req.Password)
	if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		s.log.Warn("failed admin login", zap.String("ip", c.IP()))
		return s.respondError(c, fiber.StatusUnauthorized, errors.New("invalid password"))
	}

	expires := time.Now().Add(s.sessionTTL())
	token, err := s.issueToken(expires)
	if err != nil {
		return s.respondError(c, fiber.StatusInternalServerError, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	s.log.Info("admin logged in", zap.String("ip", c.IP()))
	return c.JSON(fiber.Map{
		"success":    true,
		"token":      token,
		"expires_at": expires.UTC(),
	})
}

// Logout clears the session cookie
func (s *Server) Logout(c *fiber.Ctx) error {
	c.ClearCookie(sessionCookie)
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) sessionTTL() time.Duration {
	if s.cfg.Admin.SessionTTL > 0 {
		return s.cfg.Admin.SessionTTL
	}
	return 12 * time.Hour
}

func (s *Server) issueToken(expires time.Time) (string, error) {
	actor := s.cfg.Admin.DefaultActor
	if actor == "" {
		actor = model.DefaultActor
	}
	claims := jwt.MapClaims{
		"sub":   "admin",
		"actor": actor,
		"iss":   tokenIssuer,
		"iat":   time.Now().Unix(),
		"exp":   expires.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Admin.SessionSecret))
}

// AdminRequired accepts a session token from the Authorization header or the
// session cookie and stores the acting moderator in the request locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if parts := strings.Split(c.Get("Authorization"), " "); len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
		if tokenString == "" {
			tokenString = c.Cookies(sessionCookie)
		}
		if tokenString == "" {
			return s.respondError(c, fiber.StatusUnauthorized, errors.New("authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
			}
			return []byte(s.cfg.Admin.SessionSecret), nil
		}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			return s.respondError(c, fiber.StatusUnauthorized, errors.New("invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return s.respondError(c, fiber.StatusUnauthorized, errors.New("invalid token claims"))
		}
		actor, _ := claims["actor"].(string)
		if actor == "" {
			actor = model.DefaultActor
		}
		c.Locals("actor", actor)

		return c.Next()
	}
}

func actorOf(c *fiber.Ctx) string {
	if actor, ok := c.Locals("actor").(string); ok && actor != "" {
		return actor
	}
	return model.DefaultActor
}
