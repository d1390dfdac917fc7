package middleware

import (
	"strings"

	"go-fabric-ledger/internal/rbac"
	"go-fabric-ledger/internal/repository"
	"go-fabric-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token, checks the session version against
// the database, and stores the actor's identity + role in the request context.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		c.Locals("user_role", user.Role)

		return c.Next()
	}
}

// RequireCapability rejects the request unless the actor's role grants the
// capability. The check is a pure table lookup; unknown roles fail closed.
func RequireCapability(capability rbac.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok || !rbac.Has(role, capability) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + string(capability) + "'",
			})
		}
		return c.Next()
	}
}

// RequireAnyCapability passes when the role holds at least one of the
// capabilities.
func RequireAnyCapability(capabilities ...rbac.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok || !rbac.HasAny(role, capabilities...) {
			names := make([]string, len(capabilities))
			for i, capability := range capabilities {
				names[i] = string(capability)
			}
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires one of " + strings.Join(names, ", "),
			})
		}
		return c.Next()
	}
}
