// Package rayid generates a unique request ID (RayID) for every
// incoming request, injecting it into the context locals and the
// response headers for tracing.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the request/response header carrying the ray id.
const Header = "X-Ray-Id"

// New returns the ray id middleware. An id supplied by the caller is
// kept so upstream proxies can correlate.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
