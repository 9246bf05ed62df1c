package middleware

// identity.go holds helpers shared across middleware files.  currentUserID
// stringifies whatever JWTAuth stored under "user_id" so rate-limit keys
// can be scoped per user; unauthenticated requests share the "anon" bucket.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's ID as a string, or "anon"
// when the request carries no identity.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64:
		return fmt.Sprintf("%d", t)
	}
	return "anon"
}
