package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/blue-farid/DrugBox/internal/cache"
	"github.com/blue-farid/DrugBox/internal/config"
)

// RateLimit throttles device traffic with a fixed window counter per
// client IP and route. The counter lives in redis so the limit holds
// across replicas; when redis is unreachable requests pass through
// unthrottled instead of blocking dispenses.
func RateLimit(cfg config.RateLimitConfig, client *cache.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || client == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, ip, c.Path())

			count, err := client.IncrWithTTL(c.Request().Context(), key, cfg.Window)
			if err != nil || count == 0 {
				// fail open
				return next(c)
			}

			remaining := int64(cfg.Requests) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Requests) {
				// Worst case wait: the window just opened.
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
