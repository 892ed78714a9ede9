package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid      = "pid"
	TagStatus   = "status"
	TagLatency  = "latency"
	TagMethod   = "method"
	TagPath     = "path"
	TagIP       = "ip"
	TagUA       = "user_agent"
	TagBody     = "body"
	TagResBody  = "res_body"
	TagQuery    = "query"
	RequestID   = "request_id"
	TagUserID   = "user_id"
	maxBodySize = 2048
)

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag значение поля записи лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func cutBody(body []byte) string {
	if len(body) > maxBodySize {
		return string(body[:maxBodySize]) + "..."
	}
	return string(body)
}

// isBinary тело multipart и файлов в лог не пишем
func isBinary(contentType string) bool {
	switch {
	case contentType == "":
		return false
	case len(contentType) >= 16 && contentType[:16] == "application/json":
		return false
	case len(contentType) >= 5 && contentType[:5] == "text/":
		return false
	}
	return true
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return c.IP()
		},
		TagUA: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagQuery: func(c *fiber.Ctx, _ *data) interface{} {
			return string(c.Request().URI().QueryString())
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			if isBinary(c.Get(fiber.HeaderContentType)) {
				return ""
			}
			return cutBody(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			if isBinary(string(c.Response().Header.ContentType())) {
				return ""
			}
			return cutBody(c.Response().Body())
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			return c.GetRespHeader(fiber.HeaderXRequestID)
		},
		TagUserID: func(c *fiber.Ctx, _ *data) interface{} {
			if userID, ok := c.Locals(TagUserID).(string); ok {
				return userID
			}
			return ""
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}
