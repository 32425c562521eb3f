// Package renderer centralizes view rendering so every handler attaches the
// same locals (flash messages, current user) the same way.
package renderer

import (
	"github.com/gofiber/fiber/v2"

	"loventy.org/pkg/flashmessages"
)

const (
	FlashSuccessKeyView = "FlashSuccess"
	FlashErrorKeyView   = "FlashError"
)

// SetFlashMessages copies pending flash data into the render map.
func SetFlashMessages(data fiber.Map, flash flashmessages.FlashData) {
	if flash.Success != "" {
		data[FlashSuccessKeyView] = flash.Success
	}
	if flash.Error != "" {
		data[FlashErrorKeyView] = flash.Error
	}
}

// Render renders a view inside a layout with an explicit status code.
func Render(c *fiber.Ctx, view, layout string, data fiber.Map, status ...int) error {
	code := fiber.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	if data == nil {
		data = fiber.Map{}
	}
	if uid := c.Locals("userID"); uid != nil {
		data["CurrentUserID"] = uid
	}
	return c.Status(code).Render(view, data, layout)
}
