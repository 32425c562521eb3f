// Package flashmessages stores one-shot messages in the session so a
// redirect target can surface the outcome of the previous request.
package flashmessages

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	FlashSuccessKey = "flash_success"
	FlashErrorKey   = "flash_error"
)

// FlashData is what GetFlashMessages hands to the view.
type FlashData struct {
	Success string
	Error   string
}

func store(c *fiber.Ctx) (*session.Session, error) {
	storeRaw := c.Locals("session_store")
	st, ok := storeRaw.(*session.Store)
	if !ok || st == nil {
		return nil, fiber.ErrInternalServerError
	}
	return st.Get(c)
}

// SetFlashMessage records a message under key for the next request.
func SetFlashMessage(c *fiber.Ctx, key, message string) error {
	sess, err := store(c)
	if err != nil {
		return err
	}
	sess.Set(key, message)
	return sess.Save()
}

// GetFlashMessages pops and returns any pending messages.
func GetFlashMessages(c *fiber.Ctx) (FlashData, error) {
	sess, err := store(c)
	if err != nil {
		return FlashData{}, err
	}
	var data FlashData
	if v, ok := sess.Get(FlashSuccessKey).(string); ok {
		data.Success = v
		sess.Delete(FlashSuccessKey)
	}
	if v, ok := sess.Get(FlashErrorKey).(string); ok {
		data.Error = v
		sess.Delete(FlashErrorKey)
	}
	return data, sess.Save()
}
