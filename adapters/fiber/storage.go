package fiber

import (
	"io"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/inventrack/core"
	"github.com/lborres/inventrack/services"
)

func (a *Adapter) uploadProfileImage(c fiber.Ctx) error {
	data, err := readUpload(c, services.MaxImageSize)
	if err != nil {
		return err
	}

	url, err := a.api.Images.Upload(c.Context(), c.Params("userId"), data)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "Profile image uploaded successfully",
		"imageUrl": url,
	})
}

func (a *Adapter) getProfileImage(c fiber.Ctx) error {
	url, err := a.api.Images.Get(c.Context(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"imageUrl": url})
}

// getStoredObject serves objects of buckets that keep their own data.
func (a *Adapter) getStoredObject(c fiber.Ctx) error {
	obj, err := a.api.Images.Object(c.Context(), c.Params("name"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(obj.Data)
}

// readUpload reads the multipart file field, refusing anything over limit.
func readUpload(c fiber.Ctx, limit int64) ([]byte, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, core.ErrFileRequired
	}
	if header.Size > limit {
		return nil, core.ErrFileTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, core.Validation(core.ErrFileRequired.Message, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, core.Validation(core.ErrFileRequired.Message, err)
	}
	return data, nil
}
