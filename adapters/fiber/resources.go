package fiber

import (
	"bytes"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/inventrack/core"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ============================================
// PRODUCTS
// ============================================

func (a *Adapter) listProducts(c fiber.Ctx) error {
	products, err := a.api.Products.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (a *Adapter) getProduct(c fiber.Ctx) error {
	id, err := core.ParseID(c.Params("id"), "product")
	if err != nil {
		return err
	}

	product, err := a.api.Products.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (a *Adapter) createProduct(c fiber.Ctx) error {
	var input core.ProductInput
	if err := bind(c, &input); err != nil {
		return err
	}

	product, err := a.api.Products.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product added successfully",
		"product": product,
	})
}

func (a *Adapter) updateProduct(c fiber.Ctx) error {
	id, err := core.ParseID(c.Params("id"), "product")
	if err != nil {
		return err
	}
	var patch core.ProductPatch
	if err := bind(c, &patch); err != nil {
		return err
	}

	product, err := a.api.Products.Update(c.Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (a *Adapter) deleteProduct(c fiber.Ctx) error {
	id, err := core.ParseID(c.Params("id"), "product")
	if err != nil {
		return err
	}

	if err := a.api.Products.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

func (a *Adapter) importProducts(c fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return core.ErrFileRequired
	}
	f, err := header.Open()
	if err != nil {
		return core.Validation(core.ErrFileRequired.Message, err)
	}
	defer f.Close()

	report, err := a.api.Spreadsheets.Import(c.Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (a *Adapter) exportProducts(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := a.api.Spreadsheets.Export(c.Context(), &buf); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Attachment("products.xlsx")
	return c.Send(buf.Bytes())
}

// ============================================
// SUPPLIERS
// ============================================

func (a *Adapter) listSuppliers(c fiber.Ctx) error {
	suppliers, err := a.api.Suppliers.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(suppliers)
}

func (a *Adapter) getSupplier(c fiber.Ctx) error {
	id, err := core.ParseID(c.Params("id"), "supplier")
	if err != nil {
		return err
	}

	supplier, err := a.api.Suppliers.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(supplier)
}

func (a *Adapter) createSupplier(c fiber.Ctx) error {
	var input core.SupplierInput
	if err := bind(c, &input); err != nil {
		return err
	}

	supplier, err := a.api.Suppliers.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Supplier added successfully",
		"supplier": supplier,
	})
}

func (a *Adapter) updateSupplier(c fiber.Ctx) error {
	id, err := core.ParseID(c.Params("id"), "supplier")
	if err != nil {
		return err
	}
	var patch core.SupplierPatch
	if err := bind(c, &patch); err != nil {
		return err
	}

	supplier, err := a.api.Suppliers.Update(c.Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "Supplier updated successfully",
		"supplier": supplier,
	})
}

func (a *Adapter) deleteSupplier(c fiber.Ctx) error {
	id, err := core.ParseID(c.Params("id"), "supplier")
	if err != nil {
		return err
	}

	if err := a.api.Suppliers.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted successfully"})
}

// ============================================
// PROFILES
// ============================================

func (a *Adapter) listProfiles(c fiber.Ctx) error {
	profiles, err := a.api.Profiles.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(profiles)
}

func (a *Adapter) getProfile(c fiber.Ctx) error {
	id, err := core.ParseUUID(c.Params("id"), "profile")
	if err != nil {
		return err
	}

	profile, err := a.api.Profiles.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (a *Adapter) createProfile(c fiber.Ctx) error {
	var input core.ProfileInput
	if err := bind(c, &input); err != nil {
		return err
	}

	profile, err := a.api.Profiles.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Profile added successfully",
		"profile": profile,
	})
}

func (a *Adapter) updateProfile(c fiber.Ctx) error {
	id, err := core.ParseUUID(c.Params("id"), "profile")
	if err != nil {
		return err
	}
	var patch core.ProfilePatch
	if err := bind(c, &patch); err != nil {
		return err
	}

	profile, err := a.api.Profiles.Update(c.Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

func (a *Adapter) deleteProfile(c fiber.Ctx) error {
	id, err := core.ParseUUID(c.Params("id"), "profile")
	if err != nil {
		return err
	}

	if err := a.api.Profiles.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Profile deleted successfully"})
}

// ============================================
// CATEGORIES
// ============================================

func (a *Adapter) listCategories(c fiber.Ctx) error {
	categories, err := a.api.Categories.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}
