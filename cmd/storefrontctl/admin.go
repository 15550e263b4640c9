package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/urfave/cli/v2"
)

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "manage the product catalog (admin accounts only)",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list every product",
				Action: adminList,
			},
			{
				Name:   "create",
				Usage:  "create a product",
				Flags:  productFlags(),
				Action: adminCreate,
			},
			{
				Name:      "update",
				Usage:     "replace a product's details",
				ArgsUsage: "ID",
				Flags:     productFlags(),
				Action:    adminUpdate,
			},
			{
				Name:  "delete",
				Usage: "delete a product in two steps: request, then confirm or cancel",
				Subcommands: []*cli.Command{
					{
						Name:      "request",
						ArgsUsage: "ID",
						Action:    adminRequestDelete,
					},
					{
						Name:   "confirm",
						Action: adminConfirmDelete,
					},
					{
						Name:   "cancel",
						Action: adminCancelDelete,
					},
				},
			},
		},
	}
}

func productFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Required: true},
		&cli.StringFlag{Name: "description"},
		&cli.StringFlag{Name: "category", Required: true},
		&cli.StringFlag{Name: "price", Required: true},
		&cli.IntFlag{Name: "stock"},
		&cli.StringFlag{Name: "sizes", Usage: "comma separated"},
		&cli.StringFlag{Name: "colors", Usage: "comma separated"},
		&cli.StringSliceFlag{Name: "media", Usage: "image file to upload (repeatable)"},
	}
}

func productForm(c *cli.Context) *models.ProductForm {
	return &models.ProductForm{
		Title:       c.String("title"),
		Description: c.String("description"),
		Category:    c.String("category"),
		Price:       c.String("price"),
		Stock:       c.Int("stock"),
		Sizes:       c.String("sizes"),
		Colors:      c.String("colors"),
	}
}

// openMedia opens every --media file. The returned func closes them.
func openMedia(c *cli.Context) ([]models.Upload, func(), error) {
	var files []*os.File

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	uploads := make([]models.Upload, 0, len(c.StringSlice("media")))
	for _, path := range c.StringSlice("media") {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("failed to open media %s: %w", path, err)
		}

		files = append(files, f)
		uploads = append(uploads, models.Upload{Filename: filepath.Base(path), Content: f})
	}

	return uploads, closeAll, nil
}

func (rt *runtime) editor() *service.AdminEditor {
	return service.NewAdminEditor(rt.shop, rt.sess)
}

func printAdminPage(rt *runtime, editor *service.AdminEditor, products []models.Product) {
	printProducts(rt.out, products)

	if pending := editor.PendingDelete(); pending != "" {
		fmt.Fprintf(rt.out, "\nAwaiting confirmation: delete %s (admin delete confirm | admin delete cancel)\n", pending)
	}
}

func adminList(c *cli.Context) error {
	rt := fromContext(c)

	editor := rt.editor()
	defer editor.Close()

	products, err := editor.Load(rt.ctx(c))
	if err != nil {
		return failure(err)
	}

	printAdminPage(rt, editor, products)

	return nil
}

func adminCreate(c *cli.Context) error {
	rt := fromContext(c)

	uploads, closeMedia, err := openMedia(c)
	if err != nil {
		return failure(err)
	}
	defer closeMedia()

	editor := rt.editor()
	defer editor.Close()

	products, err := editor.Create(rt.ctx(c), productForm(c), uploads)
	if err != nil {
		return failure(err)
	}

	fmt.Fprintln(rt.out, "Product created")
	printAdminPage(rt, editor, products)

	return nil
}

func adminUpdate(c *cli.Context) error {
	rt := fromContext(c)

	uploads, closeMedia, err := openMedia(c)
	if err != nil {
		return failure(err)
	}
	defer closeMedia()

	editor := rt.editor()
	defer editor.Close()

	products, err := editor.Update(rt.ctx(c), strings.TrimSpace(c.Args().First()), productForm(c), uploads)
	if err != nil {
		return failure(err)
	}

	fmt.Fprintln(rt.out, "Product updated")
	printAdminPage(rt, editor, products)

	return nil
}

func adminRequestDelete(c *cli.Context) error {
	rt := fromContext(c)

	editor := rt.editor()
	defer editor.Close()

	if err := editor.RequestDelete(c.Args().First()); err != nil {
		return failure(err)
	}

	fmt.Fprintf(rt.out, "Delete %s? Run `admin delete confirm` to delete it or `admin delete cancel` to keep it.\n", editor.PendingDelete())

	return nil
}

func adminConfirmDelete(c *cli.Context) error {
	rt := fromContext(c)

	editor := rt.editor()
	defer editor.Close()

	products, err := editor.ConfirmDelete(rt.ctx(c))
	if err != nil {
		return failure(err)
	}

	fmt.Fprintln(rt.out, "Product deleted")
	printAdminPage(rt, editor, products)

	return nil
}

func adminCancelDelete(c *cli.Context) error {
	rt := fromContext(c)

	editor := rt.editor()
	defer editor.Close()

	if err := editor.CancelDelete(); err != nil {
		return failure(err)
	}

	fmt.Fprintln(rt.out, "Delete cancelled")

	return nil
}
