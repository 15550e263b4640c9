package main

import (
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"github.com/urfave/cli/v2"
)

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "sign in to the shop",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", EnvVars: []string{"STOREFRONT_PASSWORD"}, Required: true},
			},
			Action: login,
		},
		{
			Name:   "logout",
			Usage:  "sign out and forget the saved session",
			Action: logout,
		},
		{
			Name:   "whoami",
			Usage:  "show the signed in account",
			Action: whoami,
		},
		{
			Name:  "register",
			Usage: "create an account",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "first-name", Required: true},
				&cli.StringFlag{Name: "last-name", Required: true},
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", EnvVars: []string{"STOREFRONT_PASSWORD"}, Required: true},
			},
			Action: register,
		},
		{
			Name:   "home",
			Usage:  "best-selling and latest products",
			Action: home,
		},
		{
			Name:  "products",
			Usage: "browse the collection",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "category", Aliases: []string{"c"}, Usage: "only show these categories (repeatable)"},
				&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "title contains"},
				&cli.StringFlag{Name: "sort", Usage: "price order: asc or desc"},
			},
			Action: products,
		},
		{
			Name:      "product",
			Usage:     "show one product",
			ArgsUsage: "ID",
			Action:    product,
		},
		{
			Name:      "add",
			Usage:     "add a product to the cart, one line per color",
			ArgsUsage: "ID",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "size", Required: true},
				&cli.StringSliceFlag{Name: "color", Required: true, Usage: "repeatable"},
			},
			Action: addToCart,
		},
		{
			Name:   "cart",
			Usage:  "reload and show the cart",
			Action: showCart,
		},
		{
			Name:      "set-qty",
			Usage:     "change the quantity of a cart line",
			ArgsUsage: "ID QUANTITY",
			Flags:     lineFlags(),
			Action:    setQuantity,
		},
		{
			Name:      "remove",
			Usage:     "remove a cart line",
			ArgsUsage: "ID",
			Flags:     lineFlags(),
			Action:    removeLine,
		},
		{
			Name:   "checkout",
			Usage:  "start payment for the cart and print the payment page URL",
			Action: checkout,
		},
		{
			Name:  "result",
			Usage: "show the outcome of a payment",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "session-id", Usage: "checkout session id from the return URL"},
				&cli.StringFlag{Name: "status", Usage: "bare status from the return URL (success or cancel)"},
			},
			Action: result,
		},
		adminCommand(),
	}
}

func lineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "size"},
		&cli.StringFlag{Name: "color"},
	}
}

func lineKey(c *cli.Context) (models.LineKey, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return models.LineKey{}, errors.BadRequestError("Product ID is required")
	}

	return models.LineKey{ProductID: id, Size: c.String("size"), Color: c.String("color")}, nil
}

func (rt *runtime) auth() *service.AuthService {
	return service.NewAuthService(rt.shop, nil)
}

func (rt *runtime) cart() *service.CartViewModel {
	return service.NewCartViewModel(rt.shop, rt.sess, service.CartOptions{KeepServerQuantity: rt.cfg.Cart.KeepServerQuantity})
}

func login(c *cli.Context) error {
	rt := fromContext(c)
	ctx := rt.ctx(c)

	req := &models.LoginRequest{Email: c.String("email"), Password: c.String("password")}
	if err := rt.validate(req); err != nil {
		return failure(err)
	}

	auth := rt.auth()
	if err := auth.Login(ctx, rt.sess, req); err != nil {
		return failure(err)
	}

	printUser(rt.out, rt.sess, auth.CurrentUser(ctx, rt.sess))

	return nil
}

func logout(c *cli.Context) error {
	rt := fromContext(c)

	rt.auth().Logout(rt.ctx(c), rt.sess)
	rt.discard()

	fmt.Fprintln(rt.out, "Logged out")

	return nil
}

func whoami(c *cli.Context) error {
	rt := fromContext(c)

	if !rt.sess.IsAuthenticated() {
		fmt.Fprintln(rt.out, "Not logged in")
		return nil
	}

	printUser(rt.out, rt.sess, rt.auth().CurrentUser(rt.ctx(c), rt.sess))

	return nil
}

func register(c *cli.Context) error {
	rt := fromContext(c)

	req := &models.RegisterRequest{
		FirstName: c.String("first-name"),
		LastName:  c.String("last-name"),
		Email:     c.String("email"),
		Password:  c.String("password"),
	}
	if err := rt.validate(req); err != nil {
		return failure(err)
	}

	if err := rt.auth().Register(rt.ctx(c), req); err != nil {
		return failure(err)
	}

	fmt.Fprintln(rt.out, "Registration successful. You can now log in.")

	return nil
}

func home(c *cli.Context) error {
	rt := fromContext(c)

	page := service.NewHomeService(rt.shop).Page(rt.ctx(c))

	fmt.Fprintln(rt.out, "Best selling")
	printProducts(rt.out, page.BestSelling)
	fmt.Fprintln(rt.out, "\nLatest")
	printProducts(rt.out, page.Latest)

	return nil
}

func products(c *cli.Context) error {
	rt := fromContext(c)

	view := service.NewCatalogView(rt.shop)
	defer view.Close()

	if err := view.Load(rt.ctx(c)); err != nil {
		return failure(err)
	}

	view.SetFilter(c.StringSlice("category"), c.String("search"))
	view.SetSort(service.ParseSortOrder(c.String("sort")))

	page := view.Page()
	fmt.Fprintf(rt.out, "Categories: %s\n\n", strings.Join(page.Categories, ", "))

	if page.Empty {
		fmt.Fprintln(rt.out, page.Message)
		return nil
	}

	printProducts(rt.out, page.Products)

	return nil
}

func product(c *cli.Context) error {
	rt := fromContext(c)

	p, err := service.NewProductService(rt.shop).GetProduct(rt.ctx(c), strings.TrimSpace(c.Args().First()))
	if err != nil {
		return failure(err)
	}

	printProduct(rt.out, p)

	return nil
}

func addToCart(c *cli.Context) error {
	rt := fromContext(c)
	ctx := rt.ctx(c)

	p, err := service.NewProductService(rt.shop).FetchProduct(ctx, strings.TrimSpace(c.Args().First()))
	if err != nil {
		return failure(err)
	}

	if err := rt.cart().AddToCart(ctx, p, c.String("size"), c.StringSlice("color")); err != nil {
		return failure(err)
	}

	fmt.Fprintln(rt.out, "Product added to the cart")

	return nil
}

func showCart(c *cli.Context) error {
	rt := fromContext(c)

	vm := rt.cart()
	defer vm.Close()

	cart, err := vm.Load(rt.ctx(c))
	if err != nil {
		return failure(err)
	}

	printCart(rt.out, cart)

	return nil
}

func setQuantity(c *cli.Context) error {
	rt := fromContext(c)

	key, err := lineKey(c)
	if err != nil {
		return failure(err)
	}

	cart, err := rt.cart().SetQuantity(rt.ctx(c), key, c.Args().Get(1))
	if err != nil {
		return failure(err)
	}

	printCart(rt.out, cart)

	return nil
}

func removeLine(c *cli.Context) error {
	rt := fromContext(c)

	key, err := lineKey(c)
	if err != nil {
		return failure(err)
	}

	cart, err := rt.cart().RemoveLine(rt.ctx(c), key)
	if err != nil {
		return failure(err)
	}

	printCart(rt.out, cart)

	return nil
}

func checkout(c *cli.Context) error {
	rt := fromContext(c)

	url, err := rt.cart().Checkout(rt.ctx(c))
	if err != nil {
		return failure(err)
	}

	fmt.Fprintf(rt.out, "Continue to payment: %s\n", url)

	return nil
}

func result(c *cli.Context) error {
	rt := fromContext(c)

	var checker service.PaymentAPI = rt.shop
	if rt.cfg.Stripe.VerifyDirect && rt.cfg.Stripe.APIKey != "" {
		checker = stripe.NewClient(rt.cfg.Stripe.APIKey)
	}

	resolver := service.NewCheckoutResolver(checker, rt.cfg.Checkout.ResultDismissAfter)
	res := resolver.Resolve(rt.ctx(c), rt.sess, service.ResultQuery{
		SessionID: c.String("session-id"),
		Status:    c.String("status"),
	})

	fmt.Fprintln(rt.out, res.Message)

	if !res.Success {
		return fmt.Errorf("payment %s", res.Outcome)
	}

	return nil
}
