package main

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/shopapi"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v2"
)

// sessionID names the one session the terminal client keeps between runs.
const sessionID = "storefrontctl"

const runtimeKey = "runtime"

// runtime is what every command works with: the loaded config, the shop API
// client and the persisted session.
type runtime struct {
	cfg       *config.Config
	shop      *shopapi.Client
	store     session.Store
	sess      *models.Session
	logger    *slog.Logger
	validator *validator.Validate
	out       io.Writer

	loadedAt  time.Time
	discarded bool
}

func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "storefrontctl",
		Usage:     "browse the shop, manage your cart and check out from the terminal",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML config",
				EnvVars: []string{"CONFIG_PATH"},
				Value:   "./config/local.yaml",
			},
			&cli.StringFlag{
				Name:    "state-dir",
				Usage:   "directory holding the saved session (overrides session.STATE_DIR)",
				EnvVars: []string{"STOREFRONT_STATE_DIR"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log requests and view-model events to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			rt, err := openRuntime(c, errOut)
			if err != nil {
				return err
			}

			c.App.Metadata = map[string]any{runtimeKey: rt}

			return nil
		},
		After: func(c *cli.Context) error {
			rt, ok := c.App.Metadata[runtimeKey].(*runtime)
			if !ok {
				return nil
			}

			return rt.persist(c.Context)
		},
		Commands: commands(),
	}
}

func openRuntime(c *cli.Context, errOut io.Writer) (*runtime, error) {
	cfg, err := config.LoadConfigFromPath(c.String("config"))
	if err != nil {
		return nil, err
	}

	if dir := c.String("state-dir"); dir != "" {
		cfg.Session.StateDir = dir
	}

	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(errOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store, err := session.NewFileStore(cfg.Session.StateDir)
	if err != nil {
		return nil, err
	}

	sess, found, err := store.Get(c.Context, sessionID)
	if err != nil {
		logger.Warn("Saved session could not be read, starting over", slog.String("error", err.Error()))
	}

	if !found || sess == nil {
		sess = models.NewSession(sessionID)
	}

	return &runtime{
		cfg:       cfg,
		shop:      shopapi.New(&cfg.Upstream),
		store:     store,
		sess:      sess,
		logger:    logger,
		validator: validator.New(),
		out:       c.App.Writer,
		loadedAt:  sess.UpdatedAt,
	}, nil
}

func fromContext(c *cli.Context) *runtime {
	return c.App.Metadata[runtimeKey].(*runtime)
}

// ctx carries the runtime's logger the way request contexts do on the server.
func (rt *runtime) ctx(c *cli.Context) context.Context {
	return middleware.WithLogger(c.Context, rt.logger.With(slog.String("command", c.Command.FullName())))
}

// discard drops the saved session at the end of the run.
func (rt *runtime) discard() {
	rt.discarded = true
}

func (rt *runtime) persist(ctx context.Context) error {
	if rt.discarded {
		return rt.store.Delete(ctx, sessionID)
	}

	if rt.sess.UpdatedAt.Equal(rt.loadedAt) {
		return nil
	}

	ttl := rt.cfg.Session.TTL
	if !rt.sess.ExpiresAt.IsZero() {
		if ttl = time.Until(rt.sess.ExpiresAt); ttl <= 0 {
			return rt.store.Delete(ctx, sessionID)
		}
	}

	if err := rt.store.Save(ctx, rt.sess, ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// validate checks a request struct and turns field failures into one
// validation error.
func (rt *runtime) validate(dest any) error {
	if err := utils.ValidateStruct(rt.validator, dest); err != nil {
		if fieldErrs, ok := utils.AsValidationErrors(err); ok && len(fieldErrs) > 0 {
			return errors.AddValidationError(strings.ToLower(fieldErrs[0].Field()), fieldErrs[0].Tag()).WithError(err)
		}

		return errors.ValidationError("Invalid input data").WithError(err)
	}

	return nil
}

// failure renders err for the terminal: the user facing message and, when
// present, its detail.
func failure(err error) error {
	if appErr, ok := errors.IsAppError(err); ok {
		message := appErr.Message
		if appErr.Detail != "" {
			message += " (" + appErr.Detail + ")"
		}

		return stdErrors.New(message)
	}

	return err
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
