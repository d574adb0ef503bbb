package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-authgate/middleware/tokenware"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

type AuthControllerRoutes struct {
	Login   string
	Logout  string
	Signup  string
	Status  string
	Profile string
}

type AuthController struct {
	Debug   bool
	Logger  Logger
	Repo    RepositoryManager
	Auther  Authenticator
	Cookies *CookieManager
	Limiter RateGovernor
	Routes  *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithRepository(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithCookieManager(cookies *CookieManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Cookies = cookies
		return c
	}
}

func WithRateGovernor(limiter RateGovernor) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Limiter = limiter
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:   "/login",
			Logout:  "/logout",
			Signup:  "/signup",
			Status:  "/status",
			Profile: "/profile",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Cookies == nil {
		panic("Missing CookieManager in auth controller...")
	}

	if c.Limiter == nil {
		c.Limiter = NewLoginRateLimiter(DefaultRateLimitCapacity, DefaultRateLimitWindow)
	}

	return c
}

// RegisterAuthRoutes mounts the JSON auth endpoints on the given router,
// usually an /api/auth group. Profile runs behind the full verification
// middleware; status performs its own verification because an invalid token
// there is an answer, not an error.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Signup, controller.SignupPost)
	app.Post(controller.Routes.Logout, controller.Logout)
	app.Get(controller.Routes.Status, controller.Status)
	app.Get(controller.Routes.Profile, controller.protected(), controller.Profile)
}

func (a *AuthController) protected() fiber.Handler {
	return tokenware.New(tokenware.Config{
		Reader: a.Cookies,
		Validator: tokenware.ValidatorFunc(func(raw string) (tokenware.Claims, error) {
			claims, err := a.Auther.SessionFromToken(raw)
			if err != nil {
				return nil, err
			}
			return claims, nil
		}),
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "unable to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.renderValidation(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	// the governor keys on the caller address, it must run before any
	// credential work so denied callers learn nothing about the account
	if !a.Limiter.TryConsume(ctx.IP()) {
		a.Logger.Warn("login rate limited for %s", ctx.IP())
		return a.renderError(ctx, ErrTooManyLoginAttempts)
	}

	token, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Info("login rejected: %v", err)
		return a.renderError(ctx, err)
	}

	claims, err := a.Auther.SessionFromToken(token)
	if err != nil {
		return a.renderError(ctx, err)
	}

	a.Cookies.Attach(ctx, token)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": claimsSummary(claims),
	})
}

// SignupRequest is the registration payload
type SignupRequest struct {
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
	DisplayName string `form:"display_name" json:"display_name"`
	Phone       string `form:"phone_number" json:"phone_number"`
}

// Validate will validate the payload
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.DisplayName, validation.Length(0, 200)),
	)
}

func (a *AuthController) SignupPost(ctx *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload: %v", err)
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "unable to parse request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.renderValidation(ctx, err)
	}

	if a.Repo == nil {
		return a.renderError(ctx, errors.New("registration is not configured", errors.CategoryInternal))
	}

	var created *User
	msg := RegisterUserMessage{
		Email:       payload.Email,
		Password:    payload.Password,
		DisplayName: payload.DisplayName,
		Phone:       payload.Phone,
		UseHashid:   true,
		OnResponse: func(u *User) {
			created = u
		},
	}

	handler := NewRegisterUserHandler(a.Repo)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Info("signup rejected: %v", err)
		return a.renderError(ctx, err)
	}

	token, err := a.Auther.TokenService().Generate(created.ID.String(), created.Email, created.DisplayName)
	if err != nil {
		return a.renderError(ctx, err)
	}

	a.Cookies.Attach(ctx, token)

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": created.Summary(),
	})
}

func (a *AuthController) Logout(ctx *fiber.Ctx) error {
	a.Cookies.Clear(ctx)
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok": true,
	})
}

// Status is the lightweight session probe. Invalid or absent tokens are an
// answer here, never an error.
func (a *AuthController) Status(ctx *fiber.Ctx) error {
	raw := a.Cookies.Read(ctx)
	if raw == "" {
		return ctx.JSON(fiber.Map{"authenticated": false})
	}

	claims, err := a.Auther.SessionFromToken(raw)
	if err != nil {
		return ctx.JSON(fiber.Map{"authenticated": false})
	}

	return ctx.JSON(fiber.Map{
		"authenticated": true,
		"user":          claimsSummary(claims),
	})
}

// Profile returns the identity summary from the record store. It only runs
// behind full verification, the claims in locals are trusted.
func (a *AuthController) Profile(ctx *fiber.Ctx) error {
	claims, ok := ctx.Locals(tokenware.DefaultContextKey).(*SessionClaims)
	if !ok || claims == nil {
		return a.renderError(ctx, ErrUnableToFindSession)
	}

	identity, err := a.Auther.IdentityFromClaims(ctx.Context(), claims)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"user": fiber.Map{
			"id":           identity.ID(),
			"email":        identity.Email(),
			"display_name": identity.DisplayName(),
		},
	})
}

func claimsSummary(claims *SessionClaims) fiber.Map {
	return fiber.Map{
		"id":           claims.UserID(),
		"email":        claims.Email,
		"display_name": claims.DisplayName,
	}
}

func (a *AuthController) renderValidation(ctx *fiber.Ctx, err error) error {
	if fields, ok := err.(validation.Errors); ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// renderError maps the error taxonomy onto HTTP statuses. Authentication
// failures stay generic on purpose: no response distinguishes an unknown
// email from a wrong password.
func (a *AuthController) renderError(ctx *fiber.Ctx, err error) error {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		rich = errors.Wrap(err, errors.CategoryInternal, "unexpected server error")
	}

	switch rich.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    rich.Message,
			"metadata": rich.Metadata,
		})
	case errors.CategoryAuth, errors.CategoryAuthz:
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": ErrMismatchedHashAndPassword.Message,
			"code":  TextCodeInvalidCreds,
		})
	case errors.CategoryRateLimit:
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": rich.Message,
			"code":  TextCodeTooManyAttempts,
		})
	case errors.CategoryConflict:
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": rich.Message,
		})
	case errors.CategoryNotFound:
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": rich.Message,
		})
	default:
		a.Logger.Error("auth controller server error: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "an unexpected server error occurred",
		})
	}
}
