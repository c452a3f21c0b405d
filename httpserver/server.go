package httpserver

import (
	"context"
	"contactmanager/contact"
	"contactmanager/errs"
	"contactmanager/pkg/config"
	"contactmanager/pkg/logger"
	"contactmanager/pkg/sentry"
	"fmt"
	"net/http"
	"strings"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	Config *config.Config
	Logger *zap.SugaredLogger

	ContactService contact.Service
}

func New(options ...Options) (*Server, error) {
	s := Server{
		Router: echo.New(),
		Addr:   ":8080",
		Config: config.Empty,
		Logger: logger.NOOPLogger,
	}

	for _, fn := range options {
		if err := fn(&s); err != nil {
			return nil, err
		}
	}

	if s.Config.Port != 0 {
		s.Addr = fmt.Sprintf(":%d", s.Config.Port)
	}
	if s.Config.AllowOrigins != "" {
		s.AllowOrigins = strings.Split(s.Config.AllowOrigins, ",")
	}

	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	s.Router.Renderer = renderer
	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = s.handleError

	s.RegisterGlobalMiddlewares()
	s.RegisterHealthRoutes()
	s.RegisterContactRoutes(s.Router.Group("/api"))
	s.RegisterPageRoutes(s.Router.Group(""))

	return &s, nil
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.Router.Use(s.requestLogger())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	if s.Config.RateLimit > 0 {
		s.Router.Use(middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStore(rate.Limit(s.Config.RateLimit)),
		))
	}

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				s.Logger.Warnw("request failed", append(fields, "error", v.Error)...)
				return nil
			}
			s.Logger.Infow("request", fields...)
			return nil
		},
	})
}

// handleError maps application errors to HTTP status codes. API routes get
// an APIResponse, page routes get the rendered error page.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			code = http.StatusBadRequest
			message = errs.ErrorMessage(err)
		case errs.ENOTFOUND:
			code = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			code = http.StatusConflict
			message = errs.ErrorMessage(err)
		case errs.EUNAUTHORIZED:
			code = http.StatusUnauthorized
			message = errs.ErrorMessage(err)
		case errs.ENOTIMPLEMENTED:
			code = http.StatusNotImplemented
			message = errs.ErrorMessage(err)
		}
	}

	// The request logger already handed this error over once.
	if c.Response().Committed {
		return
	}

	if code >= http.StatusInternalServerError {
		s.Logger.Errorw(err.Error(), "request_id", requestID(c))
		sentry.WithContext(c).Error(err)
	}

	if isAPIRequest(c) {
		err = writeError(c, code, message, err)
	} else {
		err = s.renderError(c, code, message)
	}
	if err != nil {
		s.Logger.Errorw("write error response", "error", err, "request_id", requestID(c))
	}
}

func isAPIRequest(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/api/") || path == "/api" || path == "/healthcheck"
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
