package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

// healthCheck reports the server alive and, when a contact service is
// wired, whether its store answers.
func (s *Server) healthCheck(c echo.Context) error {
	status := map[string]string{"status": "OK"}
	if s.ContactService == nil {
		return writeSuccess(c, http.StatusOK, status)
	}

	if _, err := s.ContactService.CountContacts(c.Request().Context()); err != nil {
		s.Logger.Warnw("contact store unavailable", "error", err, "request_id", requestID(c))
		return c.JSON(http.StatusServiceUnavailable, APIResponse{
			Code:    errorCode(err, http.StatusServiceUnavailable),
			Message: "Service unavailable",
			Result:  map[string]string{"status": "UNAVAILABLE", "store": "unavailable"},
		})
	}

	status["store"] = "ok"
	return writeSuccess(c, http.StatusOK, status)
}
