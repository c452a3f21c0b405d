package httpserver

import (
	"contactmanager/contact"
	"contactmanager/errs"
	"net/http"

	"github.com/labstack/echo/v4"
)

var errInvalidBody = errs.Errorf(errs.EINVALID, "invalid request body")

func (s *Server) RegisterContactRoutes(g *echo.Group) {
	g.GET("/contacts", s.handleListContacts)
	g.POST("/contacts", s.handleAddContact)
	g.GET("/contacts/count", s.handleCountContacts)
	g.GET("/contacts/:id", s.handleGetContact)
	g.PUT("/contacts/:id", s.handleUpdateContact)
	g.DELETE("/contacts/:id", s.handleDeleteContact)
}

func (s *Server) contactService() (contact.Service, error) {
	if s.ContactService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "contact service not configured")
	}
	return s.ContactService, nil
}

func (s *Server) handleListContacts(c echo.Context) error {
	svc, err := s.contactService()
	if err != nil {
		return err
	}

	contacts, err := svc.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, newContactResponses(contacts))
}

func (s *Server) handleCountContacts(c echo.Context) error {
	svc, err := s.contactService()
	if err != nil {
		return err
	}

	n, err := svc.CountContacts(c.Request().Context())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, map[string]int{"count": n})
}

func (s *Server) handleGetContact(c echo.Context) error {
	svc, err := s.contactService()
	if err != nil {
		return err
	}
	id, err := parseContactID(c.Param("id"))
	if err != nil {
		return err
	}

	found, err := svc.GetContact(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, newContactResponse(found))
}

func (s *Server) handleAddContact(c echo.Context) error {
	svc, err := s.contactService()
	if err != nil {
		return err
	}

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	created, err := svc.AddContact(c.Request().Context(), req.ToContact(0))
	if err != nil {
		return err
	}

	s.Logger.Infow("contact added", "id", created.ID, "request_id", requestID(c))
	return writeSuccessWithInfo(c, http.StatusCreated, newContactResponse(created), addedMessage(created))
}

func (s *Server) handleUpdateContact(c echo.Context) error {
	svc, err := s.contactService()
	if err != nil {
		return err
	}
	id, err := parseContactID(c.Param("id"))
	if err != nil {
		return err
	}

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	ctx := c.Request().Context()
	updated, err := svc.UpdateContact(ctx, req.ToContact(id))
	if err != nil {
		return err
	}
	if !updated {
		return contact.ErrContactNotFound
	}

	stored, err := svc.GetContact(ctx, id)
	if err != nil {
		return err
	}

	s.Logger.Infow("contact updated", "id", id, "request_id", requestID(c))
	return writeSuccessWithInfo(c, http.StatusOK, newContactResponse(stored), updatedMessage(stored))
}

func (s *Server) handleDeleteContact(c echo.Context) error {
	svc, err := s.contactService()
	if err != nil {
		return err
	}
	id, err := parseContactID(c.Param("id"))
	if err != nil {
		return err
	}

	removed, ok, err := svc.DeleteContact(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return contact.ErrContactNotFound
	}

	s.Logger.Infow("contact deleted", "id", id, "request_id", requestID(c))
	return writeSuccessWithInfo(c, http.StatusOK, newContactResponse(removed), deletedMessage(removed))
}
