package httpserver

import (
	"contactmanager/contact"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	csrfField       = "_csrf"
	csrfCookie      = "_csrf"
	contactsPageURL = "/contacts"
)

// pageData is the view model handed to every page template.
type pageData struct {
	Title     string
	Flash     string
	CSRF      string
	RequestID string

	Count    int
	Contacts []ContactResponse
	Contact  ContactResponse

	// contact form
	Action string
	Form   ContactRequest
	Errors contact.FieldErrors

	// error page
	Status  int
	Message string
}

func (s *Server) RegisterPageRoutes(g *echo.Group) {
	csrf := s.csrf()

	g.GET("/", s.handleHomePage, csrf)
	g.GET("/privacy", s.handlePrivacyPage, csrf)
	g.GET("/contacts", s.handleContactsPage, csrf)
	g.GET("/contacts/add", s.handleAddContactPage, csrf)
	g.POST("/contacts/add", s.handleAddContactForm, csrf)
	g.GET("/contacts/:id", s.handleContactDetailsPage, csrf)
	g.GET("/contacts/:id/edit", s.handleEditContactPage, csrf)
	g.POST("/contacts/:id/edit", s.handleEditContactForm, csrf)
	g.GET("/contacts/:id/delete", s.handleDeleteContactPage, csrf)
	g.POST("/contacts/:id/delete", s.handleDeleteContactForm, csrf)
}

func (s *Server) csrf() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:" + csrfField,
		CookieName:     csrfCookie,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) newPageData(c echo.Context, title string) pageData {
	data := basePageData(c, title)
	data.Flash = popFlash(c)
	return data
}

func basePageData(c echo.Context, title string) pageData {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return pageData{
		Title:     title,
		CSRF:      token,
		RequestID: requestID(c),
	}
}

// renderError leaves any pending flash message for the next page.
func (s *Server) renderError(c echo.Context, code int, message string) error {
	data := basePageData(c, http.StatusText(code))
	data.Status = code
	data.Message = message
	return c.Render(code, "error.html", data)
}

func (s *Server) handleHomePage(c echo.Context) error {
	svc, err := s.contactService()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	contacts, err := svc.ListContacts(ctx)
	if err != nil {
		return err
	}
	n, err := svc.CountContacts(ctx)
	if err != nil {
		return err
	}

	data := s.newPageData(c, "Home")
	data.Contacts = newContactResponses(contacts)
	data.Count = n
	return c.Render(http.StatusOK, "home.html", data)
}

func (s *Server) handlePrivacyPage(c echo.Context) error {
	return c.Render(http.StatusOK, "privacy.html", s.newPageData(c, "Privacy Policy"))
}

func (s *Server) handleContactsPage(c echo.Context) error {
	svc, err := s.contactService()
	if err != nil {
		return err
	}

	contacts, err := svc.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}

	data := s.newPageData(c, "Contacts")
	data.Contacts = newContactResponses(contacts)
	data.Count = len(contacts)
	return c.Render(http.StatusOK, "contacts.html", data)
}

func (s *Server) handleContactDetailsPage(c echo.Context) error {
	found, err := s.lookupContact(c)
	if err != nil {
		return err
	}

	data := s.newPageData(c, found.FullName())
	data.Contact = newContactResponse(found)
	return c.Render(http.StatusOK, "contact_details.html", data)
}

func (s *Server) handleAddContactPage(c echo.Context) error {
	data := s.newPageData(c, "Add Contact")
	data.Action = "/contacts/add"
	return c.Render(http.StatusOK, "contact_form.html", data)
}

func (s *Server) handleAddContactForm(c echo.Context) error {
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
		return s.renderFormError(c, err, "Add Contact", "/contacts/add", req)
	}

	s.Logger.Infow("contact added", "id", created.ID, "request_id", requestID(c))
	setFlash(c, addedMessage(created))
	return c.Redirect(http.StatusSeeOther, contactsPageURL)
}

func (s *Server) handleEditContactPage(c echo.Context) error {
	found, err := s.lookupContact(c)
	if err != nil {
		return err
	}

	data := s.newPageData(c, "Edit Contact")
	data.Action = editURL(found.ID)
	data.Contact = newContactResponse(found)
	data.Form = newContactRequest(found)
	return c.Render(http.StatusOK, "contact_form.html", data)
}

func (s *Server) handleEditContactForm(c echo.Context) error {
	found, err := s.lookupContact(c)
	if err != nil {
		return err
	}

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	ctx := c.Request().Context()
	updated, err := s.ContactService.UpdateContact(ctx, req.ToContact(found.ID))
	if err != nil {
		return s.renderFormError(c, err, "Edit Contact", editURL(found.ID), req)
	}
	if !updated {
		return contact.ErrContactNotFound
	}

	stored, err := s.ContactService.GetContact(ctx, found.ID)
	if err != nil {
		return err
	}

	s.Logger.Infow("contact updated", "id", stored.ID, "request_id", requestID(c))
	setFlash(c, updatedMessage(stored))
	return c.Redirect(http.StatusSeeOther, contactsPageURL)
}

func (s *Server) handleDeleteContactPage(c echo.Context) error {
	found, err := s.lookupContact(c)
	if err != nil {
		return err
	}

	data := s.newPageData(c, "Delete Contact")
	data.Action = deleteURL(found.ID)
	data.Contact = newContactResponse(found)
	return c.Render(http.StatusOK, "contact_delete.html", data)
}

// handleDeleteContactForm always lands on the contact list; the confirmation
// only appears when something was actually removed.
func (s *Server) handleDeleteContactForm(c echo.Context) error {
	svc, err := s.contactService()
	if err != nil {
		return err
	}

	id, err := parseContactID(c.Param("id"))
	if err != nil {
		return c.Redirect(http.StatusSeeOther, contactsPageURL)
	}

	removed, ok, err := svc.DeleteContact(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if ok {
		s.Logger.Infow("contact deleted", "id", id, "request_id", requestID(c))
		setFlash(c, deletedMessage(removed))
	}
	return c.Redirect(http.StatusSeeOther, contactsPageURL)
}

func (s *Server) lookupContact(c echo.Context) (contact.Contact, error) {
	svc, err := s.contactService()
	if err != nil {
		return contact.Contact{}, err
	}

	id, err := parseContactID(c.Param("id"))
	if err != nil {
		return contact.Contact{}, err
	}
	return svc.GetContact(c.Request().Context(), id)
}

// renderFormError re-renders the contact form with per-field messages when
// err is a validation failure and hands any other error to the error handler.
func (s *Server) renderFormError(c echo.Context, err error, title, action string, req ContactRequest) error {
	var verr *contact.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	data := s.newPageData(c, title)
	data.Action = action
	data.Form = req
	data.Errors = verr.Fields
	return c.Render(http.StatusUnprocessableEntity, "contact_form.html", data)
}

func editURL(id int) string {
	return fmt.Sprintf("/contacts/%d/edit", id)
}

func deleteURL(id int) string {
	return fmt.Sprintf("/contacts/%d/delete", id)
}
