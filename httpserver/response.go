package httpserver

import (
	"contactmanager/contact"
	"contactmanager/errs"
	"errors"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	successMessage   = "OK"
	defaultErrorCode = "100500"
)

type APIResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Result  interface{}       `json:"result,omitempty"`
	Info    string            `json:"info,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type ContactResponse struct {
	ID           int    `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Organization string `json:"organization,omitempty"`
}

func newContactResponse(c contact.Contact) ContactResponse {
	return ContactResponse{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		FullName:     c.FullName(),
		Phone:        c.Phone,
		Email:        c.Email,
		Organization: c.Organization,
	}
}

func newContactResponses(contacts []contact.Contact) []ContactResponse {
	res := make([]ContactResponse, len(contacts))
	for i, c := range contacts {
		res[i] = newContactResponse(c)
	}
	return res
}

func writeSuccess(c echo.Context, status int, result interface{}) error {
	return writeSuccessWithInfo(c, status, result, "")
}

func writeSuccessWithInfo(c echo.Context, status int, result interface{}, info string) error {
	return c.JSON(status, APIResponse{
		Code:    strconv.Itoa(status),
		Message: successMessage,
		Result:  result,
		Info:    info,
	})
}

func writeList(c echo.Context, status int, data interface{}) error {
	return writeSuccess(c, status, map[string]interface{}{
		"data": data,
	})
}

func writeError(c echo.Context, status int, message string, err error) error {
	resp := APIResponse{
		Code:    errorCode(err, status),
		Message: message,
	}

	var verr *contact.ValidationError
	if errors.As(err, &verr) {
		resp.Message = "validation error"
		resp.Errors = verr.Fields
	}

	return c.JSON(status, resp)
}

func errorCode(err error, status int) string {
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case errs.EINVALID:
			return "100010"
		case errs.ENOTFOUND:
			return "100404"
		case errs.ECONFLICT:
			return "100409"
		case errs.EUNAUTHORIZED:
			return "100401"
		case errs.ENOTIMPLEMENTED:
			return "100501"
		case errs.EINTERNAL:
			return defaultErrorCode
		}
	}

	if status != 0 {
		return fmt.Sprintf("100%03d", status)
	}
	return defaultErrorCode
}

func addedMessage(c contact.Contact) string {
	return fmt.Sprintf("Contact '%s' was successfully added.", c.FullName())
}

func updatedMessage(c contact.Contact) string {
	return fmt.Sprintf("Contact '%s' was successfully updated.", c.FullName())
}

func deletedMessage(c contact.Contact) string {
	return fmt.Sprintf("Contact '%s' was successfully deleted.", c.FullName())
}
