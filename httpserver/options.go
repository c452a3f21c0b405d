package httpserver

import (
	"contactmanager/contact"
	"contactmanager/pkg/config"
	"errors"

	"go.uber.org/zap"
)

type Options func(s *Server) error

func WithConfig(cfg *config.Config) Options {
	return func(s *Server) error {
		if cfg == nil {
			return errors.New("httpserver: nil config")
		}
		s.Config = cfg
		return nil
	}
}

func WithLogger(l *zap.SugaredLogger) Options {
	return func(s *Server) error {
		if l == nil {
			return errors.New("httpserver: nil logger")
		}
		s.Logger = l
		return nil
	}
}

func WithContactService(svc contact.Service) Options {
	return func(s *Server) error {
		s.ContactService = svc
		return nil
	}
}
