package app

import (
	"fmt"

	"github.com/hmax-erp/reserva-online-go/internal/config"
	"github.com/hmax-erp/reserva-online-go/internal/logger"
	"github.com/hmax-erp/reserva-online-go/pkg/reservaonline"
)

// NewReservaClient builds the hub client described by cfg.
func NewReservaClient(cfg *config.Config, log logger.Logger) (*reservaonline.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	dialect, err := reservaonline.LookupDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	client, err := reservaonline.New(reservaonline.Config{
		Token:    cfg.Token,
		User:     cfg.User,
		Password: cfg.Password,
		Dialect:  dialect,
		Test:     cfg.Test,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.RequestTimeout,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("build reserva-online client: %w", err)
	}
	return client, nil
}
