package mailer_test

import (
	"github.com/jkaindl/fahrerportal/backend/internal/mailer"
	"github.com/jkaindl/fahrerportal/backend/internal/service"
)

// compile-time check: Mailer must satisfy service.Notifier.
var _ service.Notifier = (*mailer.Mailer)(nil)
