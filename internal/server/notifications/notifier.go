// Package notifications defines the outbound notification contract consumed
// by the account service. Actual delivery (SMTP, provider APIs) belongs to
// the surrounding system; the default implementation only records that a
// message would have been sent, mirroring a deployment where mail is not
// configured.
package notifications

import (
	"context"

	"github.com/techclub/recruitd/internal/logging"
)

// Notifier delivers account-related messages to their owners.
type Notifier interface {
	// CredentialsIssued informs a newly created account of its temporary
	// password. Implementations must not persist the password.
	CredentialsIssued(ctx context.Context, email, name, password string) error
}

// LogNotifier is the no-delivery fallback. It never logs the password.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "notifications")}
}

func (n *LogNotifier) CredentialsIssued(ctx context.Context, email, name, _ string) error {
	n.logger.Info(ctx, "mail not configured, credentials notification skipped", "email", email)
	return nil
}
