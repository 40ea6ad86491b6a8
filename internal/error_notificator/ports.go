package error_notificator

import "context"

type Notificator interface {
	// Notify — pushes a provider failure to the admin chat
	Notify(ctx context.Context, source string, err error, details string) error
}
