package ports

import "context"

// Pusher delivers content into a user's chat via the external
// push-messaging API. Implementations do not retry; resend policy
// belongs to the caller.
type Pusher interface {
	// PushImage sends an image message. Both URLs must be HTTPS.
	PushImage(ctx context.Context, to, originalURL, previewURL string) error
	// PushText sends a plain text message.
	PushText(ctx context.Context, to, text string) error
}
