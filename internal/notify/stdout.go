package notify

import (
	"context"
	"fmt"
	"io"
)

// StdoutPublisher writes the notification to a writer instead of a channel.
// Used by the CLI dry-run mode.
type StdoutPublisher struct {
	Out io.Writer
}

// Publish writes the subject and body to Out.
func (p StdoutPublisher) Publish(_ context.Context, msg Message) (Receipt, error) {
	fmt.Fprintf(p.Out, "Subject: %s\n\n%s\n", msg.Subject, msg.Body)
	return Receipt{MessageID: "dry-run"}, nil
}
