package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
)

// SendTestMessage sends a short message to verify the integration works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	msg := fmt.Sprintf("✅ jobwatch test notification (%s)", time.Now().Format(time.RFC1123))
	return n.Notify(ctx, msg)
}
