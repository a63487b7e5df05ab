package alert

import (
	"context"
	"fmt"
	"strings"

	"github.com/factseeker/factseeker/internal/model"
)

// AlertSink receives notifications for content verified as misinformation.
// Delivery is fire-and-forget from the pipeline's perspective: failures are
// logged, never fatal to the cycle.
type AlertSink interface {
	// Name returns the sink name
	Name() string

	// Notify delivers one alert
	Notify(ctx context.Context, item model.ContentItem, result model.VerificationResult) error
}

// FormatAlert renders the alert message body
func FormatAlert(item model.ContentItem, result model.VerificationResult) string {
	var b strings.Builder
	b.WriteString("MISINFORMATION DETECTED\n")
	fmt.Fprintf(&b, "Original Content: %q\n", item.Text)
	if item.Source != "" {
		fmt.Fprintf(&b, "Source: %s", item.Source)
		if item.Author != "" {
			fmt.Fprintf(&b, " - %s", item.Author)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Fact-Check: %s\n", result.Explanation)
	fmt.Fprintf(&b, "Status: %s", result.Verdict)
	return b.String()
}
