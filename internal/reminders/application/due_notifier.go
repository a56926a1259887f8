package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/felixgeelhaar/dosewise/internal/reminders/domain"
	sharedDomain "github.com/felixgeelhaar/dosewise/internal/shared/domain"
)

// DueNotifier prints fired reminders. It is the delivery end of the local
// cron facility.
type DueNotifier struct {
	mu       sync.Mutex
	out      io.Writer
	location *time.Location
}

// NewDueNotifier writes one line per due reminder to out.
func NewDueNotifier(out io.Writer, loc *time.Location) *DueNotifier {
	if loc == nil {
		loc = time.Local
	}
	return &DueNotifier{out: out, location: loc}
}

func (n *DueNotifier) EventTypes() []string {
	return []string{domain.RoutingReminderDue}
}

func (n *DueNotifier) Handle(_ context.Context, event *sharedDomain.Envelope) error {
	var due domain.ReminderDue
	if err := json.Unmarshal(event.Payload, &due); err != nil {
		return fmt.Errorf("decode due reminder: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.out, "%s  %s: %s\n",
		due.TriggerAt.In(n.location).Format("2006-01-02 15:04"), due.Title, due.Body)
	return err
}
