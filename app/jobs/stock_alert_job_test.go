package jobs_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dukaan/app/jobs"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
)

func TestTypeNameMatchesDispatchedType(t *testing.T) {
	assert.Equal(t, fmt.Sprintf("%T", &jobs.StockAlertJob{}), jobs.TypeName)
}

// A dispatched alert must round-trip the registry and reach Handle. SMTP is
// not configured under test, so a job that ran its handler lands in
// FailedJobs; a job the registry cannot resolve is dropped and never
// gets there.
func TestDispatchedAlertReachesHandler(t *testing.T) {
	jobs.RegisterAll()
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.StartWorkers(ctx, 1)

	err := queue.Dispatch(&jobs.StockAlertJob{
		NotificationID: 7,
		Recipient:      "manager@mainstreet.example",
		ProductName:    "Basmati Rice 5kg",
		OutletName:     "Main Street",
		Quantity:       4,
		Threshold:      10,
	})
	require.NoError(t, err)

	deadline := time.After(5 * time.Second)
	for {
		for _, f := range queue.FailedJobs() {
			if j, ok := f.Job.(*jobs.StockAlertJob); ok && j.NotificationID == 7 {
				assert.Equal(t, "manager@mainstreet.example", j.Recipient)
				assert.Equal(t, 4, j.Quantity)
				return
			}
		}
		select {
		case <-deadline:
			t.Fatal("alert job never reached its handler")
		case <-time.After(100 * time.Millisecond):
		}
	}
}
