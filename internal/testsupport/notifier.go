package testsupport

import (
	"context"
	"time"
)

// NopNotifier satisfies the notifications surface without sending anything.
type NopNotifier struct{}

func (NopNotifier) NotifyProcessOffline(context.Context, string) error                  { return nil }
func (NopNotifier) NotifyProcessRestarted(context.Context, string, time.Duration) error { return nil }
func (NopNotifier) NotifyRestartFailed(context.Context, string, string) error           { return nil }
func (NopNotifier) NotifyProcessRecovered(context.Context, string) error                { return nil }
func (NopNotifier) NotifyMemoryAlert(context.Context, string, float64, float64) error   { return nil }
func (NopNotifier) NotifyError(context.Context, error, string) error                    { return nil }
func (NopNotifier) TestNotification(context.Context) error                              { return nil }
