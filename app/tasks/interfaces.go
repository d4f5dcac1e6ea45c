package tasks

// SchedulerInterface defines the refresh scheduling surface used by the
// main application and the HTTP API.
// Example usage:
//
//	scheduler := NewScheduler(store, client, channels)
//	scheduler.Start()
//	defer scheduler.Stop()
type SchedulerInterface interface {
	Start()
	Stop()
	TriggerRefresh() bool
	IsRefreshing() bool
}
