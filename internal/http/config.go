package http

// RouterConfig contains all dependencies needed to create the HTTP router.
// Optional dependencies disable their routes when nil.
type RouterConfig struct {
	// Core dependencies
	Database    Pinger
	Reader      Reader
	Bookmarks   BookmarkStore
	Preferences PreferenceStore

	// AI assistant and its stored key
	AI          AssistantProvider
	Credentials CredentialStore

	// AIRequestsPerMinute caps AI calls per client; zero disables the limit
	AIRequestsPerMinute int

	// Offline sync (optional)
	Offline         OfflineMonitor
	OfflineHistory  OfflineHistory
	ResumeScheduler ResumeScheduler

	// Task queue client (optional)
	TaskClient TaskQueue

	// Application info
	Version string
}
