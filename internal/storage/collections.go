package storage

// Logical collection names in the anzen database. Fixed by the existing
// store contents.
const (
	CollectionEvents   = "events"
	CollectionCommands = "commands"
	CollectionPlugins  = "plugins"
	CollectionDevices  = "devices"
	CollectionUsers    = "users"
)
