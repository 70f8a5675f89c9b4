// Package models defines the document shapes stored in the anzen database
// and the result rows produced by the analytics queries.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// EventMetadata describes the source of a telemetry event.
type EventMetadata struct {
	Armed    bool          `bson:"armed" json:"armed"`
	PluginID bson.ObjectID `bson:"plugin_id" json:"plugin_id"`
	DeviceID bson.ObjectID `bson:"device_id" json:"device_id"`
}

// Event is a telemetry record written by the ingestion path. Events are
// never updated or deleted by this service.
type Event struct {
	ID        bson.ObjectID             `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time                 `bson:"timestamp" json:"timestamp"`
	Metadata  EventMetadata             `bson:"metadata" json:"metadata"`
	Data      map[string]TelemetryValue `bson:"data" json:"data"`
}

// CommandMetadata describes the plugin a command was issued through.
type CommandMetadata struct {
	PluginID bson.ObjectID `bson:"plugin_id" json:"plugin_id"`
}

// Command is an issued instruction record. Same lifecycle as Event.
type Command struct {
	ID        bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time       `bson:"timestamp" json:"timestamp"`
	Metadata  CommandMetadata `bson:"metadata" json:"metadata"`
	Command   string          `bson:"command" json:"command"`
}

// Plugin is a reference entity owned by the plugin registry.
type Plugin struct {
	ID   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string        `bson:"name" json:"name"`
	Type string        `bson:"type,omitempty" json:"type,omitempty"`
}

// Device is a reference entity owned by the device registry.
type Device struct {
	ID   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string        `bson:"name" json:"name"`
}
