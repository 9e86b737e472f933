// Package ecs provides ECS adapters for pixlab.
package ecs

import (
	"github.com/phanxgames/pixlab"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EditEventType is the Donburi event type for pixlab edit events.
// Subscribe to this in your ECS systems to react to applied, undone and
// redone commands.
var EditEventType = events.NewEventType[pixlab.EditEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Edit events are published to EditEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) pixlab.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event pixlab.EditEvent) {
	EditEventType.Publish(s.world, event)
}
