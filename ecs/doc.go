// Package ecs provides ECS adapters for pixlab's edit events.
//
// The primary adapter is [NewDonburiSink], which bridges pixlab edit events
// (applied, undone, redone, cleared, replaced) into a [Donburi] world as
// typed events. Subscribe to [EditEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	editor.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
