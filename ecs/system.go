package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query fields
// for accessing entities, as well as custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// Canceler is implemented by systems that hold resources outside storage
// (input subscriptions, playing sounds). Cancel must be safe to call on a
// system that was registered but never executed.
type Canceler interface {
	Cancel()
}
