// Package schema defines the typed form schema shared by the introspector,
// the widget resolver and the invocation pipeline. A FormSchema is built once
// per callable registration and never mutated afterwards: renderers and
// concurrent invocations read it without synchronisation. Descriptors carry
// the closed TypeTag taxonomy plus constraints (enum choices, numeric bounds,
// defaults); WidgetSpec carries the resolved abstract input kind with the
// constraints a renderer needs to enforce up front.
package schema
