package notify

import "log"

// Sink is the capability the controller uses to surface transient messages
// and renderer hints. Rendering itself is out of scope; implementations only
// transport the events.
type Sink interface {
	Success(message string)
	Error(message string)
	// FieldError marks a specific input as the cause of a validation failure.
	FieldError(message, field string)
	// Navigate asks the renderer to move to another view.
	Navigate(path string)
	// State publishes a state-change event for renderer subscriptions.
	State(event string, data interface{})
}

// LogSink writes every event to the process log. It is the default sink when
// no renderer is connected.
type LogSink struct{}

func (LogSink) Success(message string) {
	log.Println("notify:", message)
}

func (LogSink) Error(message string) {
	log.Println("notify error:", message)
}

func (LogSink) FieldError(message, field string) {
	log.Printf("notify error: %s (field %s)", message, field)
}

func (LogSink) Navigate(path string) {
	log.Println("notify navigate:", path)
}

func (LogSink) State(event string, data interface{}) {
	log.Println("notify state:", event)
}
