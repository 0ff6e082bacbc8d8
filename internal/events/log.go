package events

import "github.com/sirupsen/logrus"

// LogDispatcher writes each event as a structured log line.
type LogDispatcher struct {
	log logrus.FieldLogger
}

func NewLogDispatcher(log logrus.FieldLogger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(event Event) error {
	d.log.WithFields(logrus.Fields{
		"event":   event.Type(),
		"payload": event,
	}).Info("event")
	return nil
}
