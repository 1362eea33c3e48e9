// Package progress writes mobyprogress updates as plain text lines.
package progress

import (
	"fmt"

	"github.com/pcj/mobyprogress"
)

// Update is a convenience function to write a progress update to the output.
func Update(out mobyprogress.Output, id, action string, current, total int64, units string) {
	out.WriteProgress(mobyprogress.Progress{
		ID:      id,
		Action:  action,
		Current: current,
		Total:   total,
		Units:   units,
	})
}

// Message is a convenience function to write a progress message to the
// output.
func Message(out mobyprogress.Output, id, message string) {
	out.WriteProgress(mobyprogress.Progress{ID: id, Message: message})
}

// Messagef is a convenience function to write a printf-formatted progress
// message to the output.
func Messagef(out mobyprogress.Output, id, format string, a ...interface{}) {
	Message(out, id, fmt.Sprintf(format, a...))
}

// Done writes the final update of an action.
func Done(out mobyprogress.Output, id, action string, total int64, units string) {
	out.WriteProgress(mobyprogress.Progress{
		ID:         id,
		Action:     action,
		Current:    total,
		Total:      total,
		Units:      units,
		LastUpdate: true,
	})
}
