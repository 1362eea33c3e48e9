package progress

import "fmt"

const streamNewline = "\r\n"

// counts is the numeric part of a progress update.
type counts struct {
	current int64
	total   int64
	units   string
}

func (c counts) String() string {
	if c.current <= 0 && c.total <= 0 {
		return ""
	}
	var s string
	if c.total > 0 {
		s = fmt.Sprintf("%d/%d", c.current, c.total)
	} else {
		s = fmt.Sprintf("%d", c.current)
	}
	if c.units != "" {
		s += " " + c.units
	}
	return s
}

type rawProgressFormatter struct{}

func (sf *rawProgressFormatter) formatStatus(id, status string) []byte {
	return []byte(status + streamNewline)
}

func (sf *rawProgressFormatter) formatProgress(id, action string, progress counts) []byte {
	endl := "\r"
	if progress.String() == "" {
		endl += "\n"
	}
	return []byte(action + " " + progress.String() + endl)
}
