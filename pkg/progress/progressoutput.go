package progress

import (
	"io"
	"sync"

	"github.com/pcj/mobyprogress"
)

// NewProgressOutput returns an Output that writes raw progress lines to out.
func NewProgressOutput(out io.Writer) mobyprogress.Output {
	return &progressOutput{sf: &rawProgressFormatter{}, out: out, newLines: true}
}

type progressOutput struct {
	mu       sync.Mutex
	sf       *rawProgressFormatter
	out      io.Writer
	newLines bool
}

// WriteProgress formats progress information from a ProgressReader.
func (out *progressOutput) WriteProgress(prog mobyprogress.Progress) error {
	out.mu.Lock()
	defer out.mu.Unlock()

	var formatted []byte
	if prog.Message != "" {
		formatted = out.sf.formatStatus(prog.ID, prog.Message)
	} else {
		formatted = out.sf.formatProgress(prog.ID, prog.Action, counts{current: prog.Current, total: prog.Total, units: prog.Units})
	}
	_, err := out.out.Write(formatted)
	if err != nil {
		return err
	}

	if out.newLines && prog.LastUpdate {
		_, err = out.out.Write(out.sf.formatStatus("", ""))
		return err
	}

	return nil
}
