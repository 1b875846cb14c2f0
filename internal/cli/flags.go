package cli

import (
	"time"

	"github.com/alexanderramin/taskflow/internal/importer"
	"github.com/spf13/pflag"
)

var _ pflag.Value = (*timeFlag)(nil)

// timeFlag is a pflag.Value holding an optional point in time. Values
// without a zone are read in loc.
type timeFlag struct {
	t   *time.Time
	loc func() *time.Location
}

func (f *timeFlag) String() string {
	if f.t == nil {
		return ""
	}
	return f.t.Format(time.RFC3339)
}

func (f *timeFlag) Set(s string) error {
	t, err := importer.ParseDue(s, f.loc())
	if err != nil {
		return err
	}
	f.t = &t
	return nil
}

func (f *timeFlag) Type() string { return "time" }

func (f *timeFlag) Value() *time.Time { return f.t }
