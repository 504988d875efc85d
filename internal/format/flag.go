package format

import (
	"strings"

	"github.com/spf13/pflag"
)

// ListValue is a repeatable flag collecting formats. Each occurrence may also
// hold a comma separated list.
type ListValue struct {
	fs *[]Format
}

var _ pflag.SliceValue = (*ListValue)(nil)

// NewListValue returns a list flag value appending into fs.
func NewListValue(fs *[]Format) *ListValue { return &ListValue{fs: fs} }

func (l *ListValue) String() string {
	if l.fs == nil || len(*l.fs) == 0 {
		return "[]"
	}
	return "[" + strings.Join(l.GetSlice(), ",") + "]"
}

func (l *ListValue) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := Parse(part)
		if err != nil {
			return err
		}
		*l.fs = append(*l.fs, f)
	}
	return nil
}

func (l *ListValue) Type() string { return "formats" }

func (l *ListValue) Append(s string) error { return l.Set(s) }

func (l *ListValue) Replace(ss []string) error {
	*l.fs = (*l.fs)[:0]
	for _, s := range ss {
		if err := l.Set(s); err != nil {
			return err
		}
	}
	return nil
}

func (l *ListValue) GetSlice() []string {
	out := make([]string, 0, len(*l.fs))
	for _, f := range *l.fs {
		out = append(out, f.String())
	}
	return out
}
