package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// outputOptions controls how results are printed.
type outputOptions struct {
	Query string
}

func (o *outputOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.Query, "query", "", "JMESPath expression applied to the JSON output")
}

func (o outputOptions) validate() error {
	if strings.TrimSpace(o.Query) == "" {
		return nil
	}
	if _, err := jmespath.Compile(o.Query); err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}
	return nil
}

// printJSON writes v as indented JSON, filtered through the query when set.
func printJSON(w io.Writer, opts outputOptions, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	out := any(json.RawMessage(raw))
	if q := strings.TrimSpace(opts.Query); q != "" {
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("decode output: %w", err)
		}
		res, err := jmespath.Search(q, data)
		if err != nil {
			return fmt.Errorf("apply query: %w", err)
		}
		out = res
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", time.DateOnly}

// timeFlag parses RFC 3339 timestamps, local "YYYY-MM-DDTHH:MM", or bare dates.
type timeFlag struct {
	t *time.Time
}

func (f timeFlag) String() string {
	if f.t == nil || f.t.IsZero() {
		return ""
	}
	return f.t.Format(time.RFC3339)
}

func (f timeFlag) Set(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*f.t = t
			return nil
		}
	}
	return fmt.Errorf("invalid time %q (use RFC 3339 or YYYY-MM-DD[THH:MM])", s)
}
