package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"edfconv/internal/example"
	"edfconv/internal/services"
	"edfconv/internal/tfrecord"
)

type featureView struct {
	Key       string `json:"key" yaml:"key" msgpack:"key"`
	Type      string `json:"type" yaml:"type" msgpack:"type"`
	Count     int    `json:"count" yaml:"count" msgpack:"count"`
	Values    []any  `json:"values" yaml:"values" msgpack:"values"`
	Truncated bool   `json:"truncated,omitempty" yaml:"truncated,omitempty" msgpack:"truncated,omitempty"`
}

type recordView struct {
	Index    int           `json:"index" yaml:"index" msgpack:"index"`
	Bytes    int           `json:"bytes" yaml:"bytes" msgpack:"bytes"`
	Features []featureView `json:"features" yaml:"features" msgpack:"features"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var format string
	var samples int

	cmd := &cobra.Command{
		Use:   "inspect <file.tfrecord>",
		Short: "Verify and print the tf.Example records in a TFRecord file",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return services.Wrap(services.ErrArgument, "inspect", "parse", "", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples < 0 {
				return services.Wrap(services.ErrArgument, "inspect", "parse", "--samples must not be negative", nil)
			}
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case "table", "json", "yaml", "msgpack":
			default:
				return services.Wrap(services.ErrArgument, "inspect", "parse", fmt.Sprintf("unsupported format %q (want table, json, yaml or msgpack)", format), nil)
			}

			views, err := readRecordViews(args[0], samples)
			if err != nil {
				return err
			}
			return writeViews(cmd.OutOrStdout(), format, views)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, yaml or msgpack")
	cmd.Flags().IntVar(&samples, "samples", 8, "Maximum values shown per feature (0 for all)")
	return cmd
}

func readRecordViews(path string, limit int) ([]recordView, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrLoad, "inspect", "open", path, err)
	}
	defer f.Close()

	records, err := tfrecord.ReadAll(f)
	if err != nil {
		return nil, services.Wrap(services.ErrLoad, "inspect", "read records", path, err)
	}
	views := make([]recordView, 0, len(records))
	for i, record := range records {
		ex, err := example.Unmarshal(record)
		if err != nil {
			return nil, services.Wrap(services.ErrLoad, "inspect", "decode example", fmt.Sprintf("record %d", i), err)
		}
		views = append(views, recordView{Index: i, Bytes: len(record), Features: featureViews(ex, limit)})
	}
	return views, nil
}

func featureViews(ex *example.Example, limit int) []featureView {
	keys := ex.Keys()
	out := make([]featureView, 0, len(keys))
	for _, key := range keys {
		f, _ := ex.Get(key)
		n := f.Len()
		shown := n
		if limit > 0 && shown > limit {
			shown = limit
		}
		values := make([]any, 0, shown)
		for i := 0; i < shown; i++ {
			switch f.Kind {
			case example.KindBytes:
				values = append(values, string(f.Bytes[i]))
			case example.KindFloat:
				values = append(values, f.Floats[i])
			case example.KindInt64:
				values = append(values, f.Int64s[i])
			}
		}
		out = append(out, featureView{
			Key:       key,
			Type:      f.Kind.String(),
			Count:     n,
			Values:    values,
			Truncated: shown < n,
		})
	}
	return out
}

func writeViews(w io.Writer, format string, views []recordView) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(views)
	default:
		return writeTable(w, views)
	}
}

func writeTable(w io.Writer, views []recordView) error {
	colorize := shouldColorize(w)
	for _, view := range views {
		rows := make([][]string, 0, len(view.Features))
		for _, f := range view.Features {
			rows = append(rows, []string{f.Key, f.Type, strconv.Itoa(f.Count), formatValues(f)})
		}
		fmt.Fprintf(w, "Record %d (%d bytes, %d features)\n", view.Index, view.Bytes, len(view.Features))
		fmt.Fprintln(w, renderTable(
			[]string{"Feature", "Type", "Count", "Values"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			colorize,
		))
	}
	if len(views) == 0 {
		fmt.Fprintln(w, "No records")
	}
	return nil
}

func formatValues(f featureView) string {
	parts := make([]string, 0, len(f.Values))
	for _, v := range f.Values {
		switch value := v.(type) {
		case string:
			parts = append(parts, strconv.Quote(truncate(value, 40)))
		case float32:
			parts = append(parts, strconv.FormatFloat(float64(value), 'g', -1, 32))
		default:
			parts = append(parts, fmt.Sprint(value))
		}
	}
	out := strings.Join(parts, ", ")
	if f.Truncated {
		out += ", …"
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
