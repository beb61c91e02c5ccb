package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
)

// TableFormatter prints a struct or map as aligned "KEY  VALUE" lines.
// Nested structs are flattened with dotted keys.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats data as a two-column table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	rows, err := flatten("", reflect.ValueOf(data))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !f.NoHeaders {
		fmt.Fprintln(tw, "KEY\tVALUE")
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

func flatten(prefix string, v reflect.Value) ([][2]string, error) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return [][2]string{{prefix, ""}}, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		var rows [][2]string
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := fieldName(field)
			if name == "-" {
				continue
			}
			sub, err := flatten(join(prefix, name), v.Field(i))
			if err != nil {
				return nil, err
			}
			rows = append(rows, sub...)
		}
		return rows, nil
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		var rows [][2]string
		for _, k := range keys {
			sub, err := flatten(join(prefix, fmt.Sprint(k.Interface())), v.MapIndex(k))
			if err != nil {
				return nil, err
			}
			rows = append(rows, sub...)
		}
		return rows, nil
	case reflect.Invalid:
		return [][2]string{{prefix, ""}}, nil
	default:
		if prefix == "" {
			return nil, fmt.Errorf("unsupported type: %s", v.Kind())
		}
		return [][2]string{{prefix, fmt.Sprint(v.Interface())}}, nil
	}
}

// fieldName returns the json name of field, or its Go name.
func fieldName(field reflect.StructField) string {
	if tag := field.Tag.Get("json"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	return field.Name
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
