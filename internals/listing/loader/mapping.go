package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/listing/pipeline"
	"schooladmin_backend/internals/listing/record"
)

const DefaultLayout = "01/02/2006"

// InvalidDate is shown for raw values that do not read as a date.
const InvalidDate = "Invalid Date"

type dater interface {
	ToDate() time.Time
}

// truthy mirrors how the stored documents were written: empty strings,
// zero numbers, false and null all count as absent.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

// Resolve returns the first present value along keys.
func Resolve(data map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := data[k]; ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// FormatTimestamp renders a stored date in layout. The second result is
// false when the value was absent and now was used.
func FormatTimestamp(v any, now time.Time, layout string) (string, bool) {
	if layout == "" {
		layout = DefaultLayout
	}
	switch x := v.(type) {
	case nil:
		return now.Format(layout), false
	case docstore.Timestamp:
		return x.Time.Format(layout), true
	case *docstore.Timestamp:
		if x == nil {
			return now.Format(layout), false
		}
		return x.Time.Format(layout), true
	case dater:
		return x.ToDate().Format(layout), true
	case time.Time:
		return x.Format(layout), true
	case float64:
		return time.UnixMilli(int64(x)).Format(layout), true
	case int64:
		return time.UnixMilli(x).Format(layout), true
	case int:
		return time.UnixMilli(int64(x)).Format(layout), true
	case string:
		if strings.TrimSpace(x) == "" {
			return now.Format(layout), false
		}
		t := pipeline.ParseDate(x, nil)
		if t.Unix() == 0 {
			return InvalidDate, true
		}
		return t.Format(layout), true
	default:
		return InvalidDate, true
	}
}

// Decode maps a stored document onto T through the kind's field table.
func Decode[T any](kind *record.Kind[T], doc docstore.Document, now time.Time, layout string) T {
	var rec T
	kind.SetID(&rec, doc.ID)
	for _, f := range kind.Fields {
		raw, ok := Resolve(doc.Data, f.Keys)
		if !ok && f.FallbackTo != "" {
			if fb, found := kind.Field(f.FallbackTo); found {
				f.Set(&rec, fb.Get(&rec))
				continue
			}
		}
		if f.Timestamp {
			s, _ := FormatTimestamp(raw, now, layout)
			f.Set(&rec, s)
			continue
		}
		if !ok {
			f.Set(&rec, f.Default)
			continue
		}
		f.Set(&rec, toString(raw))
	}
	return rec
}
