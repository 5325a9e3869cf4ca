package export

import (
	"fmt"
	"strconv"
	"time"
)

// FormatValue renders a field value as text. NULL renders as nullValue.
func FormatValue(value any, nullValue string) string {
	switch v := value.(type) {
	case nil:
		return nullValue
	case string:
		return v
	case []byte:
		if v == nil {
			return nullValue
		}
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
