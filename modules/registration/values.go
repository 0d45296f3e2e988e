package registration

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// formValues holds submitted values. In JSON each field may be a string, a
// number, a boolean or an array of those (checkbox groups).
type formValues url.Values

func (v *formValues) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(formValues, len(raw))
	for field, value := range raw {
		switch val := value.(type) {
		case nil:
		case []any:
			for _, item := range val {
				s, err := scalar(item)
				if err != nil {
					return fmt.Errorf("field %s: %w", field, err)
				}
				out[field] = append(out[field], s)
			}
		default:
			s, err := scalar(val)
			if err != nil {
				return fmt.Errorf("field %s: %w", field, err)
			}
			out[field] = []string{s}
		}
	}
	*v = out
	return nil
}

func scalar(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported value %T", v)
}
