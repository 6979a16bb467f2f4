package capital

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// trackerID tolerates the tracker's mixed id encoding: numeric in listing
// payloads, string in some detail payloads.
type trackerID string

func (t *trackerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = trackerID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Integer ids must not pick up an exponent form.
	if i, err := n.Int64(); err == nil {
		*t = trackerID(strconv.FormatInt(i, 10))
		return nil
	}
	*t = trackerID(n.String())
	return nil
}
