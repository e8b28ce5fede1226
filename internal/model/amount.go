package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a contract value. Stored documents carry it either as a JSON
// number or as the string typed into the form, possibly empty.
type Amount float64

func (a Amount) Float64() float64 {
	return float64(a)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if data[0] != '"' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		*a = Amount(f)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("amount %q: not a number", raw)
	}
	*a = Amount(f)
	return nil
}
