package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sageflow/ptbrecover/internal/model"
)

// WriteJSON writes res as indented JSON. This is the format the reconcile
// command reads back.
func WriteJSON(w io.Writer, res *model.ParseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}

// ReadJSON decodes a result written by WriteJSON. A reviewed file may leave
// an account type blank but may not name an unknown one.
func ReadJSON(r io.Reader) (*model.ParseResult, error) {
	var res model.ParseResult
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	for i, a := range res.Accounts {
		if a.Type != "" && !a.Type.Valid() {
			return nil, fmt.Errorf("account %d (%s): unknown type %q", i+1, a.Number, a.Type)
		}
	}
	return &res, nil
}
