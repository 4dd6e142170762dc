package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/brewcart/pkg/validate"
)

const schemaVersion = 1

var (
	errUnsupportedSchema = errors.New("unsupported cart schema version")
	errDuplicateLineID   = errors.New("duplicate line id")
)

// document is the persisted form of a cart.
type document struct {
	SchemaVersion int        `json:"schema_version"`
	ID            string     `json:"id" validate:"required"`
	OwnerID       string     `json:"ownerId"`
	Lines         []LineItem `json:"lines" validate:"dive"`
}

func encode(c Cart) (string, error) {
	doc := document{
		SchemaVersion: schemaVersion,
		ID:            c.ID,
		OwnerID:       c.OwnerID,
		Lines:         c.Lines,
	}
	if doc.Lines == nil {
		doc.Lines = []LineItem{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(raw), nil
}

// decode rejects any document whose shape, version or contents do not validate.
func decode(raw string) (Cart, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	if dec.More() {
		return Cart{}, errors.New("decode cart: trailing data")
	}
	if doc.SchemaVersion != schemaVersion {
		return Cart{}, fmt.Errorf("%w: %d", errUnsupportedSchema, doc.SchemaVersion)
	}
	if err := validate.Struct(doc); err != nil {
		return Cart{}, err
	}

	seen := make(map[string]struct{}, len(doc.Lines))
	for _, line := range doc.Lines {
		if _, dup := seen[line.ID]; dup {
			return Cart{}, fmt.Errorf("%w: %s", errDuplicateLineID, line.ID)
		}
		seen[line.ID] = struct{}{}
	}

	return Cart{ID: doc.ID, OwnerID: doc.OwnerID, Lines: doc.Lines}, nil
}
