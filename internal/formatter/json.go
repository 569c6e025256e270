package formatter

import (
	"io"

	"github.com/goccy/go-json"

	"raDB/internal/ra"
)

type jsonFormatter struct {
	w io.Writer
}

// relationDoc keeps attribute order in the output, which a plain map would
// not.
type relationDoc struct {
	Name       string            `json:"name"`
	Attributes []string          `json:"attributes"`
	Rows       []json.RawMessage `json:"rows"`
}

// Format writes one JSON document per relation, newline terminated.
func (f *jsonFormatter) Format(rel *ra.Relation) error {
	doc := relationDoc{
		Name:       rel.Name,
		Attributes: rel.Attributes(),
		Rows:       make([]json.RawMessage, 0, len(rel.Rows)),
	}

	for _, row := range rel.Rows {
		raw, err := encodeRow(rel.Columns, row)
		if err != nil {
			return err
		}
		doc.Rows = append(doc.Rows, raw)
	}

	enc := json.NewEncoder(f.w)
	return enc.Encode(doc)
}

// encodeRow renders {"attr": value, ...} in column order. Integers become
// JSON numbers.
func encodeRow(cols []ra.Column, row ra.Row) (json.RawMessage, error) {
	buf := []byte{'{'}
	for i, c := range cols {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')

		var val []byte
		if row[i].Type == ra.TypeInt {
			val, err = json.Marshal(row[i].I64)
		} else {
			val, err = json.Marshal(row[i].S)
		}
		if err != nil {
			return nil, err
		}
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}
