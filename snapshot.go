package cardprices

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/cardprices/date"
	"gopkg.in/yaml.v3"
)

// Item is one observed card.
type Item struct {
	Name     string
	Quantity int
	Price    Price
}

// Snapshot is one batch of card prices produced by the scraper.
type Snapshot struct {
	ExtractedAt time.Time
	Total       int // as announced by the scraper, informational only.
	Items       []Item
}

// Day returns the calendar day of the extraction.
func (s *Snapshot) Day() date.Date { return date.Of(s.ExtractedAt) }

// Layout locates the snapshot fields in the decoded document, as JSONPath expressions.
//
// Items is evaluated on the document, Name, Quantity and Price on each item.
type Layout struct {
	ExtractedAt string
	Total       string // optional
	Items       string
	Name        string
	Quantity    string
	Price       string
}

// DefaultLayout is the layout written by the scraper:
//
//	{"extraction_date": "2024-01-10 14:03:00", "total_cards": 1,
//	 "cards": [{"quantity": "4", "name": "Bolt", "price": "1,50"}]}
var DefaultLayout = Layout{
	ExtractedAt: "$.extraction_date",
	Total:       "$.total_cards",
	Items:       "$.cards",
	Name:        "$.name",
	Quantity:    "$.quantity",
	Price:       "$.price",
}

// Format is the encoding of a snapshot file.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf returns the snapshot format for a filename, based on its extension.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// ReadSnapshot reads a snapshot file.
func ReadSnapshot(filename string, layout Layout) (*Snapshot, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %q: %w", ErrMalformedSnapshot, filename, err)
	}
	defer f.Close()

	s, err := DecodeSnapshot(f, FormatOf(filename), layout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// DecodeSnapshot decodes a snapshot document.
//
// Every error wraps ErrMalformedSnapshot.
func DecodeSnapshot(r io.Reader, format Format, layout Layout) (*Snapshot, error) {
	var doc any
	switch format {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: not a yaml document: %w", ErrMalformedSnapshot, err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: not a json document: %w", ErrMalformedSnapshot, err)
		}
	}

	s := new(Snapshot)

	jval, err := jsonpath.Get(layout.ExtractedAt, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: missing the extraction timestamp %q: %w", ErrMalformedSnapshot, layout.ExtractedAt, err)
	}
	switch v := jval.(type) {
	case string:
		if s.ExtractedAt, err = date.ParseTimestamp(strings.TrimSpace(v)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
		}
	case time.Time: // yaml decodes unquoted timestamps.
		s.ExtractedAt = v
	default:
		return nil, fmt.Errorf("%w: property %q must be of type 'string'", ErrMalformedSnapshot, layout.ExtractedAt)
	}

	if layout.Total != "" {
		if jval, err := jsonpath.Get(layout.Total, doc); err == nil {
			if s.Total, err = asInt(jval); err != nil {
				return nil, fmt.Errorf("%w: property %q: %w", ErrMalformedSnapshot, layout.Total, err)
			}
		}
	}

	jval, err = jsonpath.Get(layout.Items, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: missing the item list %q: %w", ErrMalformedSnapshot, layout.Items, err)
	}
	jlist, ok := jval.([]any)
	if !ok && jval != nil {
		return nil, fmt.Errorf("%w: property %q must be a list", ErrMalformedSnapshot, layout.Items)
	}

	s.Items = make([]Item, 0, len(jlist))
	for i, jitem := range jlist {
		item, err := decodeItem(jitem, layout)
		if err != nil {
			return nil, fmt.Errorf("%w: item #%d: %w", ErrMalformedSnapshot, i+1, err)
		}
		s.Items = append(s.Items, item)
	}
	return s, nil
}

func decodeItem(jitem any, layout Layout) (item Item, err error) {
	field := func(path string) (any, error) {
		v, err := jsonpath.Get(path, jitem)
		if err != nil {
			return nil, fmt.Errorf("missing property %q: %w", path, err)
		}
		return v, nil
	}

	jname, err := field(layout.Name)
	if err != nil {
		return Item{}, err
	}
	name, ok := jname.(string)
	if !ok {
		return Item{}, fmt.Errorf("property %q must be of type 'string'", layout.Name)
	}
	item.Name = strings.TrimSpace(name)
	if item.Name == "" {
		return Item{}, fmt.Errorf("property %q must not be empty", layout.Name)
	}

	jquantity, err := field(layout.Quantity)
	if err != nil {
		return Item{}, err
	}
	if item.Quantity, err = asInt(jquantity); err != nil {
		return Item{}, fmt.Errorf("%q: property %q: %w", item.Name, layout.Quantity, err)
	}
	if item.Quantity < 0 {
		return Item{}, fmt.Errorf("%q: property %q must not be negative", item.Name, layout.Quantity)
	}

	jprice, err := field(layout.Price)
	if err != nil {
		return Item{}, err
	}
	if item.Price, err = asPrice(jprice); err != nil {
		return Item{}, fmt.Errorf("%q: property %q: %w", item.Name, layout.Price, err)
	}
	return item, nil
}

var errNotInteger = errors.New("not an integer")

// asInt reads an integer emitted either as a number or as a string.
func asInt(v any) (int, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case json.Number:
		return strconv.Atoi(v.String())
	case float64:
		if v != math.Trunc(v) {
			return 0, errNotInteger
		}
		return int(v), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotInteger, v)
		}
		return i, nil
	default:
		return 0, errNotInteger
	}
}

// asPrice reads a price emitted either as a number or as a string.
func asPrice(v any) (Price, error) {
	switch v := v.(type) {
	case string:
		return ParsePrice(v)
	case json.Number:
		return ParsePrice(v.String())
	case float64:
		return P(v), nil
	case int:
		return P(v), nil
	default:
		return Price{}, fmt.Errorf("invalid price %v", v)
	}
}
