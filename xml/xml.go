// Package xml provides an XML codec implementation.
//
// Serialized output (map[string]any, []any and nil) is written as a plain
// element tree under a <resource> root:
//
//	<resource type="map">
//	  <id type="int">1</id>
//	  <posts type="list"><item type="map"><title>hi</title></item></posts>
//	  <owner nil="true"></owner>
//	</resource>
//
// Map keys that are not valid element names are written as
// <entry key="...">. Any other value is handed to encoding/xml.
package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/zoobzio/granola"
)

const (
	rootElement  = "resource"
	itemElement  = "item"
	entryElement = "entry"
)

// ErrNoRoot is returned when tree decoding finds no root element.
var ErrNoRoot = errors.New("xml: no root element")

// xmlCodec implements granola.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() granola.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	if !isTree(v) {
		return xml.Marshal(v)
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := encodeNode(enc, rootElement, v); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes XML data into v. Targets of type *any and
// *map[string]any are decoded as an element tree.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	switch target := v.(type) {
	case *any:
		node, err := decodeTree(data)
		if err != nil {
			return err
		}
		*target = node
		return nil
	case *map[string]any:
		node, err := decodeTree(data)
		if err != nil {
			return err
		}
		m, ok := node.(map[string]any)
		if !ok {
			return fmt.Errorf("xml: cannot decode %T into map", node)
		}
		*target = m
		return nil
	default:
		return xml.Unmarshal(data, v)
	}
}

func isTree(v any) bool {
	switch v.(type) {
	case nil, map[string]any, []any:
		return true
	default:
		return false
	}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func encodeNode(enc *xml.Encoder, name string, v any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if !validName(name) {
		start.Name.Local = entryElement
		start.Attr = append(start.Attr, attr("key", name))
	}

	var body func() error
	switch t := v.(type) {
	case nil:
		start.Attr = append(start.Attr, attr("nil", "true"))
	case map[string]any:
		start.Attr = append(start.Attr, attr("type", "map"))
		body = func() error {
			keys := lo.Keys(t)
			sort.Strings(keys)
			for _, k := range keys {
				if err := encodeNode(enc, k, t[k]); err != nil {
					return err
				}
			}
			return nil
		}
	case []any:
		start.Attr = append(start.Attr, attr("type", "list"))
		body = func() error {
			for _, item := range t {
				if err := encodeNode(enc, itemElement, item); err != nil {
					return err
				}
			}
			return nil
		}
	default:
		kind, text := scalarText(t)
		if kind != "" {
			start.Attr = append(start.Attr, attr("type", kind))
		}
		body = func() error {
			return enc.EncodeToken(xml.CharData(text))
		}
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if body != nil {
		if err := body(); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// scalarText returns the type annotation and text of a leaf value.
func scalarText(v any) (string, string) {
	switch t := v.(type) {
	case string:
		return "", t
	case bool:
		return "bool", strconv.FormatBool(t)
	case int, int8, int16, int32, int64:
		return "int", fmt.Sprint(t)
	case uint, uint8, uint16, uint32, uint64:
		return "uint", fmt.Sprint(t)
	case float32:
		return "float", strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return "float", strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return "", fmt.Sprint(t)
	}
}

// validName reports whether s can be used as an element name.
func validName(s string) bool {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "xml") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

func decodeTree(data []byte) (any, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, ErrNoRoot
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			_, v, err := decodeNode(dec, start)
			return v, err
		}
	}
}

// decodeNode reads the element opened by start and returns its key and value.
func decodeNode(dec *xml.Decoder, start xml.StartElement) (string, any, error) {
	key := start.Name.Local
	kind := ""
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "nil":
			if a.Value == "true" {
				kind = "nil"
			}
		case "type":
			if kind != "nil" {
				kind = a.Value
			}
		case "key":
			key = a.Value
		}
	}

	switch kind {
	case "nil":
		return key, nil, dec.Skip()
	case "map":
		m := make(map[string]any)
		for {
			tok, err := dec.Token()
			if err != nil {
				return key, nil, err
			}
			switch t := tok.(type) {
			case xml.StartElement:
				k, v, err := decodeNode(dec, t)
				if err != nil {
					return key, nil, err
				}
				m[k] = v
			case xml.EndElement:
				return key, m, nil
			}
		}
	case "list":
		list := []any{}
		for {
			tok, err := dec.Token()
			if err != nil {
				return key, nil, err
			}
			switch t := tok.(type) {
			case xml.StartElement:
				_, v, err := decodeNode(dec, t)
				if err != nil {
					return key, nil, err
				}
				list = append(list, v)
			case xml.EndElement:
				return key, list, nil
			}
		}
	default:
		var text strings.Builder
		for {
			tok, err := dec.Token()
			if err != nil {
				return key, nil, err
			}
			switch t := tok.(type) {
			case xml.CharData:
				text.Write(t)
			case xml.StartElement:
				if err := dec.Skip(); err != nil {
					return key, nil, err
				}
			case xml.EndElement:
				v, err := parseScalar(kind, text.String())
				return key, v, err
			}
		}
	}
}

func parseScalar(kind, text string) (any, error) {
	switch kind {
	case "bool":
		return strconv.ParseBool(text)
	case "int":
		return strconv.ParseInt(text, 10, 64)
	case "uint":
		return strconv.ParseUint(text, 10, 64)
	case "float":
		return strconv.ParseFloat(text, 64)
	default:
		return text, nil
	}
}
