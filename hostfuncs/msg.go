package hostfuncs

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// MsgNode is one element of a structured message parsed from XML: tag name,
// attributes, concatenated character data and child elements, in document
// order.
type MsgNode struct {
	Name     string            `json:"name"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*MsgNode        `json:"children,omitempty"`
}

// XMLRequest carries an XML document.
type XMLRequest struct {
	XML string `json:"xml"`
}

// XMLResponse carries the parsed root element.
type XMLResponse struct {
	Root *MsgNode `json:"root"`
}

// MessageBundle returns the structured-message helper table: msg_from_xml.
// Plugins use it to turn feed payloads into plain script objects.
func MessageBundle() HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			"msg_from_xml": NewJSONHandler(func(ctx context.Context, req XMLRequest) (XMLResponse, error) {
				root, err := parseXML(strings.NewReader(req.XML))
				if err != nil {
					return XMLResponse{}, fmt.Errorf("msg_from_xml: %w", err)
				}
				return XMLResponse{Root: root}, nil
			}),
		},
	}
}

// parseXML walks the token stream into a MsgNode tree.
func parseXML(r io.Reader) (*MsgNode, error) {
	dec := xml.NewDecoder(r)
	var root *MsgNode
	var stack []*MsgNode

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &MsgNode{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					node.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				text := string(bytes.TrimSpace(t))
				if text != "" {
					stack[len(stack)-1].Text += text
				}
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	return root, nil
}
