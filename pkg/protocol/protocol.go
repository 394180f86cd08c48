// Package protocol defines the i3bar wire types for dotstatus: the startup
// header, the per-block render payload, and inbound click events.
//
// doc: https://i3wm.org/docs/i3bar-protocol.html
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Header is the one-line JSON object written before the infinite block array.
type Header struct {
	Version     int  `json:"version"`
	ClickEvents bool `json:"click_events"`
}

// DefaultHeader declares protocol version 1 with click events enabled.
func DefaultHeader() Header {
	return Header{Version: 1, ClickEvents: true}
}

// Default style values applied to every new Block. Zero-valued borders are
// meaningful to i3bar, so none of the style fields use omitempty.
const (
	DefaultBorder       = "#282828"
	DefaultBorderBottom = 2
	DefaultMinWidth     = 50
	DefaultAlign        = "center"
)

// Block is the render payload for a single status-line segment, serialized
// as one element of the output array.
type Block struct {
	FullText     string `json:"full_text"`
	Name         string `json:"name"`
	Instance     string `json:"instance"`
	Border       string `json:"border"`
	BorderTop    int    `json:"border_top"`
	BorderBottom int    `json:"border_bottom"`
	BorderLeft   int    `json:"border_left"`
	BorderRight  int    `json:"border_right"`
	MinWidth     int    `json:"min_width"`
	Align        string `json:"align"`
}

// NewBlock returns a Block with the default style and the given block-type
// name. The instance id is assigned later, at registration.
func NewBlock(name string) Block {
	return Block{
		Name:         name,
		Border:       DefaultBorder,
		BorderBottom: DefaultBorderBottom,
		MinWidth:     DefaultMinWidth,
		Align:        DefaultAlign,
	}
}

// ClickEvent is one decoded click line sent by the bar on stdin.
type ClickEvent struct {
	Name     string `json:"name"`
	Instance string `json:"instance"`
	Button   int    `json:"button"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// ParseClick decodes one input line as a ClickEvent.
//
// The bar opens its event stream with a bare "[" and prefixes every
// subsequent event with a comma; both are framing, not payload. ok reports
// whether the line carried an event at all, err reports a malformed payload.
func ParseClick(line string) (ev ClickEvent, ok bool, err error) {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "[") {
		return ClickEvent{}, false, nil
	}
	s = strings.TrimSpace(strings.TrimLeft(s, ","))
	if err := json.Unmarshal([]byte(s), &ev); err != nil {
		return ClickEvent{}, false, fmt.Errorf("decode click event: %w", err)
	}
	return ev, true, nil
}
