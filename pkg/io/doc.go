// Package io provides JSON import and export for remote layouts.
//
// # Overview
//
// A layout document holds the element tree of one remote together with the
// constraints each element owns. The format is designed for:
//
//   - Exchange with the layout solver and editor front ends
//   - Persistence through the stores in package store
//   - Round-trip preservation: import, edit, export, and re-import identically
//
// # JSON Format
//
//	{
//	  "id": "living-room",
//	  "name": "Living Room",
//	  "remote": {
//	    "uuid": "0b5e…",
//	    "name": "Living Room",
//	    "kind": "remote",
//	    "subelements": [
//	      {
//	        "uuid": "9f41…",
//	        "name": "Transport",
//	        "kind": "buttonGroup",
//	        "subelements": [{"uuid": "77c2…", "name": "Play"}],
//	        "constraints": {
//	          "index": {"transport": "9f41…", "play": "77c2…"},
//	          "format": ["play.center = transport.center"]
//	        }
//	      }
//	    ],
//	    "constraints": {
//	      "index": {"livingRoom": "0b5e…", "transport": "9f41…"},
//	      "format": [
//	        "transport.left = livingRoom.left + 10",
//	        "transport.top = livingRoom.top + 20"
//	      ]
//	    }
//	  }
//	}
//
// # Element Fields
//
// Required:
//   - uuid: Unique element identity
//
// Optional:
//   - name, key, tag: Display name, lookup key and numeric tag
//   - kind: "remote", "buttonGroup" or "button" (inferred from depth if omitted)
//   - role, shape, style: Descriptive attributes, preserved verbatim
//   - subelements: Ordered children
//   - constraints: Constraints owned by the element
//
// # Constraints
//
// Each element's owned constraints are written in the textual form of
// package format. "index" maps the item names used in "format" to element
// UUIDs. Names are camel-cased display names; elements without a usable
// unique name are written by identifier (an underscore followed by the UUID
// without dashes), which needs no index entry. "format" may be a single
// string or an array.
//
// # Usage
//
// Reading a layout:
//
//	l, err := io.ImportJSON("living-room.json")
//
// Writing a layout:
//
//	err := io.ExportJSON(l, "living-room.json")
//
// Or using readers/writers directly:
//
//	l, err := io.ReadJSON(r)
//	err = io.WriteJSON(l, w)
package io
