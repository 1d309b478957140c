// parse.go — Campaign JSON parsing and example generation.
package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseCampaign decodes and validates a campaign JSON document.
func ParseCampaign(data []byte) (*Campaign, error) {
	var c Campaign
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse campaign JSON: %w", err)
	}
	if c.Frame.Shape == "" {
		c.Frame.Shape = ShapeRect
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseCampaignFile loads a standalone campaign JSON file.
func ParseCampaignFile(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campaign: %w", err)
	}
	return ParseCampaign(data)
}

// ExampleJSON returns a sample campaign document for dpgen init.
func ExampleJSON() string {
	return `{
  "title": "Sample Campaign",
  "baseImageUrl": "flyer.png",
  "frame": {
    "x": 340, "y": 340, "width": 400, "height": 400,
    "shape": "circle"
  },
  "text": {
    "x": 0, "y": 900,
    "color": "#000000",
    "fontSize": 60,
    "fontFamily": "Arial",
    "align": "center"
  },
  "isActive": true
}`
}
