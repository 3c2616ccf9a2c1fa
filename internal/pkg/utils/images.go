package utils

import (
	"encoding/json"
	"strings"
)

// ImagesToString encodes an image list as a JSON array for a text column.
func ImagesToString(images []string) string {
	if len(images) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(images)
	return string(data)
}

// StringToImages decodes a text column back into an image list.
func StringToImages(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var images []string
	if err := json.Unmarshal([]byte(s), &images); err != nil {
		// rows written before the JSON encoding stored comma-separated URLs
		return strings.Split(s, ",")
	}
	return images
}
