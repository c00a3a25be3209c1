package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Attachment is a file captured at report time and stored inline with the
// incident as a self-contained data URI, so an incident row carries
// everything needed to reproduce the report.
type Attachment struct {
	// ID is a uuid assigned at ingestion.
	ID string `json:"id"`

	// Name is the base name of the ingested file.
	Name string `json:"name"`

	// Type is the MIME type resolved from the file extension,
	// application/octet-stream when unknown.
	Type string `json:"type"`

	// Size is the original byte length of the file content.
	Size int64 `json:"size"`

	// Data holds the content as "data:<mime>;base64,<payload>".
	Data string `json:"data"`
}

// EncodeAttachmentData builds the stored data URI for raw file content.
func EncodeAttachmentData(mimeType string, content []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// DecodeData returns the raw file content held in the attachment's data URI.
func (a Attachment) DecodeData() ([]byte, error) {
	_, payload, found := strings.Cut(a.Data, ";base64,")
	if !found {
		return nil, fmt.Errorf("attachment %s: malformed data URI", a.ID)
	}
	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("attachment %s: decode content: %w", a.ID, err)
	}
	return content, nil
}

// TableName returns the name of the database table associated with the
// Attachment model.
func (a Attachment) TableName() string {
	return "attachments"
}
