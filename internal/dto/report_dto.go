package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decimal accepts a coordinate sent either as a JSON string or a JSON number
// and keeps its textual form.
type Decimal string

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decimal must be a string or number: %w", err)
	}
	*d = Decimal(n.String())
	return nil
}

type SubmitReportRequest struct {
	DisasterType    string   `json:"disasterType"`
	Location        string   `json:"location"`
	DetailedAddress string   `json:"detailedAddress"`
	Description     string   `json:"description"`
	ReporterName    string   `json:"reporterName"`
	ReporterPhone   string   `json:"reporterPhone"`
	ReporterEmail   string   `json:"reporterEmail"`
	Photos          []string `json:"photos"`
	Latitude        Decimal  `json:"latitude"`
	Longitude       Decimal  `json:"longitude"`
}

type UpdateStatusRequest struct {
	Status     string  `json:"status"`
	AssignedTo *string `json:"assignedTo"`
}

// ReportFilter selects at most one listing dimension.
type ReportFilter struct {
	Status string
	Email  string
}
