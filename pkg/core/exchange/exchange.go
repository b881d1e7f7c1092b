// Package exchange serializes roster data to and from the JSON exchange
// document format. Exports carry the full collection plus a timestamp;
// imports validate each record individually and drop the ones that fail,
// never rejecting the whole file over a single bad record.
package exchange

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
)

// exportDateFormat matches the millisecond ISO-8601 timestamps the
// exchange format has always used.
const exportDateFormat = "2006-01-02T15:04:05.000Z07:00"

var validate = validator.New()

// ShiftDocument is the on-disk shape of a shift export.
type ShiftDocument struct {
	Shifts     []model.Shift `json:"shifts"`
	ExportDate string        `json:"exportDate"`
}

// VolumeDocument is the on-disk shape of an incident export.
type VolumeDocument struct {
	CallVolumes []model.CallVolume `json:"callVolumes"`
	ExportDate  string             `json:"exportDate"`
}

// Rejected describes one record dropped during import.
type Rejected struct {
	Index  int
	Reason string
}

// shiftCandidate mirrors model.Shift with the constraints an imported
// record must satisfy before it is accepted.
type shiftCandidate struct {
	ID        string         `json:"id" validate:"required"`
	Name      string         `json:"name" validate:"required"`
	Days      []string       `json:"days" validate:"min=1,dive,oneof=MON TUE WED THU FRI SAT SUN"`
	StartTime string         `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string         `json:"endTime" validate:"required,datetime=15:04"`
	Positions map[string]int `json:"positions" validate:"required,dive,min=0"`
}

type volumeCandidate struct {
	Day       string `json:"day" validate:"required,oneof=MON TUE WED THU FRI SAT SUN"`
	Hour      int    `json:"hour" validate:"min=0,max=23"`
	Incidents int    `json:"incidents" validate:"min=0"`
}

// EncodeShifts renders the shift collection as an export document.
func EncodeShifts(shifts []model.Shift, now time.Time) ([]byte, error) {
	if shifts == nil {
		shifts = []model.Shift{}
	}
	doc := ShiftDocument{Shifts: shifts, ExportDate: now.UTC().Format(exportDateFormat)}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode shift export: %w", err)
	}
	return data, nil
}

// EncodeCallVolumes renders the incident collection as an export document.
func EncodeCallVolumes(volumes []model.CallVolume, now time.Time) ([]byte, error) {
	if volumes == nil {
		volumes = []model.CallVolume{}
	}
	doc := VolumeDocument{CallVolumes: volumes, ExportDate: now.UTC().Format(exportDateFormat)}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode incident export: %w", err)
	}
	return data, nil
}

// ShiftExportFilename returns the conventional export file name for the
// given date, e.g. "shifts-2024-01-01.json".
func ShiftExportFilename(now time.Time) string {
	return fmt.Sprintf("shifts-%s.json", now.UTC().Format("2006-01-02"))
}

// VolumeExportFilename returns the incident export file name for the
// given date, e.g. "incidents-2024-01-01.json".
func VolumeExportFilename(now time.Time) string {
	return fmt.Sprintf("incidents-%s.json", now.UTC().Format("2006-01-02"))
}

// DecodeShifts parses an exported shift document. A document that is not
// valid JSON or whose "shifts" field is not an array returns an error and
// no records, leaving the caller's state untouched. Individual records
// that fail validation are dropped and reported in the second return
// value, preserving the order of the accepted ones.
func DecodeShifts(data []byte) ([]model.Shift, []Rejected, error) {
	var doc struct {
		Shifts []json.RawMessage `json:"shifts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse shift document: %w", err)
	}
	if doc.Shifts == nil {
		return nil, nil, fmt.Errorf("shift document has no shifts array")
	}

	shifts := make([]model.Shift, 0, len(doc.Shifts))
	var rejected []Rejected
	for i, raw := range doc.Shifts {
		var candidate shiftCandidate
		if err := json.Unmarshal(raw, &candidate); err != nil {
			rejected = append(rejected, Rejected{Index: i, Reason: err.Error()})
			continue
		}
		if err := validate.Struct(candidate); err != nil {
			rejected = append(rejected, Rejected{Index: i, Reason: err.Error()})
			continue
		}

		days := make([]model.Weekday, len(candidate.Days))
		for j, d := range candidate.Days {
			days[j] = model.Weekday(d)
		}
		shifts = append(shifts, model.Shift{
			ID:        candidate.ID,
			Name:      candidate.Name,
			Days:      days,
			StartTime: candidate.StartTime,
			EndTime:   candidate.EndTime,
			Positions: candidate.Positions,
		})
	}
	return shifts, rejected, nil
}

// DecodeCallVolumes parses an exported incident document with the same
// per-record drop semantics as DecodeShifts.
func DecodeCallVolumes(data []byte) ([]model.CallVolume, []Rejected, error) {
	var doc struct {
		CallVolumes []json.RawMessage `json:"callVolumes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse incident document: %w", err)
	}
	if doc.CallVolumes == nil {
		return nil, nil, fmt.Errorf("incident document has no callVolumes array")
	}

	volumes := make([]model.CallVolume, 0, len(doc.CallVolumes))
	var rejected []Rejected
	for i, raw := range doc.CallVolumes {
		var candidate volumeCandidate
		if err := json.Unmarshal(raw, &candidate); err != nil {
			rejected = append(rejected, Rejected{Index: i, Reason: err.Error()})
			continue
		}
		if err := validate.Struct(candidate); err != nil {
			rejected = append(rejected, Rejected{Index: i, Reason: err.Error()})
			continue
		}
		volumes = append(volumes, model.CallVolume{
			Day:       model.Weekday(candidate.Day),
			Hour:      candidate.Hour,
			Incidents: candidate.Incidents,
		})
	}
	return volumes, rejected, nil
}
