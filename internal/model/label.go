package model

import (
	"fmt"
	"sort"
)

// Label is a diagnostic class of an ECG.
type Label string

const (
	Normal               Label = "Normal"
	AbnormalHeartbeat    Label = "AbnormalHeartbeat"
	MyocardialInfarction Label = "MyocardialInfarction"
	HistoryOfMI          Label = "HistoryOfMI"
)

// Labels lists every known label.
var Labels = []Label{Normal, AbnormalHeartbeat, MyocardialInfarction, HistoryOfMI}

// ParseLabel validates a label name.
func ParseLabel(s string) (Label, error) {
	for _, l := range Labels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown label %q", s)
}

// String returns the label name.
func (l Label) String() string {
	return string(l)
}

// Message returns the sentence shown to a user for the label.
func (l Label) Message() string {
	switch l {
	case Normal:
		return "Your ECG is Normal"
	case AbnormalHeartbeat:
		return "Your ECG corresponds to Abnormal Heartbeat"
	case MyocardialInfarction:
		return "Your ECG corresponds to Myocardial Infarction"
	case HistoryOfMI:
		return "Your ECG corresponds to History of Myocardial Infarction"
	}
	return "Unrecognized ECG classification"
}

// LabelTable maps raw classifier codes to labels.
type LabelTable struct {
	Codes    map[int]Label
	Fallback Label
}

// DefaultLabelTable returns the mapping the bundled classifier was trained with.
func DefaultLabelTable() LabelTable {
	return LabelTable{
		Codes: map[int]Label{
			0: AbnormalHeartbeat,
			1: MyocardialInfarction,
			2: Normal,
		},
		Fallback: HistoryOfMI,
	}
}

// NewLabelTable builds a table from configuration values. Every name must
// be a known label.
func NewLabelTable(codes map[int]string, fallback string) (LabelTable, error) {
	fb, err := ParseLabel(fallback)
	if err != nil {
		return LabelTable{}, fmt.Errorf("fallback: %w", err)
	}
	table := LabelTable{Codes: make(map[int]Label, len(codes)), Fallback: fb}
	for code, name := range codes {
		l, err := ParseLabel(name)
		if err != nil {
			return LabelTable{}, fmt.Errorf("code %d: %w", code, err)
		}
		table.Codes[code] = l
	}
	return table, nil
}

// Lookup returns the label for code, or the fallback when code is unmapped.
func (t LabelTable) Lookup(code int) Label {
	if l, ok := t.Codes[code]; ok {
		return l
	}
	return t.Fallback
}

// Entry is one row of a LabelTable, used for listing.
type Entry struct {
	Code  int   `json:"code"`
	Label Label `json:"label"`
}

// Entries returns the mapped codes in ascending order.
func (t LabelTable) Entries() []Entry {
	entries := make([]Entry, 0, len(t.Codes))
	for code, l := range t.Codes {
		entries = append(entries, Entry{Code: code, Label: l})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}
