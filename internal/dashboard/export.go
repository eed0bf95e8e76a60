package dashboard

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// FileName is users_export_<date>.<ext>.
func (f Format) FileName(now time.Time) string {
	return fmt.Sprintf("users_export_%s.%s", now.Format("2006-01-02"), f)
}

var csvHeader = []string{"id", "name", "status", "city", "userType", "onboardingDate", "lastActive"}

// Export writes users as indented JSON or CSV with a header row.
func Export(users []User, f Format) ([]byte, error) {
	if users == nil {
		users = []User{}
	}
	switch f {
	case FormatJSON:
		return json.MarshalIndent(users, "", "  ")
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(csvHeader); err != nil {
			return nil, err
		}
		for _, u := range users {
			if err := w.Write([]string{u.ID, u.Name, u.Status, u.City, u.UserType, u.OnboardingDate, u.LastActive}); err != nil {
				return nil, err
			}
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}
