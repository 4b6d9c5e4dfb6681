package patientinfo

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"edfconv/internal/recording"
)

const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

var (
	fileStem   = regexp.MustCompile(`^([A-Za-z0-9]+)_(s\d+)_(t\d+)$`)
	sessionDir = regexp.MustCompile(`^(s\d+)_(\d{4})_(\d{2})_(\d{2})$`)
	montageDir = regexp.MustCompile(`^\d+_(tcp_[a-z0-9_]+)$`)
)

// ParseTemple derives patient metadata from a recording path and its patient
// identifier. patientField is the raw local patient identification header
// ("code sex DD-MMM-YYYY name Age:NN") and supplies demographics; its code
// only stands in when patientID is empty or "X", and the filename prefix is
// the last resort. Pieces that cannot be derived are left empty; age 0 means
// unknown.
func ParseTemple(filename, patientID, patientField string) recording.PatientInfo {
	var info recording.PatientInfo
	parsePatientField(patientField, &info)
	if id := strings.TrimSpace(patientID); id != "" && id != "X" {
		info.PatientID = id
	}
	parsePath(filename, &info)
	return info
}

func parsePatientField(field string, info *recording.PatientInfo) {
	tokens := strings.Fields(field)
	if len(tokens) == 0 {
		return
	}
	if tokens[0] != "X" {
		info.PatientID = tokens[0]
	}
	for _, token := range tokens[1:] {
		switch {
		case info.Gender == "" && isGenderToken(token):
			info.Gender = gender(token)
		case info.BirthDate == "" && isBirthDate(token):
			info.BirthDate = strings.ToUpper(token)
		case strings.HasPrefix(strings.ToLower(token), "age:"):
			if age, err := strconv.Atoi(token[len("age:"):]); err == nil && age >= 0 {
				info.Age = age
			}
		}
	}
}

func isGenderToken(token string) bool {
	switch token {
	case "M", "F", "X":
		return true
	}
	return false
}

func gender(token string) string {
	switch token {
	case "M":
		return GenderMale
	case "F":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

func isBirthDate(token string) bool {
	parts := strings.Split(token, "-")
	if len(parts) != 3 || len(parts[1]) != 3 {
		return false
	}
	month := parts[1][:1] + strings.ToLower(parts[1][1:])
	_, err := time.Parse("02-Jan-2006", parts[0]+"-"+month+"-"+parts[2])
	return err == nil
}

func parsePath(filename string, info *recording.PatientInfo) {
	if filename == "" {
		return
	}
	clean := filepath.ToSlash(filepath.Clean(filename))
	base := filepath.Base(clean)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if m := fileStem.FindStringSubmatch(stem); m != nil {
		if info.PatientID == "" {
			info.PatientID = m[1]
		}
		info.Session = m[2]
		info.Token = m[3]
	}

	segments := strings.Split(clean, "/")
	for _, segment := range segments[:len(segments)-1] {
		if m := sessionDir.FindStringSubmatch(segment); m != nil {
			if info.Session == "" {
				info.Session = m[1]
			}
			info.SessionDate = m[2] + "-" + m[3] + "-" + m[4]
			continue
		}
		if m := montageDir.FindStringSubmatch(segment); m != nil {
			info.Montage = m[1]
		}
	}
}

// Enricher attaches Temple-derived patient metadata to a recording.
type Enricher struct{}

// Enrich derives PatientInfo from the recording's filename and patient
// identifier and attaches it. It is the only mutation applied after load.
func (Enricher) Enrich(rec *recording.Recording) error {
	if rec == nil {
		return errors.New("recording is nil")
	}
	rec.SetPatientInfo(ParseTemple(rec.Filename, rec.PatientID, rec.PatientField))
	return nil
}

// Enrich is a convenience wrapper around Enricher.Enrich.
func Enrich(rec *recording.Recording) error {
	return Enricher{}.Enrich(rec)
}
