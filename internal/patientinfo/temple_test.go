package patientinfo

import (
	"testing"

	"edfconv/internal/recording"
)

func TestParseTemple(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		patientID string
		field     string
		want      recording.PatientInfo
	}{
		{
			name:     "full temple path",
			filename: "edf/dev/01_tcp_ar/002/00000258/s002_2003_07_21/00000258_s002_t000.edf",
			field:    "00000258 M 01-JAN-1954 00000258 Age:49",
			want: recording.PatientInfo{
				PatientID:   "00000258",
				Gender:      GenderMale,
				Age:         49,
				BirthDate:   "01-JAN-1954",
				Session:     "s002",
				SessionDate: "2003-07-21",
				Token:       "t000",
				Montage:     "tcp_ar",
			},
		},
		{
			name:     "female with lowercase month",
			filename: "03_tcp_ar_a/abc_s010_t003.edf",
			field:    "abc F 15-Mar-1980 Age:38",
			want: recording.PatientInfo{
				PatientID: "abc",
				Gender:    GenderFemale,
				Age:       38,
				BirthDate: "15-MAR-1980",
				Session:   "s010",
				Token:     "t003",
				Montage:   "tcp_ar_a",
			},
		},
		{
			name:     "unknown code falls back to filename",
			filename: "02_tcp_le/p7_s001_t001.edf",
			field:    "X X X X",
			want: recording.PatientInfo{
				PatientID: "p7",
				Gender:    GenderUnknown,
				Session:   "s001",
				Token:     "t001",
				Montage:   "tcp_le",
			},
		},
		{
			name:     "non temple names leave fields empty",
			filename: "/data/s001.edf",
			field:    "p001",
			want:     recording.PatientInfo{PatientID: "p001"},
		},
		{
			name:      "identifier wins over header code",
			filename:  "01_tcp_ar/00000258_s002_t000.edf",
			patientID: "00000258",
			field:     "X M 01-JAN-1954 Age:49",
			want: recording.PatientInfo{
				PatientID: "00000258",
				Gender:    GenderMale,
				Age:       49,
				BirthDate: "01-JAN-1954",
				Session:   "s002",
				Token:     "t000",
				Montage:   "tcp_ar",
			},
		},
		{
			name:      "unknown identifier uses header code",
			filename:  "/data/s001.edf",
			patientID: "X",
			field:     "p001 F",
			want:      recording.PatientInfo{PatientID: "p001", Gender: GenderFemale},
		},
		{
			name:     "bad age ignored",
			filename: "",
			field:    "p9 M Age:abc",
			want:     recording.PatientInfo{PatientID: "p9", Gender: GenderMale},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTemple(tt.filename, tt.patientID, tt.field)
			if got != tt.want {
				t.Fatalf("ParseTemple() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseTempleIsDeterministic(t *testing.T) {
	const (
		filename = "01_tcp_ar/s003_2011_02_01/00001_s003_t002.edf"
		field    = "00001 F 02-FEB-1960 Age:51"
	)
	first := ParseTemple(filename, "00001", field)
	for i := 0; i < 5; i++ {
		if got := ParseTemple(filename, "00001", field); got != first {
			t.Fatalf("call %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestEnrichAttachesInfo(t *testing.T) {
	rec := &recording.Recording{
		Filename:     "01_tcp_ar/p001_s001_t000.edf",
		PatientField: "p001 M 01-JAN-2000 Age:3",
		PatientID:    "p001",
	}
	before := *rec

	if err := Enrich(rec); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if !rec.HasPatientInfo() {
		t.Fatal("expected recording to be marked enriched")
	}
	if rec.PatientInfo.Session != "s001" || rec.PatientInfo.Age != 3 || rec.PatientInfo.Montage != "tcp_ar" {
		t.Fatalf("unexpected patient info %+v", rec.PatientInfo)
	}
	if rec.Filename != before.Filename || rec.PatientField != before.PatientField || rec.PatientID != before.PatientID {
		t.Fatal("enrichment must not change identification fields")
	}
}

func TestEnrichUsesRecordingPatientID(t *testing.T) {
	rec := &recording.Recording{
		Filename:     "00000258_s002_t000.edf",
		PatientField: "X X X X",
		PatientID:    "00000258",
	}
	if err := Enrich(rec); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if rec.PatientInfo.PatientID != "00000258" {
		t.Fatalf("patient id = %q, want %q", rec.PatientInfo.PatientID, "00000258")
	}
}

func TestEnrichNilRecording(t *testing.T) {
	if err := (Enricher{}).Enrich(nil); err == nil {
		t.Fatal("expected error for nil recording")
	}
}
