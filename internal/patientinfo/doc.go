// Package patientinfo derives demographic and session metadata for a
// recording from Temple University Hospital EEG corpus naming conventions.
//
// The patient identification header field carries the patient code, sex,
// birth date and age; the file path carries the session, token, session date
// and montage. Derivation is pure: the same filename and patient field always
// produce the same PatientInfo, and nothing is read from disk.
package patientinfo
