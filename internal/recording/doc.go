// Package recording defines the normalized in-memory form of one EEG session.
//
// A Recording is produced by the EDF loader, enriched once with PatientInfo
// derived from naming conventions, and then consumed by the example builder.
// SetPatientInfo is the only mutation after load.
package recording
