package config

const (
	defaultConfigPath          = "~/.config/edfconv/config.toml"
	projectConfigName          = "edfconv.toml"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultAnnotationExtension = ".tse"
	defaultRecordExtension     = ".tfrecord"
)

// SchemeTemple selects Temple University Hospital EEG corpus naming
// conventions (patient_sNNN_tNNN file names, Age:/sex tokens in the patient
// field).
const SchemeTemple = "temple"

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Conversion: Conversion{
			Scheme:              "",
			AnnotationExtension: defaultAnnotationExtension,
			RecordExtension:     defaultRecordExtension,
		},
		Output: Output{
			Overwrite: true,
			Lock:      true,
		},
	}
}
