package flarm

// FileEEPROM implements the EEPROM collaborator by reading/writing the
// YAML settings document at path, reusing LoadSettings/Settings.Save
// (settings.go) rather than a second serialization path.
type FileEEPROM struct {
	Path string
}

func (f FileEEPROM) Load() (Settings, error) {
	return LoadSettings(f.Path)
}

func (f FileEEPROM) Store(s Settings) error {
	return s.Save(f.Path)
}
