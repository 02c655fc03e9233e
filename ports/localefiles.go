package ports

// LocaleFiles reads and writes one nested JSON document per locale at a
// configured base location, e.g. messages/en.json.
type LocaleFiles interface {
	Write(locale string, tree map[string]any) error
	Read(locale string) (map[string]any, error)
	ReadAll() (map[string]map[string]any, error)
}
