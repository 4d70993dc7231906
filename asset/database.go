package asset

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// A Database maps asset names to file paths. Its YAML form is a plain mapping:
//
//	player: textures/player.png
//	ui-font: fonts/Go-Regular.ttf
//
// The zero value is an empty database ready to use.
//
type Database struct {
	paths map[string]string
}

// Add associates name with path, replacing any previous association.
//
func (db *Database) Add(name, path string) {
	if db.paths == nil {
		db.paths = make(map[string]string)
	}
	db.paths[name] = path
}

// Path returns the path of the named asset. Unknown names return an *Error of
// kind KindNotFound wrapping ErrNameNotFound.
//
func (db *Database) Path(name string) (string, error) {
	if p, ok := db.paths[name]; ok {
		return p, nil
	}
	return "", &Error{Kind: KindNotFound, Path: name, Err: ErrNameNotFound}
}

// Names returns the sorted list of names in the database.
//
func (db *Database) Names() []string {
	names := make([]string, 0, len(db.paths))
	for n := range db.paths {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
//
func (db *Database) Len() int { return len(db.paths) }

// UnmarshalYAML implements yaml.Unmarshaler. Decoded entries are added to db.
//
func (db *Database) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]string
	if err := value.Decode(&m); err != nil {
		return err
	}
	for k, v := range m {
		db.Add(k, v)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
//
func (db Database) MarshalYAML() (interface{}, error) {
	if db.paths == nil {
		return map[string]string{}, nil
	}
	return db.paths, nil
}

// LoadDatabase reads a database from the named YAML file.
//
func (l *Loader) LoadDatabase(name string) (*Database, error) {
	db := new(Database)
	if err := l.Object(name, db); err != nil {
		return nil, err
	}
	return db, nil
}
