package am

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/enginebind/bindgen"
	"github.com/teranos/enginebind/errors"
)

// methodsFile is the on-disk shape of the ownership metadata file:
//
//	[[method]]
//	class = "Node"
//	name = "duplicate"
//	returns = "owned"
type methodsFile struct {
	Method []methodEntry `toml:"method"`
}

type methodEntry struct {
	Class   string `toml:"class"`
	Name    string `toml:"name"`
	Returns string `toml:"returns"`
}

// LoadMetadata reads per-method ownership facts keyed "Class.method".
// The value is true for owned returns and false for borrowed ones.
// Unknown keys are rejected so typos surface instead of silently defaulting.
func LoadMetadata(path string) (map[string]bool, error) {
	var f methodsFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode metadata %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Newf("metadata %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	out := make(map[string]bool, len(f.Method))
	for i, m := range f.Method {
		if m.Class == "" || m.Name == "" {
			return nil, errors.Newf("metadata %s: method #%d needs class and name", path, i+1)
		}
		key := m.Class + "." + m.Name
		if _, dup := out[key]; dup {
			return nil, errors.Newf("metadata %s: %s listed twice", path, key)
		}
		switch m.Returns {
		case "owned":
			out[key] = true
		case "borrowed":
			out[key] = false
		default:
			return nil, errors.Newf("metadata %s: %s returns must be \"owned\" or \"borrowed\", got %q", path, key, m.Returns)
		}
	}
	return out, nil
}

// OwnershipRules combines the configured patterns with the metadata file, if any
func (c *Config) OwnershipRules() (bindgen.OwnershipRules, error) {
	rules := bindgen.OwnershipRules{
		Owned:    c.Ownership.Owned,
		Borrowed: c.Ownership.Borrowed,
	}
	if c.Ownership.Metadata == "" {
		return rules, nil
	}
	md, err := LoadMetadata(c.Ownership.Metadata)
	if err != nil {
		return bindgen.OwnershipRules{}, err
	}
	rules.Metadata = md
	return rules, nil
}
