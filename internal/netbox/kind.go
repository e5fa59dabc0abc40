package netbox

import (
	"sort"
	"strings"

	"github.com/agentstation/nbctx/pkg/errors"
)

// Kind describes one NetBox object type that carries local context data.
type Kind struct {
	// Name is the command-line name ("vm", "device").
	Name string
	// Path is the API path below /api/, without slashes.
	Path string
	// Singular is the noun used in error messages.
	Singular string
	// Plural is the capitalized noun used in command output.
	Plural string
}

var kinds = map[string]Kind{
	"vm": {
		Name:     "vm",
		Path:     "virtualization/virtual-machines",
		Singular: "virtual machine",
		Plural:   "Virtual machines",
	},
	"device": {
		Name:     "device",
		Path:     "dcim/devices",
		Singular: "device",
		Plural:   "Devices",
	},
}

// LookupKind returns the kind registered under name.
func LookupKind(name string) (Kind, error) {
	k, ok := kinds[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Kind{}, errors.NewConfigError("kind",
			"unknown kind "+name+" (supported: "+strings.Join(KindNames(), ", ")+")", nil)
	}
	return k, nil
}

// KindNames lists the supported kind names in order.
func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
